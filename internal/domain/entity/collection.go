package entity

// Collection хранит результат выгрузки коллекции: записи и объявленное (или вычисленное) общее количество
type Collection[T any] struct {
	Items          []T `json:"items"`
	TotalItemCount int `json:"totalItemCount"`
}

// NewCollection создает коллекцию, у которой total равен числу записей
func NewCollection[T any](items []T) Collection[T] {
	if items == nil {
		items = []T{}
	}
	return Collection[T]{Items: items, TotalItemCount: len(items)}
}
