package service

import "sort"

// orderedCounter считает вхождения ключей, сохраняя порядок первого появления,
// чтобы при равных значениях сортировка оставалась детерминированной
type orderedCounter struct {
	keys   []string
	counts map[string]int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

type keyCount struct {
	key   string
	count int
}

// top возвращает пары по убыванию count; limit <= 0 снимает ограничение
func (c *orderedCounter) top(limit int) []keyCount {
	result := make([]keyCount, 0, len(c.keys))
	for _, key := range c.keys {
		result = append(result, keyCount{key: key, count: c.counts[key]})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].count > result[j].count
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
