package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// joinAll запускает задачи параллельно и ждет все.
// Первая ошибка отменяет контекст остальных и возвращается целиком, частичного результата нет.
func joinAll(ctx context.Context, tasks ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}
	return g.Wait()
}
