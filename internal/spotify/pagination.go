package spotify

import "context"

// drainOffset repeatedly fetches offset/limit pages until the server reports
// no next page, folding every item into visit exactly once in page order.
// Page N+1 is never requested before page N completes.
func drainOffset[T any](ctx context.Context, limit int, fetch func(ctx context.Context, offset, limit int) ([]T, *string, error), visit func(T) error) error {
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, next, err := fetch(ctx, offset, limit)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := visit(item); err != nil {
				return err
			}
		}

		if next == nil || *next == "" || len(items) == 0 {
			return nil
		}
		offset += len(items)
	}
}

// drainCursor follows an opaque server-supplied cursor until it runs out.
func drainCursor[T any](ctx context.Context, fetch func(ctx context.Context, after string) ([]T, string, error), visit func(T) error) error {
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, nextAfter, err := fetch(ctx, after)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := visit(item); err != nil {
				return err
			}
		}

		if nextAfter == "" || len(items) == 0 {
			return nil
		}
		after = nextAfter
	}
}
