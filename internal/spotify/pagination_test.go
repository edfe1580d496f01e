package spotify

import (
	"context"
	"errors"
	"testing"
)

func TestDrainOffset(t *testing.T) {
	t.Run("visits every item once in page order", func(t *testing.T) {
		pages := [][]int{{1, 2, 3}, {4, 5, 6}, {7}}
		next := "more"

		var offsets []int
		fetch := func(ctx context.Context, offset, limit int) ([]int, *string, error) {
			offsets = append(offsets, offset)
			page := pages[len(offsets)-1]
			if len(offsets) == len(pages) {
				return page, nil, nil
			}
			return page, &next, nil
		}

		var visited []int
		err := drainOffset(context.Background(), 3, fetch, func(v int) error {
			visited = append(visited, v)
			return nil
		})
		if err != nil {
			t.Fatalf("drainOffset() error = %v", err)
		}

		wantOffsets := []int{0, 3, 6}
		for i, want := range wantOffsets {
			if offsets[i] != want {
				t.Errorf("offset[%d] = %d, want %d", i, offsets[i], want)
			}
		}
		for i, want := range []int{1, 2, 3, 4, 5, 6, 7} {
			if visited[i] != want {
				t.Errorf("visited[%d] = %d, want %d", i, visited[i], want)
			}
		}
	})

	t.Run("stops on an empty page even with a next pointer", func(t *testing.T) {
		next := "more"
		calls := 0
		fetch := func(ctx context.Context, offset, limit int) ([]int, *string, error) {
			calls++
			return nil, &next, nil
		}

		if err := drainOffset(context.Background(), 10, fetch, func(int) error { return nil }); err != nil {
			t.Fatalf("drainOffset() error = %v", err)
		}
		if calls != 1 {
			t.Errorf("fetch calls = %d, want 1", calls)
		}
	})

	t.Run("a visit error stops the traversal", func(t *testing.T) {
		next := "more"
		calls := 0
		fetch := func(ctx context.Context, offset, limit int) ([]int, *string, error) {
			calls++
			return []int{1, 2}, &next, nil
		}

		wantErr := errors.New("stop")
		err := drainOffset(context.Background(), 2, fetch, func(int) error { return wantErr })
		if !errors.Is(err, wantErr) {
			t.Errorf("drainOffset() error = %v, want %v", err, wantErr)
		}
		if calls != 1 {
			t.Errorf("fetch calls = %d, no page after a visit failure", calls)
		}
	})

	t.Run("cancelled context stops before fetching", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := drainOffset(ctx, 10, func(ctx context.Context, offset, limit int) ([]int, *string, error) {
			t.Error("fetch should not run with a cancelled context")
			return nil, nil, nil
		}, func(int) error { return nil })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("drainOffset() error = %v, want context.Canceled", err)
		}
	})
}

func TestDrainCursor(t *testing.T) {
	t.Run("follows cursors until exhausted", func(t *testing.T) {
		pages := map[string]struct {
			items []string
			next  string
		}{
			"":  {items: []string{"a", "b"}, next: "c1"},
			"c1": {items: []string{"c"}, next: "c2"},
			"c2": {items: []string{"d"}, next: ""},
		}

		var afters []string
		fetch := func(ctx context.Context, after string) ([]string, string, error) {
			afters = append(afters, after)
			page := pages[after]
			return page.items, page.next, nil
		}

		var visited []string
		err := drainCursor(context.Background(), fetch, func(v string) error {
			visited = append(visited, v)
			return nil
		})
		if err != nil {
			t.Fatalf("drainCursor() error = %v", err)
		}

		if len(afters) != 3 || afters[0] != "" || afters[1] != "c1" || afters[2] != "c2" {
			t.Errorf("cursor sequence = %v, want [\"\" c1 c2]", afters)
		}
		if len(visited) != 4 {
			t.Errorf("visited %d items, want 4", len(visited))
		}
	})

	t.Run("fetch error propagates", func(t *testing.T) {
		wantErr := errors.New("upstream down")
		err := drainCursor(context.Background(), func(ctx context.Context, after string) ([]string, string, error) {
			return nil, "", wantErr
		}, func(string) error { return nil })
		if !errors.Is(err, wantErr) {
			t.Errorf("drainCursor() error = %v, want %v", err, wantErr)
		}
	})
}
