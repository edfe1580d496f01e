package spotify

import (
	"fmt"
	"testing"
)

func TestChunkIDs(t *testing.T) {
	makeIDs := func(n int) []string {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("id%d", i)
		}
		return ids
	}

	tests := []struct {
		name      string
		count     int
		size      int
		wantSizes []int
	}{
		{"empty input", 0, 50, nil},
		{"single partial chunk", 7, 50, []int{7}},
		{"exact multiple", 100, 50, []int{50, 50}},
		{"remainder chunk", 120, 50, []int{50, 50, 20}},
		{"follow-sized chunks", 45, 20, []int{20, 20, 5}},
		{"zero size", 10, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkIDs(makeIDs(tt.count), tt.size)
			if len(chunks) != len(tt.wantSizes) {
				t.Fatalf("chunkIDs() produced %d chunks, want %d", len(chunks), len(tt.wantSizes))
			}
			total := 0
			for i, chunk := range chunks {
				if len(chunk) != tt.wantSizes[i] {
					t.Errorf("chunk %d size = %d, want %d", i, len(chunk), tt.wantSizes[i])
				}
				total += len(chunk)
			}
			if total != tt.count {
				t.Errorf("chunks hold %d ids, want %d", total, tt.count)
			}
		})
	}
}

func TestDedupeIDs(t *testing.T) {
	got := dedupeIDs([]string{"a", "b", "a", "", "c", "b", "a"})
	want := []string{"a", "b", "c"}

	if len(got) != len(want) {
		t.Fatalf("dedupeIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dedupeIDs()[%d] = %q, want %q (first-occurrence order)", i, got[i], want[i])
		}
	}
}
