package models

import (
	"testing"
	"time"
)

func TestReleaseReleasedOn(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		precision string
		want      time.Time
		wantOK    bool
	}{
		{"day precision", "2026-08-15", PrecisionDay, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), true},
		{"month precision", "2026-08", PrecisionMonth, time.Time{}, false},
		{"year precision", "2026", PrecisionYear, time.Time{}, false},
		{"day precision with malformed date", "2026/08/15", PrecisionDay, time.Time{}, false},
		{"empty", "", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			release := Release{ReleaseDate: tt.date, Precision: tt.precision}
			got, ok := release.ReleasedOn()
			if ok != tt.wantOK {
				t.Fatalf("ReleasedOn() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ReleasedOn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClones(t *testing.T) {
	t.Run("artist clone is independent", func(t *testing.T) {
		original := Artist{ID: "a1", Name: "Alpha", Images: []Image{{URL: "http://img/1"}}}
		clone := original.Clone()
		clone.Images[0].URL = "mutated"

		if original.Images[0].URL != "http://img/1" {
			t.Errorf("original image URL = %q, clone mutation leaked", original.Images[0].URL)
		}
	})

	t.Run("release clone copies nested artists", func(t *testing.T) {
		original := Release{
			ID:      "r1",
			Artists: []Artist{{ID: "a1", Images: []Image{{URL: "http://img/1"}}}},
			Images:  []Image{{URL: "http://cover/1"}},
		}
		clone := original.Clone()
		clone.Artists[0].Images[0].URL = "mutated"
		clone.Images[0].URL = "mutated"

		if original.Artists[0].Images[0].URL != "http://img/1" {
			t.Error("nested artist image mutated through the clone")
		}
		if original.Images[0].URL != "http://cover/1" {
			t.Error("cover image mutated through the clone")
		}
	})

	t.Run("analysis clone copies unfollowed entries", func(t *testing.T) {
		original := PlaylistAnalysis{
			PlaylistID: "p1",
			Unfollowed: []UnfollowedArtist{{Artist: Artist{ID: "a1", Name: "Alpha"}, Frequency: 2}},
		}
		clone := original.Clone()
		clone.Unfollowed[0].Artist.Name = "mutated"
		clone.Unfollowed[0].Frequency = 99

		if original.Unfollowed[0].Artist.Name != "Alpha" || original.Unfollowed[0].Frequency != 2 {
			t.Errorf("original analysis mutated through the clone: %+v", original.Unfollowed[0])
		}
	})
}
