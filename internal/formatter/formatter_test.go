package formatter

import (
	"strings"
	"testing"

	"github.com/mhoffer1/spotify-release-hub/internal/models"
	"github.com/mhoffer1/spotify-release-hub/internal/tasks"
)

func TestPalette(t *testing.T) {
	palette := NewPalette()

	t.Run("Analysis", func(t *testing.T) {
		analysis := &models.PlaylistAnalysis{
			PlaylistName: "Test Mix",
			Owner:        "tester",
			TotalTracks:  10,
			TotalArtists: 4,
			Unfollowed: []models.UnfollowedArtist{
				{Artist: models.Artist{ID: "a1", Name: "Alpha"}, Frequency: 3},
				{Artist: models.Artist{ID: "a2", Name: "Beta"}, Frequency: 1},
			},
		}

		output := palette.Analysis(analysis)
		for _, want := range []string{"Test Mix", "Alpha", "Beta", "(3 tracks)", "Unfollowed artists (2)"} {
			if !strings.Contains(output, want) {
				t.Errorf("Analysis() output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("Analysis with nothing unfollowed", func(t *testing.T) {
		output := palette.Analysis(&models.PlaylistAnalysis{PlaylistName: "Clean", TotalArtists: 2})
		if !strings.Contains(output, "follow every artist") {
			t.Errorf("Analysis() output missing fully-followed message:\n%s", output)
		}
	})

	t.Run("Scan", func(t *testing.T) {
		scan := &models.ReleaseScan{
			Releases: []models.Release{
				{ID: "r1", Name: "New Album", ArtistName: "Alpha", ReleaseDate: "2026-08-20", Type: "album"},
			},
			ArtistsChecked: 12,
		}

		output := palette.Scan(scan)
		for _, want := range []string{"1 recent releases", "12 artists checked", "New Album", "2026-08-20"} {
			if !strings.Contains(output, want) {
				t.Errorf("Scan() output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("Follow", func(t *testing.T) {
		result := &models.FollowResult{Followed: 18, Failed: 2, FailedIDs: []string{"a1", "a2"}}

		output := palette.Follow(result)
		for _, want := range []string{"Followed 18 artists", "Failed to follow 2 artists", "a1", "a2"} {
			if !strings.Contains(output, want) {
				t.Errorf("Follow() output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("Playlist", func(t *testing.T) {
		info := &models.PlaylistInfo{Name: "Drops", TracksAdded: 25, URL: "https://open.spotify.com/playlist/x"}

		output := palette.Playlist(info)
		if !strings.Contains(output, `"Drops"`) || !strings.Contains(output, "25 tracks") {
			t.Errorf("Playlist() output = %s", output)
		}
		if !strings.Contains(output, info.URL) {
			t.Errorf("Playlist() output missing URL:\n%s", output)
		}
	})

	t.Run("Tracks", func(t *testing.T) {
		tracks := []models.Track{
			{ID: "t1", Name: "Opener", Artists: []models.Artist{{Name: "Alpha"}}, DurationMS: 185000},
		}

		output := palette.Tracks(tracks)
		for _, want := range []string{"1 tracks", "Alpha", "Opener", "3:05"} {
			if !strings.Contains(output, want) {
				t.Errorf("Tracks() output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("Artists", func(t *testing.T) {
		output := palette.Artists([]models.Artist{{ID: "a1", Name: "Alpha", Popularity: 72}})
		if !strings.Contains(output, "Alpha") || !strings.Contains(output, "popularity 72") {
			t.Errorf("Artists() output = %s", output)
		}
	})

	t.Run("Progress", func(t *testing.T) {
		update := tasks.ProgressUpdate{Phase: tasks.ScanPhase, Message: "[2/10] Checked 5 artists"}
		output := palette.Progress(update)
		if !strings.Contains(output, update.Message) {
			t.Errorf("Progress() output = %s", output)
		}
	})
}
