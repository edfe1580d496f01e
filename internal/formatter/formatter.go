// package formatter renders engine results for CLI display
package formatter

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mhoffer1/spotify-release-hub/internal/models"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"github.com/mhoffer1/spotify-release-hub/internal/tasks"
)

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	dim   lipgloss.Style
}

// NewPalette creates the default stylesheet.
func NewPalette() *Palette {
	return &Palette{
		title: lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
		dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// Analysis renders a playlist analysis as text.
func (p *Palette) Analysis(a *models.PlaylistAnalysis) string {
	var buf bytes.Buffer

	buf.WriteString(p.title.Render(fmt.Sprintf("%s — %s", a.PlaylistName, a.Owner)) + "\n")
	buf.WriteString(p.dim.Render(fmt.Sprintf("%d tracks, %d distinct artists", a.TotalTracks, a.TotalArtists)) + "\n\n")

	if len(a.Unfollowed) == 0 {
		buf.WriteString(p.ok.Render("You follow every artist in this playlist.") + "\n")
		return buf.String()
	}

	buf.WriteString(fmt.Sprintf("Unfollowed artists (%d):\n", len(a.Unfollowed)))
	for i, u := range a.Unfollowed {
		buf.WriteString(fmt.Sprintf("%3d. %s %s\n", i+1, u.Artist.Name, p.dim.Render(fmt.Sprintf("(%d tracks)", u.Frequency))))
	}
	return buf.String()
}

// Scan renders a release scan as text.
func (p *Palette) Scan(s *models.ReleaseScan) string {
	var buf bytes.Buffer

	buf.WriteString(p.title.Render(fmt.Sprintf("%d recent releases", len(s.Releases))) + " ")
	buf.WriteString(p.dim.Render(fmt.Sprintf("from %d artists checked", s.ArtistsChecked)) + "\n\n")

	for _, r := range s.Releases {
		buf.WriteString(fmt.Sprintf("%s  %s — %s %s\n", r.ReleaseDate, r.ArtistName, r.Name, p.dim.Render("["+r.Type+"]")))
	}
	return buf.String()
}

// Follow renders a bulk-follow summary as text.
func (p *Palette) Follow(r *models.FollowResult) string {
	var buf bytes.Buffer

	buf.WriteString(p.ok.Render(fmt.Sprintf("Followed %d artists", r.Followed)) + "\n")
	if r.Failed > 0 {
		buf.WriteString(p.err.Render(fmt.Sprintf("Failed to follow %d artists", r.Failed)) + "\n")
		for _, id := range r.FailedIDs {
			buf.WriteString(p.dim.Render("  - "+id) + "\n")
		}
	}
	return buf.String()
}

// Playlist renders a created playlist as text.
func (p *Palette) Playlist(info *models.PlaylistInfo) string {
	return fmt.Sprintf("%s\n%s\n",
		p.ok.Render(fmt.Sprintf("Created %s playlist %q with %d tracks",
			shared.VisibilityString(info.Public), info.Name, info.TracksAdded)),
		p.dim.Render(info.URL))
}

// Tracks renders a track listing as text.
func (p *Palette) Tracks(tracks []models.Track) string {
	var buf bytes.Buffer
	buf.WriteString(p.title.Render(fmt.Sprintf("%d tracks", len(tracks))) + "\n")
	for i, t := range tracks {
		artist := ""
		if len(t.Artists) > 0 {
			artist = t.Artists[0].Name + " — "
		}
		buf.WriteString(fmt.Sprintf("%3d. %s%s %s\n", i+1, artist, t.Name,
			p.dim.Render(shared.FormatDuration(t.DurationMS))))
	}
	return buf.String()
}

// Artists renders an artist list (related-artist candidates) as text.
func (p *Palette) Artists(artists []models.Artist) string {
	var buf bytes.Buffer
	buf.WriteString(p.title.Render(fmt.Sprintf("%d candidates", len(artists))) + "\n")
	for i, a := range artists {
		buf.WriteString(fmt.Sprintf("%3d. %s %s\n", i+1, a.Name, p.dim.Render(fmt.Sprintf("(popularity %d)", a.Popularity))))
	}
	return buf.String()
}

// Progress renders a progress update for plain streaming output.
func (p *Palette) Progress(u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.FollowPhase, tasks.ScanPhase:
		return p.warn.Render("▸") + " " + u.Message
	default:
		return p.dim.Render("▸") + " " + u.Message
	}
}
