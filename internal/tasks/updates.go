package tasks

import (
	"fmt"
	"time"

	"github.com/mhoffer1/spotify-release-hub/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Emitted, never stored: a purely observational side channel from the engine
// to the CLI or UI layer.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	AnalyzePhase Phase = iota
	FollowPhase
	ScanPhase
	CreatePlaylistPhase
	FetchTracksPhase
	RelatedPhase
)

func (p Phase) String() string {
	switch p {
	case AnalyzePhase:
		return "analyze"
	case FollowPhase:
		return "follow"
	case ScanPhase:
		return "scan"
	case CreatePlaylistPhase:
		return "create_playlist"
	case FetchTracksPhase:
		return "fetch_tracks"
	case RelatedPhase:
		return "related"
	default:
		return ""
	}
}

func analyzeUpdate(step, total int, message string) ProgressUpdate {
	return ProgressUpdate{Phase: AnalyzePhase, Step: step, Total: total, Message: message}
}

func analysisCachedUpdate(analysis *models.PlaylistAnalysis) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzePhase,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Using cached analysis for %s", analysis.PlaylistName),
		Data:    analysis,
	}
}

func followChunkUpdate(step, total, followed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FollowPhase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Followed %d artists", step, total, followed),
	}
}

func followChunkFailedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FollowPhase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Follow chunk failed: %v", step, total, err),
	}
}

func scanBatchUpdate(processed, total int, batch []models.Artist, remaining time.Duration) ProgressUpdate {
	names := make([]string, 0, len(batch))
	for _, a := range batch {
		names = append(names, a.Name)
	}
	message := fmt.Sprintf("[%d/%d] Checked %d artists", processed, total, len(batch))
	if remaining > 0 {
		message = fmt.Sprintf("%s (~%s remaining)", message, remaining.Round(time.Second))
	}
	return ProgressUpdate{
		Phase:   ScanPhase,
		Step:    processed,
		Total:   total,
		Message: message,
		Data:    names,
	}
}

func createPlaylistUpdate(step, total int, message string) ProgressUpdate {
	return ProgressUpdate{Phase: CreatePlaylistPhase, Step: step, Total: total, Message: message}
}

func fetchTracksUpdate(step, total int, albumID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracksPhase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching tracks for album %s", step, total, albumID),
	}
}

func relatedUpdate(step, total int, seedID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RelatedPhase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching related artists for %s", step, total, seedID),
	}
}
