package pipeline

import (
	"context"
	"fmt"

	"ytdub/internal/transcript"
)

// TranscriptSource is the contract the pipeline needs from the transcript
// extractor.
type TranscriptSource interface {
	VideoInfo(ctx context.Context, url string) (*transcript.VideoInfo, error)
	Fetch(ctx context.Context, url string, langPrefs []string) (*transcript.Result, error)
}

// SpeechSynthesizer is the contract the pipeline needs from the TTS backend.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice, rate, outPath string) error
}

// Observer receives step-level progress. The core emits counts and a plain
// message only; presentation belongs to the caller.
type Observer func(completed, total int, message string)

// Result describes a finished (or resumed-to-finished) dubbing job.
type Result struct {
	VideoID      string
	Title        string
	Folder       string
	OriginalPath string
	KoreanPath   string
	AudioPath    string
	ResumedFrom  Stage
}

// StageError wraps a stage failure with the stage's partial progress. All
// artifacts produced up to the failure stay on disk for the next run.
type StageError struct {
	Stage   Stage
	Percent int
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed at %d%%: %v", e.Stage, e.Percent, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
