package pipeline

import (
	"path/filepath"

	"ytdub/pkg/file"
)

// Stage is where a dubbing job stands. It is never stored: the stage is
// recomputed from artifact presence alone, so a process restart loses no
// state.
type Stage string

const (
	StageStart     Stage = "start"
	StageTranslate Stage = "translate"
	StageTTS       Stage = "tts"
	StageDone      Stage = "done"
)

// Job-level artifact names inside a job folder.
const (
	OriginalFileName = "transcript_original.txt"
	SegmentsFileName = "segments.json"
	KoreanFileName   = "transcript_korean.txt"
	ChunkDirName     = "chunks"
)

// ArtifactProbe answers which job-level artifacts exist. Injected so stage
// detection is testable without real storage.
type ArtifactProbe interface {
	HasOriginal() bool
	HasKorean() bool
	HasAudio() bool
}

// DetectStage derives the resume stage from artifact presence:
// audio and Korean transcript → done; Korean transcript → tts;
// original transcript → translate; nothing → start.
func DetectStage(probe ArtifactProbe) Stage {
	hasKorean := probe.HasKorean()
	switch {
	case hasKorean && probe.HasAudio():
		return StageDone
	case hasKorean:
		return StageTTS
	case probe.HasOriginal():
		return StageTranslate
	default:
		return StageStart
	}
}

// dirProbe probes a job folder on the real filesystem.
type dirProbe struct {
	dir string
}

func NewDirProbe(dir string) ArtifactProbe {
	return dirProbe{dir: dir}
}

func (p dirProbe) HasOriginal() bool {
	return file.Exists(filepath.Join(p.dir, OriginalFileName))
}

func (p dirProbe) HasKorean() bool {
	return file.Exists(filepath.Join(p.dir, KoreanFileName))
}

func (p dirProbe) HasAudio() bool {
	matches, err := filepath.Glob(filepath.Join(p.dir, "*.mp3"))
	return err == nil && len(matches) > 0
}

// FindAudioFile returns the job folder's audio artifact, if any.
func FindAudioFile(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.mp3"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}
