// Package pipeline sequences a full dubbing job: metadata, transcript
// extraction, chunked translation, speech synthesis. Each step leaves
// durable artifacts behind, and the current stage is always re-derived from
// their presence, so both full-process restarts and mid-translation crashes
// resume without re-paying API cost.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"ytdub/internal/chunker"
	"ytdub/internal/config"
	"ytdub/internal/llm"
	"ytdub/internal/prep"
	"ytdub/internal/transcript"
	"ytdub/internal/translator"
	"ytdub/pkg/file"
	"ytdub/pkg/log"
)

type Pipeline struct {
	cfg      config.Config
	source   TranscriptSource
	synth    SpeechSynthesizer
	observer Observer
}

func New(cfg config.Config, source TranscriptSource, synth SpeechSynthesizer, observer Observer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		source:   source,
		synth:    synth,
		observer: observer,
	}
}

func (p *Pipeline) notify(completed, total int, message string) {
	if p.observer != nil {
		p.observer(completed, total, message)
	}
}

// Run executes the dubbing job for url, resuming from whatever stage the
// job folder's artifacts prove complete.
func (p *Pipeline) Run(ctx context.Context, url string) (*Result, error) {
	info, err := p.source.VideoInfo(ctx, url)
	if err != nil {
		return nil, &StageError{Stage: StageStart, Percent: 0, Err: err}
	}

	videoID := info.VideoID
	if videoID == "" {
		videoID = transcript.ExtractVideoID(url)
	}
	if videoID == "" {
		return nil, &StageError{Stage: StageStart, Percent: 0, Err: fmt.Errorf("cannot determine video id from %q", url)}
	}

	safeTitle := transcript.SanitizeTitle(info.Title)
	folder := filepath.Join(p.cfg.Output.Dir, fmt.Sprintf("%s_%s", videoID, safeTitle))
	if err := file.EnsureDir(folder); err != nil {
		return nil, &StageError{Stage: StageStart, Percent: 0, Err: err}
	}

	stage := DetectStage(NewDirProbe(folder))
	log.Info("Job %s resumes from stage %q", videoID, stage)

	result := &Result{
		VideoID:      videoID,
		Title:        info.Title,
		Folder:       folder,
		OriginalPath: filepath.Join(folder, OriginalFileName),
		KoreanPath:   filepath.Join(folder, KoreanFileName),
		ResumedFrom:  stage,
	}

	if stage == StageStart {
		if err := p.runExtract(ctx, url, folder); err != nil {
			return nil, err
		}
		stage = StageTranslate
	}

	if stage == StageTranslate {
		if err := p.runTranslate(ctx, url, folder); err != nil {
			return nil, err
		}
		stage = StageTTS
	}

	if stage == StageTTS {
		audioPath := filepath.Join(folder, safeTitle+".mp3")
		if err := p.runTTS(ctx, folder, audioPath); err != nil {
			return nil, err
		}
	}

	result.AudioPath = FindAudioFile(folder)
	p.notify(1, 1, "done")
	return result, nil
}

// runExtract fetches the caption track, cleans it, and persists both the
// human-readable transcript and the timed segments.
func (p *Pipeline) runExtract(ctx context.Context, url, folder string) error {
	p.notify(0, 1, "extracting transcript")

	langPrefs := captionPreferences(p.cfg.Translate.SourceLanguage)
	fetched, err := p.source.Fetch(ctx, url, langPrefs)
	if err != nil {
		return &StageError{Stage: StageStart, Percent: 0, Err: err}
	}

	cleaned := prep.Clean(fetched.Segments)
	if len(cleaned) == 0 {
		return &StageError{Stage: StageStart, Percent: 0, Err: fmt.Errorf("transcript is empty")}
	}
	log.Info("Preprocessed %d raw segments into %d", len(fetched.Segments), len(cleaned))

	segData, err := json.MarshalIndent(cleaned, "", "  ")
	if err != nil {
		return &StageError{Stage: StageStart, Percent: 0, Err: err}
	}
	if err := file.WriteAtomic(filepath.Join(folder, SegmentsFileName), segData); err != nil {
		return &StageError{Stage: StageStart, Percent: 0, Err: err}
	}
	if err := file.WriteAtomic(filepath.Join(folder, OriginalFileName), []byte(transcript.FullText(cleaned))); err != nil {
		return &StageError{Stage: StageStart, Percent: 0, Err: err}
	}
	return nil
}

// runTranslate chunks the stored segments and drives the orchestrator. The
// chunk store is deleted only after the assembled translation is persisted
// as the job-level artifact.
func (p *Pipeline) runTranslate(ctx context.Context, url, folder string) error {
	segments, err := p.loadSegments(ctx, url, folder)
	if err != nil {
		return &StageError{Stage: StageTranslate, Percent: 0, Err: err}
	}

	opts := chunker.Options{
		ChunkDurationSeconds: float64(p.cfg.Translate.ChunkDuration),
		SoftCharLimit:        p.cfg.Translate.SoftCharLimit,
		HardCharLimit:        p.cfg.Translate.HardCharLimit,
	}
	chunks := chunker.Split(segments, opts)
	log.Info("Split transcript into %d chunks", len(chunks))

	store, err := chunker.NewStore(filepath.Join(folder, ChunkDirName))
	if err != nil {
		return &StageError{Stage: StageTranslate, Percent: 0, Err: err}
	}

	meta := chunker.Meta{
		Total:         len(chunks),
		ChunkDuration: opts.ChunkDurationSeconds,
		SoftCharLimit: opts.SoftCharLimit,
		HardCharLimit: opts.HardCharLimit,
		Model:         p.cfg.LLM.Model,
	}

	// Cached chunk artifacts are only reusable when they were produced with
	// the same chunking parameters and model; otherwise indices no longer
	// line up with the same text and the cache must go.
	if prev, err := store.ReadMeta(); err == nil && *prev != meta {
		log.Warn("Chunk store parameters changed, discarding cached translations")
		if err := store.Remove(); err != nil {
			return &StageError{Stage: StageTranslate, Percent: 0, Err: err}
		}
		store, err = chunker.NewStore(filepath.Join(folder, ChunkDirName))
		if err != nil {
			return &StageError{Stage: StageTranslate, Percent: 0, Err: err}
		}
	}

	if err := store.WriteMeta(meta); err != nil {
		return &StageError{Stage: StageTranslate, Percent: 0, Err: err}
	}

	client, err := llm.NewClient(&llm.Config{
		APIKey:  p.cfg.LLM.APIKey,
		APIURL:  p.cfg.LLM.APIURL,
		Model:   p.cfg.LLM.Model,
		Timeout: p.cfg.LLM.Timeout,
	})
	if err != nil {
		return &StageError{Stage: StageTranslate, Percent: 0, Err: err}
	}

	trans := translator.New(client, translator.Options{
		Style:      p.cfg.Translate.Style,
		Tone:       p.cfg.Translate.Tone,
		SourceLang: languageName(p.cfg.Translate.SourceLanguage),
		TargetLang: "한국어",
		MaxRetries: p.cfg.LLM.MaxRetries,
	})

	lastCompleted := 0
	orch := translator.NewOrchestrator(trans, store, p.cfg.Translate.MaxParallel, func(completed, total int) {
		lastCompleted = completed
		p.notify(completed, total, "translating chunks")
	})

	translated, err := orch.Run(ctx, chunks)
	if err != nil {
		percent := 0
		if len(chunks) > 0 {
			percent = lastCompleted * 100 / len(chunks)
		}
		return &StageError{Stage: StageTranslate, Percent: percent, Err: err}
	}

	if err := file.WriteAtomic(filepath.Join(folder, KoreanFileName), []byte(translated)); err != nil {
		return &StageError{Stage: StageTranslate, Percent: 100, Err: err}
	}

	// The store is a cache; the job-level artifact above is the output.
	if err := store.Remove(); err != nil {
		log.Warn("Failed to remove chunk store: %v", err)
	}
	return nil
}

func (p *Pipeline) runTTS(ctx context.Context, folder, audioPath string) error {
	p.notify(0, 1, "synthesizing speech")

	korean, err := os.ReadFile(filepath.Join(folder, KoreanFileName))
	if err != nil {
		return &StageError{Stage: StageTTS, Percent: 0, Err: err}
	}

	if err := p.synth.Synthesize(ctx, string(korean), p.cfg.TTS.Voice, p.cfg.TTS.Rate, audioPath); err != nil {
		return &StageError{Stage: StageTTS, Percent: 0, Err: err}
	}
	return nil
}

// loadSegments reads the timed segments persisted by the extract step, or
// re-fetches the transcript when only the plain-text artifact survived.
func (p *Pipeline) loadSegments(ctx context.Context, url, folder string) ([]transcript.Segment, error) {
	data, err := os.ReadFile(filepath.Join(folder, SegmentsFileName))
	if err == nil {
		var segments []transcript.Segment
		if err := json.Unmarshal(data, &segments); err == nil && len(segments) > 0 {
			return segments, nil
		}
		log.Warn("Segment artifact unreadable, re-fetching transcript")
	}

	fetched, err := p.source.Fetch(ctx, url, captionPreferences(p.cfg.Translate.SourceLanguage))
	if err != nil {
		return nil, err
	}
	cleaned := prep.Clean(fetched.Segments)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("transcript is empty")
	}
	return cleaned, nil
}

// captionPreferences orders the caption language preference list around the
// configured source language.
func captionPreferences(source language.Tag) []string {
	prefs := []string{source.String()}
	for _, fallback := range []string{"en", "en-US", "en-GB", "ko", "ja"} {
		if fallback != prefs[0] {
			prefs = append(prefs, fallback)
		}
	}
	return prefs
}

// languageName renders a language tag as its Korean display name, which is
// what the translation prompts expect ("en" → "영어").
func languageName(tag language.Tag) string {
	name := display.Korean.Languages().Name(tag)
	if name == "" {
		return tag.String()
	}
	return name
}
