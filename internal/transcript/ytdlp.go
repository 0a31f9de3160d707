package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"ytdub/pkg/log"
)

// Source fetches video metadata and caption tracks through the yt-dlp
// binary. yt-dlp is treated as a black box: timed text in, nothing else.
type Source struct {
	binary string
}

func NewSource() *Source {
	return &Source{binary: "yt-dlp"}
}

type ytdlpInfo struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Duration          int                        `json:"duration"`
	Uploader          string                     `json:"uploader"`
	Channel           string                     `json:"channel"`
	ChannelURL        string                     `json:"channel_url"`
	UploaderURL       string                     `json:"uploader_url"`
	Thumbnail         string                     `json:"thumbnail"`
	Description       string                     `json:"description"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

// VideoInfo fetches metadata for a single video without downloading anything.
func (s *Source) VideoInfo(ctx context.Context, url string) (*VideoInfo, error) {
	info, err := s.probe(ctx, url)
	if err != nil {
		return nil, err
	}

	uploader := info.Uploader
	if uploader == "" {
		uploader = info.Channel
	}
	channelURL := info.ChannelURL
	if channelURL == "" {
		channelURL = info.UploaderURL
	}
	thumbnail := info.Thumbnail
	if thumbnail == "" && info.ID != "" {
		thumbnail = fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", info.ID)
	}
	description := info.Description
	if len(description) > 200 {
		description = description[:200] + "..."
	}

	return &VideoInfo{
		Title:       info.Title,
		Duration:    info.Duration,
		Uploader:    uploader,
		ChannelURL:  channelURL,
		Thumbnail:   thumbnail,
		VideoID:     info.ID,
		URL:         url,
		Description: description,
	}, nil
}

// Fetch extracts a caption track, preferring manual subtitles over
// auto-generated ones, walking the language preference list in order.
func (s *Source) Fetch(ctx context.Context, url string, langPrefs []string) (*Result, error) {
	info, err := s.probe(ctx, url)
	if err != nil {
		return nil, err
	}

	available := make([]string, 0, len(info.Subtitles)+len(info.AutomaticCaptions))
	for lang := range info.Subtitles {
		available = append(available, lang)
	}
	for lang := range info.AutomaticCaptions {
		available = append(available, lang)
	}
	if len(available) == 0 {
		return nil, &NoCaptionsError{Title: info.Title}
	}

	selected, isAuto := selectLanguage(info, langPrefs)
	if selected == "" {
		return nil, &NoCaptionsError{Title: info.Title, Available: available}
	}

	tmpDir, err := os.MkdirTemp("", "ytdub-subs-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	args := []string{
		"--skip-download",
		"--sub-langs", selected,
		"--sub-format", "vtt",
		"--no-warnings",
		"-o", filepath.Join(tmpDir, "sub"),
	}
	if isAuto {
		args = append(args, "--write-auto-subs")
	} else {
		args = append(args, "--write-subs")
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, s.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("download captions: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	vttFiles, err := filepath.Glob(filepath.Join(tmpDir, "*.vtt"))
	if err != nil || len(vttFiles) == 0 {
		return nil, &NoCaptionsError{Title: info.Title, Available: available}
	}

	content, err := os.ReadFile(vttFiles[0])
	if err != nil {
		return nil, fmt.Errorf("read caption file: %w", err)
	}

	segments := ParseVTT(string(content))
	log.Info("Fetched %d caption segments (%s, auto=%v) for %q", len(segments), selected, isAuto, info.Title)

	return &Result{
		Title:           info.Title,
		Language:        resolveLanguage(selected, segments),
		IsAutoGenerated: isAuto,
		Segments:        segments,
		AvailableLangs:  available,
	}, nil
}

// resolveLanguage keeps the track's own language code when it is a usable
// tag, and falls back to content-based detection for tracks keyed with
// non-language identifiers (yt-dlp lists e.g. "live_chat" alongside real
// caption languages).
func resolveLanguage(selected string, segments []Segment) string {
	if tag := language.Make(selected); tag != language.Und {
		return selected
	}
	if detected := DetectLanguage(segments); detected != language.Und {
		log.Info("Caption track %q carries no language code, detected %s from content", selected, detected)
		return detected.String()
	}
	return selected
}

func (s *Source) probe(ctx context.Context, url string) (*ytdlpInfo, error) {
	binPath, err := exec.LookPath(s.binary)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp is not installed: %w", err)
	}

	cmd := exec.CommandContext(ctx, binPath, "-J", "--no-warnings", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("probe video: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var info ytdlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("parse video metadata: %w", err)
	}
	return &info, nil
}

// selectLanguage walks the preference list, manual tracks first.
func selectLanguage(info *ytdlpInfo, langPrefs []string) (string, bool) {
	for _, lang := range langPrefs {
		if _, ok := info.Subtitles[lang]; ok {
			return lang, false
		}
		if _, ok := info.AutomaticCaptions[lang]; ok {
			return lang, true
		}
	}
	for lang := range info.Subtitles {
		return lang, false
	}
	for lang := range info.AutomaticCaptions {
		return lang, true
	}
	return "", false
}

// NoCaptionsError reports a video with no usable caption track.
type NoCaptionsError struct {
	Title     string
	Available []string
}

func (e *NoCaptionsError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no captions available for %q", e.Title)
	}
	return fmt.Sprintf("no captions in preferred languages for %q (available: %s)", e.Title, strings.Join(e.Available, ", "))
}

// DetectLanguage guesses the dominant language of a segment sequence.
// Used as a fallback when the caption track does not state its language.
func DetectLanguage(segments []Segment) language.Tag {
	if len(segments) == 0 {
		return language.Und
	}

	counts := make(map[string]int)
	for _, seg := range segments {
		counts[whatlanggo.DetectLang(seg.Text).Iso6391()]++
	}

	var topLang string
	var topCount int
	for lang, count := range counts {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}
	return language.Make(topLang)
}

var (
	videoIDPattern      = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/)([a-zA-Z0-9_-]{11})`)
	unsafeTitlePattern  = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceCollapser = regexp.MustCompile(`\s+`)
)

// ExtractVideoID pulls the 11-character video id out of the usual YouTube
// URL shapes. Returns "" when the URL does not match any of them.
func ExtractVideoID(url string) string {
	match := videoIDPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// SanitizeTitle makes a video title safe to use as a directory name.
func SanitizeTitle(title string) string {
	title = unsafeTitlePattern.ReplaceAllString(title, "")
	title = strings.TrimSpace(whitespaceCollapser.ReplaceAllString(title, " "))
	if runes := []rune(title); len(runes) > 50 {
		title = strings.TrimSpace(string(runes[:50]))
	}
	return title
}
