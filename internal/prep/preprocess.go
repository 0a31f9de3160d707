// Package prep cleans raw auto-caption segments before chunking: overlap
// deduplication, sentence-boundary merging, and filler removal.
package prep

import (
	"regexp"
	"strings"

	"ytdub/internal/transcript"
)

// mergeCharLimit flushes a merge buffer that grows past this many characters
// without reaching a sentence boundary.
const mergeCharLimit = 200

var sentenceTerminals = []string{".", "!", "?", "。", "！", "？", "…"}

// IsSentenceEnd reports whether text ends in a sentence-terminal character,
// ignoring trailing whitespace.
func IsSentenceEnd(text string) bool {
	text = strings.TrimRight(text, " \t\n\r")
	if text == "" {
		return false
	}
	for _, term := range sentenceTerminals {
		if strings.HasSuffix(text, term) {
			return true
		}
	}
	return false
}

// Clean runs the full preprocessing pass: dedup, merge, filler removal.
// It is a pure transform; empty or malformed input yields empty output.
func Clean(segments []transcript.Segment) []transcript.Segment {
	merged := Merge(Dedup(segments))
	for i := range merged {
		merged[i].Text = RemoveFillers(merged[i].Text)
	}
	return merged
}

// Dedup strips the overlap auto-captioning introduces when it re-emits a
// growing line across consecutive segments. The comparison is always against
// the previous segment's original text, never against already-trimmed text.
// The prefix rule is checked before the substring rule; their interaction on
// pathological inputs is pinned by characterization tests.
func Dedup(segments []transcript.Segment) []transcript.Segment {
	cleaned := make([]transcript.Segment, 0, len(segments))
	prevText := ""

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		original := text
		if text == "" {
			continue
		}

		if prevText != "" && strings.HasPrefix(text, prevText) {
			if text == prevText {
				prevText = original
				continue
			}
			text = strings.TrimSpace(text[len(prevText):])
			if text == "" {
				prevText = original
				continue
			}
		} else if prevText != "" && strings.Contains(text, prevText) {
			text = strings.TrimSpace(strings.Replace(text, prevText, "", 1))
			if text == "" {
				prevText = original
				continue
			}
		}

		cleaned = append(cleaned, transcript.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
		prevText = original
	}

	return cleaned
}

// Merge accumulates deduped segments into sentence-sized units: texts are
// joined with a space and the buffer's end time extends until the text ends
// at a sentence boundary or exceeds mergeCharLimit characters.
func Merge(segments []transcript.Segment) []transcript.Segment {
	merged := make([]transcript.Segment, 0, len(segments))
	var buffer transcript.Segment

	for _, seg := range segments {
		if buffer.Text == "" {
			buffer = seg
		} else {
			buffer.Text += " " + seg.Text
			buffer.End = seg.End
		}

		if IsSentenceEnd(buffer.Text) || len(buffer.Text) > mergeCharLimit {
			merged = append(merged, buffer)
			buffer = transcript.Segment{}
		}
	}

	if buffer.Text != "" {
		merged = append(merged, buffer)
	}
	return merged
}

var (
	fillerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(um|uh|er|ah|like|you know|I mean|so|well|basically|actually|literally)\b`),
		regexp.MustCompile(`(?i)\b(kind of|sort of|right\?|okay\?|yeah\?)\b`),
	}
	spaceRuns = regexp.MustCompile(`\s+`)
)

// RemoveFillers drops discourse fillers, collapses whitespace runs, and
// collapses immediately-adjacent repeated words ("I I" → "I").
func RemoveFillers(text string) string {
	for _, pattern := range fillerPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	text = strings.TrimSpace(spaceRuns.ReplaceAllString(text, " "))

	return collapseRepeats(text)
}

func collapseRepeats(text string) string {
	words := strings.Fields(text)
	out := words[:0]
	for _, word := range words {
		if len(out) > 0 && strings.EqualFold(out[len(out)-1], word) {
			continue
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}
