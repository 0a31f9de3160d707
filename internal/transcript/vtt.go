package transcript

import (
	"regexp"
	"strings"
)

var (
	vttTimePattern = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}\.\d{3}) --> (\d{2}:\d{2}:\d{2}\.\d{3})`)
	vttTagPattern  = regexp.MustCompile(`<[^>]+>`)
)

// ParseVTT parses a WebVTT caption track into segments. Inline styling and
// karaoke tags are stripped. A cue whose text equals the immediately
// preceding cue's text is skipped; auto-generated tracks re-emit the same
// line across consecutive cues.
func ParseVTT(content string) []Segment {
	lines := strings.Split(content, "\n")
	segments := make([]Segment, 0, len(lines)/3)

	for i := 0; i < len(lines); i++ {
		match := vttTimePattern.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if match == nil {
			continue
		}

		var textLines []string
		for i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next == "" || vttTimePattern.MatchString(next) {
				break
			}
			i++
			if clean := strings.TrimSpace(vttTagPattern.ReplaceAllString(next, "")); clean != "" {
				textLines = append(textLines, clean)
			}
		}
		if len(textLines) == 0 {
			continue
		}

		text := strings.Join(textLines, " ")
		if len(segments) > 0 && segments[len(segments)-1].Text == text {
			continue
		}
		segments = append(segments, Segment{
			Start: Timecode(match[1]),
			End:   Timecode(match[2]),
			Text:  text,
		})
	}

	return segments
}

// FullText joins segment texts with single spaces.
func FullText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}
