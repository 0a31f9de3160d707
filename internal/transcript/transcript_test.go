package transcript

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTimecodeSeconds(t *testing.T) {
	tests := []struct {
		in   Timecode
		want float64
	}{
		{"00:00:00.000", 0},
		{"00:00:01.500", 1.5},
		{"00:01:00.000", 60},
		{"01:02:03.250", 3723.25},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Seconds(), "timecode %q", tt.in)
	}
}

func TestFormatTimecode(t *testing.T) {
	assert.Equal(t, Timecode("00:00:00.000"), FormatTimecode(0))
	assert.Equal(t, Timecode("00:01:01.500"), FormatTimecode(61.5))
	assert.Equal(t, Timecode("01:02:03.250"), FormatTimecode(3723.25))
	assert.Equal(t, Timecode("00:00:00.000"), FormatTimecode(-5))
}

func TestTimecodeRoundTrip(t *testing.T) {
	for _, s := range []float64{0, 1.5, 59.999, 60, 3600, 7261.042} {
		assert.InDelta(t, s, FormatTimecode(s).Seconds(), 0.001)
	}
}

const sampleVTT = `WEBVTT
Kind: captions
Language: en

00:00:00.000 --> 00:00:02.500
<c>hello</c> world

00:00:02.500 --> 00:00:05.000
hello world

00:00:05.000 --> 00:00:08.000
second line
continues here

00:00:08.000 --> 00:00:09.000
`

func TestParseVTT(t *testing.T) {
	segments := ParseVTT(sampleVTT)

	require.Len(t, segments, 2)
	assert.Equal(t, Timecode("00:00:00.000"), segments[0].Start)
	assert.Equal(t, Timecode("00:00:02.500"), segments[0].End)
	// Styling tags stripped, consecutive duplicate cue skipped.
	assert.Equal(t, "hello world", segments[0].Text)
	// Multi-line cue joined with a space; empty cue dropped.
	assert.Equal(t, "second line continues here", segments[1].Text)
}

func TestParseVTT_Empty(t *testing.T) {
	assert.Empty(t, ParseVTT(""))
	assert.Empty(t, ParseVTT("WEBVTT\n\n"))
}

func TestFullText(t *testing.T) {
	segments := []Segment{
		{Text: "one"},
		{Text: "two"},
	}
	assert.Equal(t, "one two", FullText(segments))
	assert.Equal(t, "", FullText(nil))
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://example.com/video", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractVideoID(tt.url), "url %q", tt.url)
	}
}

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "How to Go Part 12", SanitizeTitle(`How to Go: Part 1/2?`))
	assert.Equal(t, "spaces collapsed", SanitizeTitle("spaces   \t collapsed"))

	long := strings.Repeat("가나다라 ", 30)
	sanitized := SanitizeTitle(long)
	assert.LessOrEqual(t, len([]rune(sanitized)), 50)
	assert.NotEmpty(t, sanitized)
}

func TestDetectLanguage(t *testing.T) {
	english := []Segment{
		{Text: "This is a perfectly ordinary English sentence about programming."},
		{Text: "The quick brown fox jumps over the lazy dog every morning."},
	}
	assert.Equal(t, language.MustParse("en"), DetectLanguage(english))

	korean := []Segment{
		{Text: "오늘은 한국어 자막 번역에 대해 이야기해 보겠습니다."},
		{Text: "이 문장은 언어 감지를 위한 예시 문장입니다."},
	}
	assert.Equal(t, language.MustParse("ko"), DetectLanguage(korean))

	assert.Equal(t, language.Und, DetectLanguage(nil))
}

func TestResolveLanguage(t *testing.T) {
	english := []Segment{
		{Text: "This is a perfectly ordinary English sentence about programming."},
		{Text: "The quick brown fox jumps over the lazy dog every morning."},
	}

	// A real language code wins over detection.
	assert.Equal(t, "ko", resolveLanguage("ko", english))

	// Non-language track keys fall back to content detection.
	assert.Equal(t, "en", resolveLanguage("live_chat", english))

	// Nothing to detect from leaves the key as-is.
	assert.Equal(t, "live_chat", resolveLanguage("live_chat", nil))
}

func TestSelectLanguage(t *testing.T) {
	info := &ytdlpInfo{
		Subtitles: map[string]json.RawMessage{
			"en": nil,
			"ko": nil,
		},
		AutomaticCaptions: map[string]json.RawMessage{
			"en": nil,
			"ja": nil,
		},
	}

	// Within one preference entry, the manual track wins over auto.
	lang, isAuto := selectLanguage(info, []string{"en", "ja"})
	assert.Equal(t, "en", lang)
	assert.False(t, isAuto)

	// The preference list is walked in order, so an earlier auto track
	// beats a later manual one.
	lang, isAuto = selectLanguage(info, []string{"ja", "en"})
	assert.Equal(t, "ja", lang)
	assert.True(t, isAuto)

	// No preference matches: any manual track is better than nothing.
	lang, isAuto = selectLanguage(info, []string{"fr"})
	assert.Contains(t, []string{"en", "ko"}, lang)
	assert.False(t, isAuto)

	lang, isAuto = selectLanguage(&ytdlpInfo{}, []string{"en"})
	assert.Equal(t, "", lang)
	assert.False(t, isAuto)
}
