package transcript

import (
	"fmt"
	"regexp"
	"strconv"
)

// Timecode is a caption timestamp in HH:MM:SS.mmm form, as emitted by
// YouTube VTT tracks. Timecodes are non-decreasing across a segment sequence.
type Timecode string

var timecodePattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})\.(\d{3})$`)

// Seconds converts the timecode to seconds. Malformed timecodes parse as 0.
func (t Timecode) Seconds() float64 {
	matches := timecodePattern.FindStringSubmatch(string(t))
	if matches == nil {
		return 0
	}
	h, _ := strconv.Atoi(matches[1])
	m, _ := strconv.Atoi(matches[2])
	s, _ := strconv.Atoi(matches[3])
	ms, _ := strconv.Atoi(matches[4])
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}

// FormatTimecode renders seconds as HH:MM:SS.mmm.
func FormatTimecode(seconds float64) Timecode {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := int(seconds) % 60
	ms := int(seconds*1000) % 1000
	return Timecode(fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms))
}

// Segment is a single timed caption unit. The preprocessor rewrites Text;
// segments are never mutated once they enter the chunker.
type Segment struct {
	Start Timecode `json:"start"`
	End   Timecode `json:"end"`
	Text  string   `json:"text"`
}

// Result is what the transcript source hands the pipeline.
type Result struct {
	Title           string
	Language        string
	IsAutoGenerated bool
	Segments        []Segment
	AvailableLangs  []string
}

// VideoInfo describes a video before any transcript work starts.
type VideoInfo struct {
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	Uploader    string `json:"uploader"`
	ChannelURL  string `json:"channel_url"`
	Thumbnail   string `json:"thumbnail"`
	VideoID     string `json:"id"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
