package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytdub/internal/transcript"
)

func seg(start, end transcript.Timecode, text string) transcript.Segment {
	return transcript.Segment{Start: start, End: end, Text: text}
}

func TestSplit_TimeBoundary(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:10.000", "first."),
		seg("00:00:30.000", "00:00:40.000", "second."),
		seg("00:01:00.000", "00:01:10.000", "third."),
	}

	chunks := Split(segments, Options{ChunkDurationSeconds: 60, SoftCharLimit: 1500, HardCharLimit: 2000})

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Segments, 2)
	assert.Len(t, chunks[1].Segments, 1)
	assert.Equal(t, transcript.Timecode("00:00:00.000"), chunks[0].Start)
	assert.Equal(t, transcript.Timecode("00:01:00.000"), chunks[1].Start)
}

func TestSplit_HardLimitSplitsMidSentence(t *testing.T) {
	// Each text is 6 chars with no sentence terminal; hard limit 15 allows
	// two per chunk (12 chars), a third would make 18.
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:01.000", "aaaaaa"),
		seg("00:00:01.000", "00:00:02.000", "bbbbbb"),
		seg("00:00:02.000", "00:00:03.000", "cccccc"),
		seg("00:00:03.000", "00:00:04.000", "dddddd"),
	}

	chunks := Split(segments, Options{ChunkDurationSeconds: 600, SoftCharLimit: 10, HardCharLimit: 15})

	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaaaa\nbbbbbb", chunks[0].Text())
	assert.Equal(t, "cccccc\ndddddd", chunks[1].Text())
}

func TestSplit_SoftLimitWaitsForSentenceEnd(t *testing.T) {
	// Soft limit 10 is reached after two segments, but the split only
	// happens once the running chunk ends at a sentence boundary.
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:01.000", "aaaaaa"),
		seg("00:00:01.000", "00:00:02.000", "bbbbb."),
		seg("00:00:02.000", "00:00:03.000", "cccccc"),
	}

	chunks := Split(segments, Options{ChunkDurationSeconds: 600, SoftCharLimit: 10, HardCharLimit: 2000})

	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaaaa\nbbbbb.", chunks[0].Text())
	assert.Equal(t, "cccccc", chunks[1].Text())
}

func TestSplit_OversizedSegmentRidesAlone(t *testing.T) {
	big := make([]byte, 50)
	for i := range big {
		big[i] = 'x'
	}
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:01.000", "small."),
		seg("00:00:01.000", "00:00:02.000", string(big)),
		seg("00:00:02.000", "00:00:03.000", "after."),
	}

	chunks := Split(segments, Options{ChunkDurationSeconds: 600, SoftCharLimit: 10, HardCharLimit: 15})

	require.Len(t, chunks, 3)
	assert.Equal(t, string(big), chunks[1].Text())
}

func TestSplit_CoverageAndOrder(t *testing.T) {
	segments := make([]transcript.Segment, 0, 50)
	for i := 0; i < 50; i++ {
		start := transcript.FormatTimecode(float64(i * 7))
		end := transcript.FormatTimecode(float64(i*7 + 5))
		segments = append(segments, seg(start, end, "segment text here."))
	}

	chunks := Split(segments, DefaultOptions())

	total := 0
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.NotEmpty(t, c.Segments)
		total += len(c.Segments)
	}
	assert.Equal(t, len(segments), total)

	// Segments appear in input order across chunk boundaries.
	flat := make([]transcript.Segment, 0, len(segments))
	for _, c := range chunks {
		flat = append(flat, c.Segments...)
	}
	assert.Equal(t, segments, flat)
}

func TestSplit_Empty(t *testing.T) {
	assert.Empty(t, Split(nil, DefaultOptions()))
}

func TestChunkText(t *testing.T) {
	c := Chunk{Segments: []transcript.Segment{
		seg("00:00:00.000", "00:00:01.000", "line one"),
		seg("00:00:01.000", "00:00:02.000", "line two"),
	}}
	assert.Equal(t, "line one\nline two", c.Text())
	assert.Equal(t, 16, c.CharCount())
}
