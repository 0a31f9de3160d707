// Package chunker groups cleaned transcript segments into time- and
// size-bounded chunks and owns the durable per-chunk artifact store that
// makes translation resumable.
package chunker

import (
	"strings"

	"ytdub/internal/prep"
	"ytdub/internal/transcript"
)

// Options bound chunk growth. The limits bound chunk growth, not individual
// segment size: a single segment larger than HardCharLimit rides alone.
type Options struct {
	ChunkDurationSeconds float64
	SoftCharLimit        int
	HardCharLimit        int
}

// DefaultOptions mirrors the values tuned for one-minute lecture chunks.
func DefaultOptions() Options {
	return Options{
		ChunkDurationSeconds: 60,
		SoftCharLimit:        1500,
		HardCharLimit:        2000,
	}
}

// Chunk is a contiguous run of input segments. Index is the stable identity
// used for persistence and resume; chunks are produced once per job and
// never renumbered.
type Chunk struct {
	Index    int
	Segments []transcript.Segment
	Start    transcript.Timecode
}

// Text joins the chunk's segment texts with newlines; this is the unit of
// translation.
func (c Chunk) Text() string {
	parts := make([]string, 0, len(c.Segments))
	for _, seg := range c.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, "\n")
}

// CharCount is the total length of the chunk's segment texts.
func (c Chunk) CharCount() int {
	total := 0
	for _, seg := range c.Segments {
		total += len(seg.Text)
	}
	return total
}

// Split groups segments into chunks. A new chunk starts before appending a
// segment when any of these hold for the running chunk:
//
//  1. elapsed time since the chunk's start timecode reached ChunkDurationSeconds;
//  2. appending would push the character total past HardCharLimit;
//  3. the character total already reached SoftCharLimit and the chunk's last
//     segment ends at a sentence boundary.
//
// The soft limit defers to sentence boundaries; only the hard limit splits
// mid-sentence. Segment order and coverage are preserved exactly.
func Split(segments []transcript.Segment, opts Options) []Chunk {
	if opts.ChunkDurationSeconds <= 0 {
		opts.ChunkDurationSeconds = DefaultOptions().ChunkDurationSeconds
	}
	if opts.SoftCharLimit <= 0 {
		opts.SoftCharLimit = DefaultOptions().SoftCharLimit
	}
	if opts.HardCharLimit <= 0 {
		opts.HardCharLimit = DefaultOptions().HardCharLimit
	}

	var chunks []Chunk
	var current []transcript.Segment
	chunkStart := 0.0
	currentChars := 0

	flush := func(nextStart float64) {
		chunks = append(chunks, Chunk{
			Index:    len(chunks),
			Segments: current,
			Start:    current[0].Start,
		})
		current = nil
		chunkStart = nextStart
		currentChars = 0
	}

	for _, seg := range segments {
		segStart := seg.Start.Seconds()
		segChars := len(seg.Text)

		if len(current) > 0 {
			timeExceeded := segStart-chunkStart >= opts.ChunkDurationSeconds
			hardExceeded := currentChars+segChars > opts.HardCharLimit
			softExceeded := currentChars >= opts.SoftCharLimit &&
				prep.IsSentenceEnd(current[len(current)-1].Text)

			if timeExceeded || hardExceeded || softExceeded {
				flush(segStart)
			}
		}

		if len(current) == 0 {
			chunkStart = segStart
		}
		current = append(current, seg)
		currentChars += segChars
	}

	if len(current) > 0 {
		flush(0)
	}

	return chunks
}
