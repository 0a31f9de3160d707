package prep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ytdub/internal/transcript"
)

func seg(start, end transcript.Timecode, text string) transcript.Segment {
	return transcript.Segment{Start: start, End: end, Text: text}
}

func TestIsSentenceEnd(t *testing.T) {
	assert.True(t, IsSentenceEnd("Hello."))
	assert.True(t, IsSentenceEnd("Really?"))
	assert.True(t, IsSentenceEnd("Stop!"))
	assert.True(t, IsSentenceEnd("그렇습니다。"))
	assert.True(t, IsSentenceEnd("trailing whitespace.  "))
	assert.True(t, IsSentenceEnd("wait…"))

	assert.False(t, IsSentenceEnd("no terminal"))
	assert.False(t, IsSentenceEnd(""))
	assert.False(t, IsSentenceEnd("   "))
}

func TestDedup_GrowingLineOverlap(t *testing.T) {
	// Auto captions re-emit a growing line across consecutive cues.
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "hello world"),
		seg("00:00:02.000", "00:00:04.000", "hello world this is"),
		seg("00:00:04.000", "00:00:06.000", "hello world this is a test"),
	}

	out := Dedup(segments)

	assert.Len(t, out, 3)
	assert.Equal(t, "hello world", out[0].Text)
	assert.Equal(t, "this is", out[1].Text)
	assert.Equal(t, "a test", out[2].Text)
}

func TestDedup_ComparesAgainstOriginalNotTrimmed(t *testing.T) {
	// The second segment is trimmed to "this is", but the third must be
	// compared against the second's full original text.
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "hello"),
		seg("00:00:02.000", "00:00:04.000", "hello this is"),
		seg("00:00:04.000", "00:00:06.000", "hello this is fine"),
	}

	out := Dedup(segments)

	assert.Len(t, out, 3)
	assert.Equal(t, "hello", out[0].Text)
	assert.Equal(t, "this is", out[1].Text)
	assert.Equal(t, "fine", out[2].Text)
}

func TestDedup_ExactRepeatDropped(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "same line"),
		seg("00:00:02.000", "00:00:04.000", "same line"),
		seg("00:00:04.000", "00:00:06.000", "new line"),
	}

	out := Dedup(segments)

	assert.Len(t, out, 2)
	assert.Equal(t, "same line", out[0].Text)
	assert.Equal(t, "new line", out[1].Text)
}

func TestDedup_SubstringInMiddle(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "core part"),
		seg("00:00:02.000", "00:00:04.000", "before core part after"),
	}

	out := Dedup(segments)

	assert.Len(t, out, 2)
	// The inner gap is left as-is; whitespace collapse happens later in
	// RemoveFillers.
	assert.Equal(t, "before  after", out[1].Text)
}

func TestDedup_IdempotentOnTypicalCaptions(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "hello world"),
		seg("00:00:02.000", "00:00:04.000", "hello world this is"),
		seg("00:00:04.000", "00:00:06.000", "hello world this is a test"),
	}

	once := Dedup(segments)
	twice := Dedup(once)

	assert.Equal(t, once, twice)
}

func TestDedup_RepeatedOverlapNotIdempotent(t *testing.T) {
	// The substring rule removes only the first occurrence, so a segment that
	// repeats the previous text keeps shrinking on re-runs. Characterization
	// of the replace-first rule, not a guarantee.
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "x"),
		seg("00:00:02.000", "00:00:04.000", "y xx"),
	}

	once := Dedup(segments)
	assert.Equal(t, "y x", once[1].Text)

	twice := Dedup(once)
	assert.Equal(t, "y", twice[1].Text)
}

func TestClean_Idempotent(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "um hello everyone"),
		seg("00:00:02.000", "00:00:04.000", "um hello everyone today we"),
		seg("00:00:04.000", "00:00:06.000", "talk about Go."),
	}

	once := Clean(segments)
	twice := Clean(once)

	assert.Equal(t, once, twice)
}

func TestDedup_EmptySegmentsSkipped(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "   "),
		seg("00:00:02.000", "00:00:04.000", "real text"),
	}

	out := Dedup(segments)

	assert.Len(t, out, 1)
	assert.Equal(t, "real text", out[0].Text)
}

func TestMerge_UntilSentenceBoundary(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "This is the"),
		seg("00:00:02.000", "00:00:04.000", "first sentence."),
		seg("00:00:04.000", "00:00:06.000", "And the second one!"),
	}

	out := Merge(segments)

	assert.Len(t, out, 2)
	assert.Equal(t, "This is the first sentence.", out[0].Text)
	assert.Equal(t, transcript.Timecode("00:00:00.000"), out[0].Start)
	assert.Equal(t, transcript.Timecode("00:00:04.000"), out[0].End)
	assert.Equal(t, "And the second one!", out[1].Text)
}

func TestMerge_CharLimitFlush(t *testing.T) {
	long := make([]transcript.Segment, 0, 10)
	for i := 0; i < 10; i++ {
		// 30 chars each, no sentence terminal
		long = append(long, seg("00:00:00.000", "00:00:01.000", "word word word word word wordx"))
	}

	out := Merge(long)

	// Flushed by the char limit rather than accumulating everything.
	assert.Greater(t, len(out), 1)
	for _, m := range out[:len(out)-1] {
		assert.Greater(t, len(m.Text), 200)
	}
}

func TestMerge_TrailingBufferKept(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "no terminal here"),
	}

	out := Merge(segments)

	assert.Len(t, out, 1)
	assert.Equal(t, "no terminal here", out[0].Text)
}

func TestRemoveFillers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"um so this is, you know, the idea", "this is, , the idea"},
		{"I I think think it works", "I think it works"},
		{"kind of a sort of big deal", "a big deal"},
		{"no fillers here", "no fillers here"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RemoveFillers(tt.in), "input: %q", tt.in)
	}
}

func TestRemoveFillers_CollapsesRepeatsCaseInsensitive(t *testing.T) {
	assert.Equal(t, "The cat", RemoveFillers("The the cat"))
}

func TestClean_FullPass(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00.000", "00:00:02.000", "um hello everyone"),
		seg("00:00:02.000", "00:00:04.000", "um hello everyone today we"),
		seg("00:00:04.000", "00:00:06.000", "talk about Go."),
	}

	out := Clean(segments)

	assert.Len(t, out, 1)
	assert.Equal(t, "hello everyone today we talk about Go.", out[0].Text)
	assert.Equal(t, transcript.Timecode("00:00:00.000"), out[0].Start)
	assert.Equal(t, transcript.Timecode("00:00:06.000"), out[0].End)
}

func TestClean_Empty(t *testing.T) {
	assert.Empty(t, Clean(nil))
	assert.Empty(t, Clean([]transcript.Segment{}))
}
