// Package tts synthesizes Korean speech through the edge-tts CLI, treated
// as a black box: translated text in, one MP3 file out.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"ytdub/pkg/log"
)

// maxChunkSize is the per-request text limit of the synthesis backend.
// Longer texts are split at sentence boundaries and the parts concatenated.
const maxChunkSize = 5000

// Synthesizer shells out to the edge-tts binary.
type Synthesizer struct {
	binary string
}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{binary: "edge-tts"}
}

// Synthesize converts text to speech and writes an MP3 to outPath.
// rate is a speed adjustment like "+10%" or "-20%".
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice, rate, outPath string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is empty")
	}
	if voice == "" {
		voice = DefaultVoice
	}
	if rate == "" {
		rate = "+0%"
	}

	if len(text) <= maxChunkSize {
		return s.run(ctx, text, voice, rate, outPath)
	}

	chunks := splitText(text, maxChunkSize)
	log.Info("Text exceeds %d chars, synthesizing %d parts", maxChunkSize, len(chunks))

	partFiles := make([]string, 0, len(chunks))
	defer func() {
		for _, part := range partFiles {
			os.Remove(part)
		}
	}()

	for i, chunk := range chunks {
		partPath := fmt.Sprintf("%s.part%d.mp3", outPath, i)
		if err := s.run(ctx, chunk, voice, rate, partPath); err != nil {
			return fmt.Errorf("synthesize part %d/%d: %w", i+1, len(chunks), err)
		}
		partFiles = append(partFiles, partPath)
	}

	return mergeAudioFiles(partFiles, outPath)
}

func (s *Synthesizer) run(ctx context.Context, text, voice, rate, outPath string) error {
	binPath, err := exec.LookPath(s.binary)
	if err != nil {
		return fmt.Errorf("edge-tts is not installed: %w", err)
	}

	cmd := exec.CommandContext(ctx, binPath,
		"--voice", voice,
		"--rate="+rate,
		"--text", text,
		"--write-media", outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("edge-tts failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

var sentenceSplit = regexp.MustCompile(`(?:[.!?。？！])\s+`)

// splitText cuts text into chunks of at most maxSize characters, breaking
// at sentence boundaries.
func splitText(text string, maxSize int) []string {
	boundaries := sentenceSplit.FindAllStringIndex(text, -1)

	sentences := make([]string, 0, len(boundaries)+1)
	last := 0
	for _, b := range boundaries {
		sentences = append(sentences, strings.TrimSpace(text[last:b[1]]))
		last = b[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}

	var chunks []string
	current := ""
	for _, sentence := range sentences {
		if current != "" && len(current)+len(sentence)+1 > maxSize {
			chunks = append(chunks, current)
			current = ""
		}
		if current == "" {
			current = sentence
		} else {
			current += " " + sentence
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// mergeAudioFiles concatenates MP3 parts into one file. Plain binary concat
// is valid when every part was produced with the same encoder settings.
func mergeAudioFiles(inputs []string, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create merged audio: %w", err)
	}
	defer out.Close()

	for _, input := range inputs {
		in, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open audio part: %w", err)
		}
		if _, err := io.Copy(out, in); err != nil {
			in.Close()
			return fmt.Errorf("merge audio part: %w", err)
		}
		in.Close()
	}
	return nil
}
