package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"ytdub/internal/chunker"
	"ytdub/pkg/log"
)

// ProgressFunc receives monotonically increasing completion counts, counting
// both reused and freshly translated chunks.
type ProgressFunc func(completed, total int)

// Orchestrator translates a chunk sequence with bounded parallelism,
// durable per-chunk checkpointing, and inter-chunk context propagation.
type Orchestrator struct {
	translator  *Translator
	store       *chunker.Store
	maxParallel int
	onProgress  ProgressFunc
}

// DefaultMaxParallel bounds concurrent translation calls.
const DefaultMaxParallel = 3

func NewOrchestrator(t *Translator, store *chunker.Store, maxParallel int, onProgress ProgressFunc) *Orchestrator {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}
	return &Orchestrator{
		translator:  t,
		store:       store,
		maxParallel: maxParallel,
		onProgress:  onProgress,
	}
}

type chunkWork struct {
	index       int
	text        string
	prevContext string
	start       string
}

// Run translates every chunk lacking a store artifact and returns the
// assembled translation in index order, after duplicate-line repair.
//
// Chunks with an existing artifact are reused without a network call, but
// their context tail is still computed from the original text so the next
// chunk's request carries it. Context tails always follow original chunk
// order, independent of completion order. The first failure cancels
// not-yet-started work and surfaces as the single overall error; an
// artifact is only ever written for text that was confirmed translated.
func (o *Orchestrator) Run(ctx context.Context, chunks []chunker.Chunk) (string, error) {
	total := len(chunks)
	if total == 0 {
		return "", nil
	}

	results := make([]string, total)
	work := make([]chunkWork, 0, total)
	completed := 0
	prevTail := ""

	for i, chunk := range chunks {
		text := chunk.Text()

		if o.store.Exists(chunk.Index) {
			loaded, err := o.store.Read(chunk.Index)
			if err != nil {
				return "", err
			}
			results[i] = loaded
			completed++
			log.Info("Chunk %d/%d already translated, reusing", chunk.Index+1, total)
			o.report(completed, total)
		} else {
			work = append(work, chunkWork{
				index:       chunk.Index,
				text:        text,
				prevContext: prevTail,
				start:       string(chunk.Start),
			})
		}

		prevTail = contextTail(text)
	}

	if len(work) > 0 {
		log.Info("Translating %d of %d chunks (%d reused, %d parallel)",
			len(work), total, completed, o.maxParallel)

		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.maxParallel)

		for _, item := range work {
			item := item
			g.Go(func() error {
				// Work not yet started when a sibling failed is dropped here.
				if err := gctx.Err(); err != nil {
					return err
				}

				translated, err := o.translator.Translate(gctx, Request{
					Text:        item.text,
					PrevContext: item.prevContext,
				})
				if err != nil {
					return fmt.Errorf("chunk %d: %w", item.index, err)
				}

				// Persist before reporting completion; the artifact's
				// existence is the resume checkpoint.
				if err := o.store.Write(item.index, translated); err != nil {
					return err
				}

				// Report while holding mu so callback deliveries are
				// serialized and counts arrive in increasing order.
				mu.Lock()
				results[item.index] = translated
				completed++
				o.report(completed, total)
				mu.Unlock()

				log.Info("Chunk %d/%d translated (%s~)", item.index+1, total, item.start)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return "", err
		}
	}

	return RepairDuplicateLines(strings.Join(results, "\n")), nil
}

func (o *Orchestrator) report(completed, total int) {
	if o.onProgress != nil {
		o.onProgress(completed, total)
	}
}

// contextTail returns the last two lines of a chunk's original text.
func contextTail(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 2 {
		return text
	}
	return strings.Join(lines[len(lines)-2:], "\n")
}
