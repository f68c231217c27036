// Package pipeline runs one conversion end to end.
//
// Concurrency model:
//
//	Decoder (one goroutine, the caller's)
//	     → batches of Options.BatchSize printings
//	     → up to Options.Workers concurrent processor.Process calls
//	     → barrier (errgroup.Wait)
//	     → processor.Commit to the output
//
// Dispatch blocks while every worker is busy, so at most Workers+1 batches
// are in memory besides the rendered statements. The first worker error
// cancels the run; skipped and undecodable records are counted, logged in
// aggregate, and never abort it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"scryfallsql/internal/metrics"
	"scryfallsql/internal/processor"
	"scryfallsql/internal/render"
	"scryfallsql/internal/scryfall"
)

// thisMany is how many example messages are kept per aggregated problem.
const thisMany = 5

// Run steps, as reported to metrics.
const (
	stepConvert = "convert"
	stepCommit  = "commit"
)

// DecodeErrorReason prefixes skip reports for records that could not be
// decoded.
const DecodeErrorReason = "decode error"

// SkipSink receives every excluded record. skiplog.Log satisfies it.
type SkipSink interface {
	Add(reason string, record int, printingID, name string)
}

// Options configures Run.
type Options struct {
	Job        string
	Schema     string
	BatchSize  int
	Workers    int
	EmitSchema bool
	Verbose    bool

	// Skips, if set, receives every skipped or undecodable record.
	Skips SkipSink
}

// Summary reports what a run did.
type Summary struct {
	processor.Stats
	DecodeErrors int64
	Elapsed      time.Duration
}

// Run reads printings from in and writes the SQL script to out. Nothing is
// written to out unless every batch was converted successfully.
func Run(ctx context.Context, opts Options, in io.Reader, out io.Writer) (Summary, error) {
	if opts.BatchSize <= 0 {
		return Summary{}, fmt.Errorf("pipeline: batch size must be > 0, got %d", opts.BatchSize)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	log.Printf("pipeline: start job=%s workers=%d batch=%d schema=%s", opts.Job, opts.Workers, opts.BatchSize, opts.Schema)

	skipAgg := newErrAgg(thisMany)
	decodeAgg := newErrAgg(thisMany)

	p := processor.New(processor.Options{
		Renderer:   render.New(opts.Schema),
		EmitSchema: opts.EmitSchema,
		Verbose:    opts.Verbose,
		OnSkip: func(s processor.Skip) {
			skipAgg.add(s.Reason)
			if opts.Skips != nil {
				opts.Skips.Add(s.Reason, s.Ordinal, s.PrintingID, s.Name)
			}
		},
	})
	p.Start()

	var decodeErrors atomic.Int64
	onDecodeErr := func(e *scryfall.RecordError) {
		decodeErrors.Add(1)
		decodeAgg.add(e.Error())
		if opts.Skips != nil {
			opts.Skips.Add(DecodeErrorReason+": "+e.Err.Error(), e.Index, "", "")
		}
	}

	convertStart := time.Now()
	convertErr := convert(ctx, p, scryfall.NewDecoder(in), opts, onDecodeErr)
	metrics.RecordStep(opts.Job, stepConvert, convertErr, time.Since(convertStart))

	sum := Summary{Stats: p.Stats(), DecodeErrors: decodeErrors.Load()}
	logAggregates(skipAgg, decodeAgg)

	if convertErr != nil {
		sum.Elapsed = p.Elapsed()
		recordSummary(opts.Job, sum)
		logSummary(sum)
		return sum, convertErr
	}

	commitStart := time.Now()
	commitErr := p.Commit(out)
	metrics.RecordStep(opts.Job, stepCommit, commitErr, time.Since(commitStart))

	sum.Elapsed = p.Elapsed()
	recordSummary(opts.Job, sum)
	logSummary(sum)
	if commitErr != nil {
		return sum, fmt.Errorf("pipeline: %w", commitErr)
	}
	return sum, nil
}

// convert feeds batches to a bounded pool of workers and waits for all of
// them. A worker error takes precedence over the read error it causes.
func convert(ctx context.Context, p *processor.Processor, dec *scryfall.Decoder, opts Options, onDecodeErr func(*scryfall.RecordError)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	var readErr error
	for {
		batch, err := dec.NextBatch(gctx, opts.BatchSize, onDecodeErr)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = err
			break
		}
		g.Go(func() error {
			return p.Process(batch)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("pipeline: process: %w", err)
	}
	if readErr != nil {
		return fmt.Errorf("pipeline: read: %w", readErr)
	}
	return nil
}

func recordSummary(job string, s Summary) {
	metrics.RecordRow(job, metrics.KindRead, s.Records+s.DecodeErrors)
	metrics.RecordRow(job, metrics.KindDecodeErrors, s.DecodeErrors)
	metrics.RecordRow(job, metrics.KindSkipped, s.Skipped)
	metrics.RecordRow(job, metrics.KindSets, s.Sets)
	metrics.RecordRow(job, metrics.KindCards, s.Cards)
	metrics.RecordRow(job, metrics.KindFaces, s.Faces)
	metrics.RecordRow(job, metrics.KindEditions, s.Editions)
	metrics.RecordBatches(job, s.Batches)
}

// logSummary prints final statistics. For a completed run:
//
//	read == decode_errors + skipped + editions
func logSummary(s Summary) {
	log.Printf(
		"summary: read=%d decode_errors=%d skipped=%d sets=%d cards=%d faces=%d editions=%d batches=%d elapsed=%s",
		s.Records+s.DecodeErrors, s.DecodeErrors, s.Skipped, s.Sets, s.Cards, s.Faces, s.Editions, s.Batches, s.Elapsed,
	)
}

// logAggregates prints aggregated skip reasons and decode errors; only the
// first few messages of each are shown.
func logAggregates(skipAgg, decodeAgg *errAgg) {
	if skipAgg.count > 0 {
		log.Printf("skipped records: %d", skipAgg.count)
		for _, r := range skipAgg.reasons() {
			log.Printf("  %6d  %s", skipAgg.buckets[r], r)
		}
	}
	if decodeAgg.count > 0 {
		log.Printf("decode errors: %d (showing first %d)", decodeAgg.count, len(decodeAgg.first))
		for i, s := range decodeAgg.first {
			log.Printf("  #%03d: %s", i+1, s)
		}
	}
}

// errAgg counts messages and keeps the first limit of them.
type errAgg struct {
	mu      sync.Mutex
	limit   int
	count   int
	first   []string
	buckets map[string]int
}

func newErrAgg(limit int) *errAgg {
	return &errAgg{limit: limit, buckets: make(map[string]int)}
}

func (a *errAgg) add(msg string) {
	a.mu.Lock()
	a.buckets[msg]++
	if a.count < a.limit {
		a.first = append(a.first, msg)
	}
	a.count++
	a.mu.Unlock()
}

// reasons returns the distinct messages, most frequent first.
func (a *errAgg) reasons() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, 0, len(a.buckets))
	for r := range a.buckets {
		out = append(out, r)
	}
	slices.SortFunc(out, func(x, y string) int {
		if d := a.buckets[y] - a.buckets[x]; d != 0 {
			return d
		}
		return strings.Compare(x, y)
	})
	return out
}
