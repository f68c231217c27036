// Package processor converts batches of Scryfall printings into upsert
// statements and writes them out as a single transaction.
//
// A Processor is driven in three phases:
//
//	Start()          once, before any batch
//	Process(batch)   any number of times, from any number of goroutines
//	Commit(w)        once, after every Process call has returned
//
// Sets and cards are emitted first-seen-wins through two dedup.Trackers;
// every valid printing yields exactly one edition. Statements accumulate in
// three append-only queues that Commit drains in set, card, edition order.
package processor

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"scryfallsql/internal/convert"
	"scryfallsql/internal/dedup"
	"scryfallsql/internal/render"
	"scryfallsql/internal/scryfall"
)

// Skip reasons.
const (
	ReasonNoLegalFormat = "no recognised legal format"
	ReasonNoGame        = "no recognised game"
	ReasonNoOracleID    = "missing or malformed oracle id"
)

// Skip describes a record excluded from the output. Skips are reported, not
// returned as errors.
type Skip struct {
	Ordinal    int
	PrintingID string
	Name       string
	Reason     string
}

// Stats is a snapshot of a Processor's counters.
type Stats struct {
	Records  int64 // records handed to Process
	Skipped  int64 // records rejected by validation
	Sets     int64 // set statements queued
	Cards    int64 // card statements queued (each with its faces)
	Faces    int64 // card_face statements queued
	Editions int64 // edition statements queued
	Batches  int64 // Process calls that completed
}

// Options configures a Processor.
type Options struct {
	// Renderer renders statements; nil selects render.New(render.DefaultSchema).
	Renderer *render.Renderer

	// OnSkip, if set, is called for every record rejected by validation. It
	// may be called concurrently.
	OnSkip func(Skip)

	// EmitSchema makes Commit write the schema DDL before the transaction.
	EmitSchema bool

	// Verbose logs every skip and batch.
	Verbose bool
}

// counters holds cross-goroutine statistics. All fields are updated
// atomically.
type counters struct {
	records  atomic.Int64
	skipped  atomic.Int64
	sets     atomic.Int64
	cards    atomic.Int64
	faces    atomic.Int64
	editions atomic.Int64
	batches  atomic.Int64
}

// queue is an append-only list of statements safe for concurrent writers.
type queue struct {
	mu    sync.Mutex
	items []string
}

func (q *queue) appendAll(stmts []string) {
	if len(stmts) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, stmts...)
	q.mu.Unlock()
}

func (q *queue) snapshot() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items
}

// Processor is safe for concurrent Process calls.
type Processor struct {
	r          *render.Renderer
	onSkip     func(Skip)
	emitSchema bool
	verbose    bool

	sets  *dedup.Tracker
	cards *dedup.Tracker

	setQ, cardQ, editionQ queue

	c       counters
	started time.Time
}

// New returns a Processor ready for Start.
func New(opts Options) *Processor {
	r := opts.Renderer
	if r == nil {
		r = render.New(render.DefaultSchema)
	}
	return &Processor{
		r:          r,
		onSkip:     opts.OnSkip,
		emitSchema: opts.EmitSchema,
		verbose:    opts.Verbose,
		sets:       dedup.New(),
		cards:      dedup.New(),
	}
}

// Start marks the beginning of a run.
func (p *Processor) Start() {
	p.started = time.Now()
	log.Printf("processor: start schema=%s", p.r.Schema())
}

// Process validates, converts, and renders one batch. Records are handled in
// order by the calling goroutine; the statements of a batch are appended to
// the shared queues at the end, one lock per queue. Invalid records are
// skipped and reported; an error means a statement could not be rendered and
// the run should stop.
func (p *Processor) Process(batch []scryfall.Card) error {
	var sets, cards, editions []string
	var nFaces int64

	for i := range batch {
		rec := &batch[i]
		p.c.records.Add(1)

		if reason, ok := validate(rec); !ok {
			p.skip(rec, reason)
			continue
		}

		if p.sets.Claim(rec.Set) {
			stmt, err := p.r.Set(convert.ToMagicSet(rec))
			if err != nil {
				return fmt.Errorf("record %d: set %q: %w", rec.Ordinal, rec.Set, err)
			}
			sets = append(sets, stmt)
		}

		if p.cards.Claim(convert.CardID(rec).String()) {
			card := convert.ToCard(rec)
			stmt, err := p.r.Card(card)
			if err != nil {
				return fmt.Errorf("record %d: card %s: %w", rec.Ordinal, card.ID, err)
			}
			cards = append(cards, stmt)
			nFaces += int64(len(card.Faces))
		}

		stmt, err := p.r.Edition(convert.ToCardEdition(rec))
		if err != nil {
			return fmt.Errorf("record %d: edition: %w", rec.Ordinal, err)
		}
		editions = append(editions, stmt)
	}

	p.setQ.appendAll(sets)
	p.cardQ.appendAll(cards)
	p.editionQ.appendAll(editions)

	p.c.sets.Add(int64(len(sets)))
	p.c.cards.Add(int64(len(cards)))
	p.c.faces.Add(nFaces)
	p.c.editions.Add(int64(len(editions)))
	n := p.c.batches.Add(1)

	if p.verbose {
		log.Printf("processor: batch=%d records=%d sets=%d cards=%d editions=%d",
			n, len(batch), len(sets), len(cards), len(editions))
	}
	return nil
}

// validate applies the minimal integrity checks. A record needs at least one
// recognised legal format, at least one recognised game, and a parseable
// oracle id.
func validate(rec *scryfall.Card) (string, bool) {
	if len(convert.Formats(rec.Legalities)) == 0 {
		return ReasonNoLegalFormat, false
	}
	if len(convert.Games(rec.Games)) == 0 {
		return ReasonNoGame, false
	}
	if convert.CardID(rec) == uuid.Nil {
		return ReasonNoOracleID, false
	}
	return "", true
}

func (p *Processor) skip(rec *scryfall.Card, reason string) {
	p.c.skipped.Add(1)
	if p.verbose {
		log.Printf("processor: skip record=%d id=%s name=%q reason=%q", rec.Ordinal, rec.ID, rec.Name, reason)
	}
	if p.onSkip != nil {
		p.onSkip(Skip{Ordinal: rec.Ordinal, PrintingID: rec.ID, Name: rec.Name, Reason: reason})
	}
}

// Stats returns the current counters.
func (p *Processor) Stats() Stats {
	return Stats{
		Records:  p.c.records.Load(),
		Skipped:  p.c.skipped.Load(),
		Sets:     p.c.sets.Load(),
		Cards:    p.c.cards.Load(),
		Faces:    p.c.faces.Load(),
		Editions: p.c.editions.Load(),
		Batches:  p.c.batches.Load(),
	}
}

// Elapsed returns the time since Start.
func (p *Processor) Elapsed() time.Duration {
	if p.started.IsZero() {
		return 0
	}
	return time.Since(p.started)
}
