package vocabulary

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/ngram"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/record"
)

const (
	DefaultMinSupport = 3
	DefaultMaxOrder   = ngram.MaxOrder
)

// Options controls which n-grams make it into the vocabulary.
type Options struct {
	// MinSupport is the smallest corpus count an n-gram needs to be kept.
	MinSupport int
	// MaxOrder is 1 for unigrams only, 2 for unigrams and bigrams.
	MaxOrder int
}

func DefaultOptions() Options {
	return Options{MinSupport: DefaultMinSupport, MaxOrder: DefaultMaxOrder}
}

func (o Options) Validate() error {
	if o.MinSupport < 1 {
		return fmt.Errorf("min support must be at least 1, got %d", o.MinSupport)
	}
	if o.MaxOrder < 1 || o.MaxOrder > ngram.MaxOrder {
		return fmt.Errorf("max n-gram order must be between 1 and %d, got %d", ngram.MaxOrder, o.MaxOrder)
	}
	return nil
}

// position is where an n-gram was first seen: record sequence number, then
// offset within that record's n-gram stream.
type position struct {
	seq    int
	offset int
}

func (p position) compare(o position) int {
	if c := cmp.Compare(p.seq, o.seq); c != 0 {
		return c
	}
	return cmp.Compare(p.offset, o.offset)
}

type tally struct {
	gram      ngram.NGram
	count     int
	firstSeen position
}

// Builder aggregates corpus-wide n-gram counts. It is not safe for
// concurrent use; a Builder is frozen into a Vocabulary once by Build.
type Builder struct {
	opts    Options
	tallies map[ngram.NGram]*tally
	records int
	total   int
}

func NewBuilder(opts Options) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		opts:    opts,
		tallies: make(map[ngram.NGram]*tally),
	}, nil
}

// Add counts every n-gram of rec. An n-gram occurring k times in one record
// contributes k to its corpus count.
func (b *Builder) Add(rec record.Normalized) {
	offset := 0
	for g := range ngram.Extract(rec.Tokens, b.opts.MaxOrder) {
		t, exists := b.tallies[g]
		if !exists {
			t = &tally{gram: g, firstSeen: position{seq: rec.Seq, offset: offset}}
			b.tallies[g] = t
		} else if p := (position{seq: rec.Seq, offset: offset}); p.compare(t.firstSeen) < 0 {
			t.firstSeen = p
		}
		t.count++
		offset++
	}
	b.records++
	b.total += offset
}

// Records returns the number of records added so far.
func (b *Builder) Records() int { return b.records }

// Distinct returns the number of distinct n-grams seen so far, before the
// support cutoff.
func (b *Builder) Distinct() int { return len(b.tallies) }

// Total returns the number of n-gram occurrences seen so far.
func (b *Builder) Total() int { return b.total }

// Build drops n-grams below MinSupport, ranks the rest by descending count
// (ties by first occurrence) and assigns dense indices in rank order.
func (b *Builder) Build() *Vocabulary {
	kept := make([]*tally, 0, len(b.tallies))
	for _, t := range b.tallies {
		if t.count >= b.opts.MinSupport {
			kept = append(kept, t)
		}
	}
	slices.SortFunc(kept, func(x, y *tally) int {
		if c := cmp.Compare(y.count, x.count); c != 0 {
			return c
		}
		if c := x.firstSeen.compare(y.firstSeen); c != 0 {
			return c
		}
		// Only reachable when callers reuse sequence numbers.
		return cmp.Compare(x.gram.String(), y.gram.String())
	})

	v := &Vocabulary{
		entries:    make([]Entry, len(kept)),
		index:      make(map[ngram.NGram]int, len(kept)),
		maxOrder:   b.opts.MaxOrder,
		minSupport: b.opts.MinSupport,
	}
	for i, t := range kept {
		v.entries[i] = Entry{Index: i, NGram: t.gram, Count: t.count}
		v.index[t.gram] = i
	}
	return v
}

// Build is a convenience wrapper that feeds every record into a fresh
// Builder and freezes it.
func Build(records []record.Normalized, opts Options) (*Vocabulary, error) {
	b, err := NewBuilder(opts)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		b.Add(rec)
	}
	return b.Build(), nil
}
