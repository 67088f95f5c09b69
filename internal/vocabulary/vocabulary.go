// Package vocabulary counts n-grams across a corpus and freezes the frequent
// ones into a densely indexed Vocabulary.
package vocabulary

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/ngram"
	apperrors "github.com/Adithya-Monish-Kumar-K/textvec/pkg/errors"
)

// Entry is one vocabulary n-gram with its corpus count and assigned index.
type Entry struct {
	Index int
	NGram ngram.NGram
	Count int
}

// Vocabulary is a frozen, read-only mapping from n-gram to index. Indices
// cover [0, Len()) and follow descending corpus count. It is safe for
// concurrent readers.
type Vocabulary struct {
	entries    []Entry
	index      map[ngram.NGram]int
	maxOrder   int
	minSupport int
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int { return len(v.entries) }

// MaxOrder is the n-gram order the vocabulary was built with; vectorizing
// must extract n-grams with the same order.
func (v *Vocabulary) MaxOrder() int { return v.maxOrder }

// MinSupport is the cutoff used to build the vocabulary, or 0 when it was
// loaded from a file.
func (v *Vocabulary) MinSupport() int { return v.minSupport }

// Lookup returns the index of g.
func (v *Vocabulary) Lookup(g ngram.NGram) (int, bool) {
	i, ok := v.index[g]
	return i, ok
}

// Entry returns the entry at index i.
func (v *Vocabulary) Entry(i int) Entry { return v.entries[i] }

// Entries returns a copy of all entries in index order.
func (v *Vocabulary) Entries() []Entry {
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Ranked is an n-gram and its corpus count, as read back from a vocabulary
// file.
type Ranked struct {
	NGram ngram.NGram
	Count int
}

// FromRanked rebuilds a frozen Vocabulary from entries that are already in
// rank order; the position in ranked becomes the index. The entries must be
// distinct, positive and sorted by non-increasing count.
func FromRanked(ranked []Ranked) (*Vocabulary, error) {
	v := &Vocabulary{
		entries:  make([]Entry, len(ranked)),
		index:    make(map[ngram.NGram]int, len(ranked)),
		maxOrder: 1,
	}
	for i, r := range ranked {
		if r.Count < 1 {
			return nil, invalid("entry %d (%s) has non-positive count %d", i, r.NGram, r.Count)
		}
		if i > 0 && r.Count > ranked[i-1].Count {
			return nil, invalid("entry %d (%s) count %d exceeds previous count %d", i, r.NGram, r.Count, ranked[i-1].Count)
		}
		if _, dup := v.index[r.NGram]; dup {
			return nil, invalid("duplicate n-gram %s", r.NGram)
		}
		v.entries[i] = Entry{Index: i, NGram: r.NGram, Count: r.Count}
		v.index[r.NGram] = i
		v.maxOrder = max(v.maxOrder, r.NGram.Order())
	}
	return v, nil
}

func invalid(format string, args ...any) error {
	return apperrors.New(apperrors.ErrInvalidVocabulary, apperrors.ExitBadInput, fmt.Sprintf(format, args...))
}
