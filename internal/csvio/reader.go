// Package csvio reads and writes the line-oriented, comma-delimited files
// exchanged between pipeline stages: input records, normalized records, the
// vocabulary and the vectorized records. Paths ending in .gz are gzip
// streams. Writes go to a temporary file that is renamed into place.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/ngram"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/record"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vectorizer"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vocabulary"
	apperrors "github.com/Adithya-Monish-Kumar-K/textvec/pkg/errors"
)

// Reader yields fixed-width CSV rows from a stage file.
type Reader struct {
	path   string
	file   *os.File
	gz     *gzip.Reader
	csv    *csv.Reader
	fields int
	line   int
}

// Open opens path and expects every row to have exactly fields columns.
func Open(path string, fields int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	r := &Reader{path: path, file: f, fields: fields}
	var in io.Reader = f
	if IsCompressed(path) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		r.gz = gz
		in = gz
	}
	r.csv = csv.NewReader(in)
	r.csv.FieldsPerRecord = fields
	return r, nil
}

// Next returns the next row, or io.EOF after the last one. A row with the
// wrong number of fields is reported as ErrMalformedRecord.
func (r *Reader) Next() ([]string, error) {
	row, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, apperrors.Malformed(r.path, pe.StartLine, "%v", pe.Err)
		}
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}
	r.line, _ = r.csv.FieldPos(0)
	return row, nil
}

// Line is the line number of the row last returned by Next.
func (r *Reader) Line() int { return r.line }

// Path is the file being read.
func (r *Reader) Path() string { return r.path }

func (r *Reader) Close() error {
	if r.gz != nil {
		r.gz.Close()
	}
	return r.file.Close()
}

// each calls fn for every row, checking ctx between rows.
func each(ctx context.Context, path string, fields int, fn func(r *Reader, row []string) error) error {
	r, err := Open(path, fields)
	if err != nil {
		return err
	}
	defer r.Close()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(r, row); err != nil {
			return err
		}
	}
}

// ReadRecords reads label,text lines.
func ReadRecords(ctx context.Context, path string) ([]record.Record, error) {
	var records []record.Record
	err := each(ctx, path, 2, func(_ *Reader, row []string) error {
		records = append(records, record.Record{Label: row[0], Text: row[1]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadNormalized reads label,space_joined_tokens lines. Seq is the row
// position.
func ReadNormalized(ctx context.Context, path string) ([]record.Normalized, error) {
	var records []record.Normalized
	err := each(ctx, path, 2, func(_ *Reader, row []string) error {
		records = append(records, record.Normalized{
			Seq:    len(records),
			Label:  row[0],
			Tokens: strings.Fields(row[1]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadVocabulary reads ngram,count lines and freezes them into a
// Vocabulary whose indices follow line order.
func ReadVocabulary(ctx context.Context, path string) (*vocabulary.Vocabulary, error) {
	var ranked []vocabulary.Ranked
	err := each(ctx, path, 2, func(r *Reader, row []string) error {
		g, err := ngram.Parse(row[0])
		if err != nil {
			return apperrors.Malformed(r.Path(), r.Line(), "%v", err)
		}
		count, err := strconv.Atoi(row[1])
		if err != nil {
			return apperrors.Malformed(r.Path(), r.Line(), "count %q is not an integer", row[1])
		}
		ranked = append(ranked, vocabulary.Ranked{NGram: g, Count: count})
		return nil
	})
	if err != nil {
		return nil, err
	}
	vocab, err := vocabulary.FromRanked(ranked)
	if err != nil {
		return nil, fmt.Errorf("loading vocabulary %s: %w", path, err)
	}
	return vocab, nil
}

// ReadVectors reads label,indices,counts lines.
func ReadVectors(ctx context.Context, path string) ([]vectorizer.Vectorized, error) {
	var out []vectorizer.Vectorized
	err := each(ctx, path, 3, func(r *Reader, row []string) error {
		indices, err := splitInts(row[1])
		if err != nil {
			return apperrors.Malformed(r.Path(), r.Line(), "indices: %v", err)
		}
		counts, err := splitInts(row[2])
		if err != nil {
			return apperrors.Malformed(r.Path(), r.Line(), "counts: %v", err)
		}
		if len(indices) != len(counts) {
			return apperrors.Malformed(r.Path(), r.Line(), "%d indices but %d counts", len(indices), len(counts))
		}
		m := make(map[int]int, len(indices))
		for i, idx := range indices {
			m[idx] += counts[i]
		}
		out = append(out, vectorizer.Vectorized{
			Seq:    len(out),
			Label:  row[0],
			Vector: vectorizer.FromMap(m),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ListSeparator)
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", p)
		}
		out[i] = n
	}
	return out, nil
}
