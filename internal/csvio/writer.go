package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/samber/lo"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/record"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vectorizer"
	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vocabulary"
)

// ListSeparator joins the index and count lists of a vectorized line.
const ListSeparator = "|"

// fileWriter writes CSV rows to a temporary file that only replaces the
// destination when commit succeeds.
type fileWriter struct {
	path    string
	tmpPath string
	file    *os.File
	gz      *gzip.Writer
	csv     *csv.Writer
}

func create(path string) (*fileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	w := &fileWriter{path: path, tmpPath: tmpPath, file: f}
	var out io.Writer = f
	if IsCompressed(path) {
		w.gz = gzip.NewWriter(f)
		out = w.gz
	}
	w.csv = csv.NewWriter(out)
	return w, nil
}

func (w *fileWriter) write(row ...string) error {
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("writing row to %s: %w", w.path, err)
	}
	return nil
}

func (w *fileWriter) commit() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.abort()
		return fmt.Errorf("flushing %s: %w", w.path, err)
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			w.abort()
			return fmt.Errorf("closing gzip stream for %s: %w", w.path, err)
		}
	}
	if err := w.file.Sync(); err != nil {
		w.abort()
		return fmt.Errorf("syncing %s: %w", w.path, err)
	}
	if err := w.file.Close(); err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("closing %s: %w", w.path, err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("renaming %s: %w", w.path, err)
	}
	return nil
}

func (w *fileWriter) abort() {
	w.file.Close()
	os.Remove(w.tmpPath)
}

func writeAll(path string, rows func(w *fileWriter) error) error {
	w, err := create(path)
	if err != nil {
		return err
	}
	if err := rows(w); err != nil {
		w.abort()
		return err
	}
	return w.commit()
}

// WriteRecords writes label,text lines.
func WriteRecords(path string, records []record.Record) error {
	return writeAll(path, func(w *fileWriter) error {
		for _, r := range records {
			if err := w.write(r.Label, r.Text); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteNormalized writes label,space_joined_tokens lines.
func WriteNormalized(path string, records []record.Normalized) error {
	return writeAll(path, func(w *fileWriter) error {
		for _, r := range records {
			if err := w.write(r.Label, strings.Join(r.Tokens, " ")); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteVocabulary writes ngram,count lines in index order, which is
// descending count order.
func WriteVocabulary(path string, vocab *vocabulary.Vocabulary) error {
	return writeAll(path, func(w *fileWriter) error {
		for _, e := range vocab.Entries() {
			if err := w.write(e.NGram.String(), strconv.Itoa(e.Count)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteVectors writes label,indices,counts lines. Both lists are empty for
// an empty vector.
func WriteVectors(path string, vectors []vectorizer.Vectorized) error {
	return writeAll(path, func(w *fileWriter) error {
		for _, v := range vectors {
			if err := w.write(v.Label, JoinInts(v.Vector.Indices), JoinInts(v.Vector.Counts)); err != nil {
				return err
			}
		}
		return nil
	})
}

// JoinInts renders an index or count list as it appears in a vectorized
// line.
func JoinInts(values []int) string {
	return strings.Join(lo.Map(values, func(v int, _ int) string {
		return strconv.Itoa(v)
	}), ListSeparator)
}

// IsCompressed reports whether path names a gzip stage file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// StagePath derives the output path of a stage from its input path:
// corpus.csv becomes corpus_<ending>.csv, and a trailing .gz is kept.
func StagePath(path, ending string) string {
	gz := ""
	if IsCompressed(path) {
		gz = ".gz"
		path = strings.TrimSuffix(path, gz)
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".csv"
	}
	return base + "_" + ending + ext + gz
}

// InDir moves path into dir, keeping its file name. An empty dir leaves the
// path unchanged.
func InDir(dir, path string) string {
	if dir == "" {
		return path
	}
	return filepath.Join(dir, filepath.Base(path))
}
