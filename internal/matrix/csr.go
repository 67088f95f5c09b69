// Package matrix assembles feature vectors into a record-by-vocabulary
// matrix in compressed sparse row form, with dense export through gonum.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Adithya-Monish-Kumar-K/textvec/internal/vectorizer"
)

// CSR is a compressed sparse row matrix. Row i holds its column indices in
// Indices[Indptr[i]:Indptr[i+1]] and the matching values in Data.
type CSR struct {
	rows, cols int
	Indptr     []int
	Indices    []int
	Data       []float64
}

// FromVectors builds a matrix with one row per vector and cols columns.
// Every index must lie in [0, cols).
func FromVectors(vectors []vectorizer.FeatureVector, cols int) (*CSR, error) {
	nnz := 0
	for _, v := range vectors {
		nnz += v.Len()
	}
	m := &CSR{
		rows:    len(vectors),
		cols:    cols,
		Indptr:  make([]int, 1, len(vectors)+1),
		Indices: make([]int, 0, nnz),
		Data:    make([]float64, 0, nnz),
	}
	for i, v := range vectors {
		for k, idx := range v.Indices {
			if idx < 0 || idx >= cols {
				return nil, fmt.Errorf("row %d: index %d outside [0, %d)", i, idx, cols)
			}
			m.Indices = append(m.Indices, idx)
			m.Data = append(m.Data, float64(v.Counts[k]))
		}
		m.Indptr = append(m.Indptr, len(m.Indices))
	}
	return m, nil
}

// Dims returns the number of rows and columns.
func (m *CSR) Dims() (r, c int) { return m.rows, m.cols }

// NNZ is the number of stored entries.
func (m *CSR) NNZ() int { return len(m.Data) }

// Density is the fraction of stored entries, 0 for an empty matrix.
func (m *CSR) Density() float64 {
	if m.rows == 0 || m.cols == 0 {
		return 0
	}
	return float64(m.NNZ()) / float64(m.rows*m.cols)
}

// At returns the value at row i, column j. It panics when either is out of
// range, as gonum matrices do.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	for k := m.Indptr[i]; k < m.Indptr[i+1]; k++ {
		if m.Indices[k] == j {
			return m.Data[k]
		}
	}
	return 0
}

// Dense expands the matrix. The result is nil when either dimension is
// zero, since gonum has no empty dense matrix.
func (m *CSR) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return nil
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	for i := 0; i < m.rows; i++ {
		for k := m.Indptr[i]; k < m.Indptr[i+1]; k++ {
			d.Set(i, m.Indices[k], m.Data[k])
		}
	}
	return d
}

// ColumnTotals sums every column. For vectors built against a vocabulary of
// the same corpus the totals equal the vocabulary counts.
func (m *CSR) ColumnTotals() []float64 {
	totals := make([]float64, m.cols)
	for k, j := range m.Indices {
		totals[j] += m.Data[k]
	}
	return totals
}
