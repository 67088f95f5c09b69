// Package record defines the per-record values that flow between the
// pipeline phases.
package record

// Record is one labeled input text, as read from the input file.
type Record struct {
	Label string
	Text  string
}

// Normalized is a Record after normalization. Seq is the record's position
// in the input and is the tie-break key for vocabulary ranking.
type Normalized struct {
	Seq    int
	Label  string
	Tokens []string
}
