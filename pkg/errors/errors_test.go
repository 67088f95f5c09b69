package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), ExitFailure},
		{"malformed sentinel", fmt.Errorf("reading: %w", ErrMalformedRecord), ExitBadInput},
		{"config", fmt.Errorf("loading: %w", ErrInvalidConfig), ExitBadInput},
		{"sink", fmt.Errorf("preflight: %w", ErrSinkUnavailable), ExitSink},
		{"cancelled", fmt.Errorf("normalize: %w", context.Canceled), ExitCancelled},
		{"app error wins", New(ErrSinkUnavailable, 7, "custom"), 7},
		{"malformed helper", Malformed("in.csv", 3, "expected %d fields, got %d", 2, 3), ExitBadInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestMalformedMessage(t *testing.T) {
	err := Malformed("corpus.csv", 12, "expected %d fields, got %d", 2, 1)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Equal(t, "malformed record: corpus.csv:12: expected 2 fields, got 1", err.Error())
}
