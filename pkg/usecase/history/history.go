package history

import (
	"io"
	"os"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/citypulse-ai/citypulse/pkg/interfaces"
)

// UseCase provides query history operations: listing, similarity lookup,
// NDJSON archival to object storage, and feature extraction for the
// travel demand model.
type UseCase struct {
	repo     interfaces.Repository
	storage  adapter.Storage
	bigquery adapter.BigQuery
	output   io.Writer
	now      func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithStorage sets the object storage used by Export
func WithStorage(storage adapter.Storage) Option {
	return func(uc *UseCase) {
		uc.storage = storage
	}
}

// WithBigQuery sets the analytics sink used by Features
func WithBigQuery(bq adapter.BigQuery) Option {
	return func(uc *UseCase) {
		uc.bigquery = bq
	}
}

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// WithClock injects the time source
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// New creates a new history UseCase instance
func New(repo interfaces.Repository, opts ...Option) *UseCase {
	uc := &UseCase{
		repo:   repo,
		output: os.Stdout,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
