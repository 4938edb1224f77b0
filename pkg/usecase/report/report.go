package report

import (
	"io"
	"os"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
)

// UseCase provides citizen report operations
type UseCase struct {
	repo   interfaces.Repository
	output io.Writer
	now    func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

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

// New creates a new report UseCase instance
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
