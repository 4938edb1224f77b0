package interfaces

import (
	"context"

	"github.com/citypulse-ai/citypulse/pkg/model"
)

// Repository defines the interface for query history and city report
// persistence
type Repository interface {
	// PutHistory stores one user interaction
	PutHistory(ctx context.Context, record *model.QueryHistory) error

	// ListHistory retrieves a user's interactions, newest first. limit <= 0
	// means no limit
	ListHistory(ctx context.Context, userID string, limit int) ([]*model.QueryHistory, error)

	// SimilarQueries retrieves past queries of a user whose text contains
	// the given query, newest first
	SimilarQueries(ctx context.Context, userID, query string, limit int) ([]*model.QueryHistory, error)

	// PutReport stores a citizen report
	PutReport(ctx context.Context, report *model.Report) error

	// ListReports retrieves reports matching a normalized location and
	// topic, newest first
	ListReports(ctx context.Context, location, topic string, limit int) ([]*model.Report, error)
}
