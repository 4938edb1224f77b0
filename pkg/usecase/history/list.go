package history

import (
	"context"
	"fmt"

	"github.com/citypulse-ai/citypulse/pkg/model"
)

// List retrieves a user's interactions, newest first. limit <= 0 means no
// limit.
func (u *UseCase) List(ctx context.Context, userID string, limit int) ([]*model.QueryHistory, error) {
	return u.repo.ListHistory(ctx, userID, limit)
}

// Similar retrieves past queries of a user whose text contains the given
// query.
func (u *UseCase) Similar(ctx context.Context, userID, query string, limit int) ([]*model.QueryHistory, error) {
	return u.repo.SimilarQueries(ctx, userID, query, limit)
}

// Print writes history records to the configured output, one line each.
func (u *UseCase) Print(records []*model.QueryHistory) {
	if len(records) == 0 {
		fmt.Fprintln(u.output, "no history")
		return
	}
	for _, r := range records {
		fmt.Fprintf(u.output, "%s [%s] %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Response.Intent, r.Query)
	}
}
