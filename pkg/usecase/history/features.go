package history

import (
	"context"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// FeatureRow is one training row for the travel demand model, derived
// from a history record.
type FeatureRow struct {
	UserID    string    `bigquery:"user_id"`
	Intent    string    `bigquery:"intent"`
	Location  string    `bigquery:"location"`
	Weekday   string    `bigquery:"weekday"`
	Hour      int       `bigquery:"hour"`
	CreatedAt time.Time `bigquery:"created_at"`
}

// Features flattens a user's history into feature rows and streams them
// into the analytics table. Returns the number of inserted rows.
func (u *UseCase) Features(ctx context.Context, userID, datasetID, tableID string) (int, error) {
	if u.bigquery == nil {
		return 0, goerr.New("bigquery is not configured")
	}

	records, err := u.repo.ListHistory(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	rows := make([]FeatureRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, featureRow(record))
	}

	if err := u.bigquery.Insert(ctx, datasetID, tableID, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func featureRow(record *model.QueryHistory) FeatureRow {
	return FeatureRow{
		UserID:    record.UserID,
		Intent:    string(record.Response.Intent),
		Location:  record.Location,
		Weekday:   record.CreatedAt.Weekday().String(),
		Hour:      record.CreatedAt.Hour(),
		CreatedAt: record.CreatedAt,
	}
}
