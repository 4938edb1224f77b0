package adapter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/m-mizutani/gt"
)

func TestBigQueryInsert(t *testing.T) {
	projectID := os.Getenv("TEST_BIGQUERY_PROJECT")
	if projectID == "" {
		t.Skip("TEST_BIGQUERY_PROJECT is not set")
	}

	datasetID := os.Getenv("TEST_BIGQUERY_DATASET")
	if datasetID == "" {
		t.Skip("TEST_BIGQUERY_DATASET is not set")
	}

	table := os.Getenv("TEST_BIGQUERY_TABLE")
	if table == "" {
		t.Skip("TEST_BIGQUERY_TABLE is not set")
	}

	ctx := context.Background()
	client, err := adapter.NewBigQuery(ctx, projectID)
	gt.NoError(t, err)

	type row struct {
		UserID    string    `bigquery:"user_id"`
		Intent    string    `bigquery:"intent"`
		CreatedAt time.Time `bigquery:"created_at"`
	}
	rows := []row{
		{UserID: "test-user", Intent: "get_news", CreatedAt: time.Now().UTC()},
	}

	gt.NoError(t, client.Insert(ctx, datasetID, table, rows))
}
