package repository_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestFirestoreHistory(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	userID := fmt.Sprintf("test-user-%d", rand.Int63())

	older := &model.QueryHistory{
		ID:        model.NewHistoryID(),
		UserID:    userID,
		Query:     "mood in indiranagar",
		Location:  "indiranagar",
		CreatedAt: time.Now().Add(-time.Hour),
		Response: model.ResponsePayload{
			Intent: model.IntentLocationMood,
			Reply:  "calm",
		},
	}
	newer := &model.QueryHistory{
		ID:        model.NewHistoryID(),
		UserID:    userID,
		Query:     "best route to airport",
		CreatedAt: time.Now(),
		Response: model.ResponsePayload{
			Intent: model.IntentBestRoute,
			Reply:  "take the expressway",
		},
	}
	gt.NoError(t, repo.PutHistory(ctx, older))
	gt.NoError(t, repo.PutHistory(ctx, newer))

	records, err := repo.ListHistory(ctx, userID, 0)
	gt.NoError(t, err)
	gt.A(t, records).Length(2)
	gt.Equal(t, records[0].ID, newer.ID)

	similar, err := repo.SimilarQueries(ctx, userID, "route", 10)
	gt.NoError(t, err)
	gt.A(t, similar).Length(1)
	gt.Equal(t, similar[0].Query, "best route to airport")
}

func TestFirestoreReports(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	location := fmt.Sprintf("test-loc-%d", rand.Int63())

	report := &model.Report{
		ID:          model.NewReportID(),
		Location:    location,
		Topic:       "traffic",
		Description: "signal outage at the main junction",
		Severity:    model.SeverityMinor,
		CreatedAt:   time.Now(),
	}
	gt.NoError(t, repo.PutReport(ctx, report))

	reports, err := repo.ListReports(ctx, location, "traffic", 10)
	gt.NoError(t, err)
	gt.A(t, reports).Length(1)
	gt.Equal(t, reports[0].ID, report.ID)

	none, err := repo.ListReports(ctx, location, "water", 10)
	gt.NoError(t, err)
	gt.A(t, none).Length(0)
}

func TestFirestoreCache(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	location := fmt.Sprintf("test-cache-%d", rand.Int63())

	_, err := repo.GetCache(ctx, location, model.CacheSourceTwitter)
	gt.True(t, errors.Is(err, interfaces.ErrCacheMiss))

	entry := &model.CacheEntry{
		Location:  location,
		Source:    model.CacheSourceTwitter,
		Payload:   `[{"text":"metro is packed today"}]`,
		UpdatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutCache(ctx, entry))

	got, err := repo.GetCache(ctx, location, model.CacheSourceTwitter)
	gt.NoError(t, err)
	gt.Equal(t, got.Payload, entry.Payload)

	gt.NoError(t, repo.DeleteCache(ctx, location, model.CacheSourceTwitter))
	_, err = repo.GetCache(ctx, location, model.CacheSourceTwitter)
	gt.True(t, errors.Is(err, interfaces.ErrCacheMiss))
}
