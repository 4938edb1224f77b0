package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/repository"
)

func TestMemoryHistoryOrdering(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 8, 24, 18, 0, 0, 0, time.UTC)

	for i, query := range []string{"first", "second", "third"} {
		gt.NoError(t, repo.PutHistory(ctx, &model.QueryHistory{
			ID:        model.NewHistoryID(),
			UserID:    "u1",
			Query:     query,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	gt.NoError(t, repo.PutHistory(ctx, &model.QueryHistory{
		ID:        model.NewHistoryID(),
		UserID:    "u2",
		Query:     "other user",
		CreatedAt: base,
	}))

	records, err := repo.ListHistory(ctx, "u1", 2)
	gt.NoError(t, err)
	gt.A(t, records).Length(2)
	gt.Equal(t, records[0].Query, "third")
	gt.Equal(t, records[1].Query, "second")
}

func TestMemorySimilarQueries(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	queries := []string{
		"best route to the airport",
		"mood in indiranagar",
		"fastest route to whitefield",
	}
	for i, q := range queries {
		gt.NoError(t, repo.PutHistory(ctx, &model.QueryHistory{
			ID:        model.NewHistoryID(),
			UserID:    "u1",
			Query:     q,
			CreatedAt: time.Date(2026, 8, 24, 10+i, 0, 0, 0, time.UTC),
		}))
	}

	matches, err := repo.SimilarQueries(ctx, "u1", "Route", 10)
	gt.NoError(t, err)
	gt.A(t, matches).Length(2)
}

func TestMemoryReportFilters(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	put := func(location, topic string) {
		gt.NoError(t, repo.PutReport(ctx, &model.Report{
			ID:          model.NewReportID(),
			Location:    location,
			Topic:       topic,
			Description: "something happened",
			Severity:    model.SeverityInfo,
			CreatedAt:   time.Now(),
		}))
	}
	put("koramangala", "traffic")
	put("koramangala", "power")
	put("whitefield", "traffic")

	reports, err := repo.ListReports(ctx, "Koramangala", "", 0)
	gt.NoError(t, err)
	gt.A(t, reports).Length(2)

	reports, err = repo.ListReports(ctx, "koramangala", "traffic", 0)
	gt.NoError(t, err)
	gt.A(t, reports).Length(1)
	gt.Equal(t, reports[0].Topic, "traffic")
}

func TestMemoryCache(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	_, err := repo.GetCache(ctx, "jayanagar", model.CacheSourcePlaces)
	gt.True(t, errors.Is(err, interfaces.ErrCacheMiss))

	entry := &model.CacheEntry{
		Location:  "Jayanagar",
		Source:    model.CacheSourcePlaces,
		Payload:   `[{"name":"Lalbagh Botanical Garden"}]`,
		UpdatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutCache(ctx, entry))

	got, err := repo.GetCache(ctx, "jayanagar", model.CacheSourcePlaces)
	gt.NoError(t, err)
	gt.Equal(t, got.Payload, entry.Payload)

	gt.NoError(t, repo.DeleteCache(ctx, "jayanagar", model.CacheSourcePlaces))
	_, err = repo.GetCache(ctx, "jayanagar", model.CacheSourcePlaces)
	gt.True(t, errors.Is(err, interfaces.ErrCacheMiss))
}
