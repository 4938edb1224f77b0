package repository

import (
	"context"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionHistory = "user_query_history"
	collectionReports = "city_reports"
	collectionCache   = "unified_data"

	// similarScanLimit bounds how many recent records are scanned for
	// substring matches.
	similarScanLimit = 200
)

// Firestore implements interfaces.Repository and interfaces.Cache on one
// Firestore database.
type Firestore struct {
	client *firestore.Client
}

// New creates a Firestore-backed repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client.
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) PutHistory(ctx context.Context, record *model.QueryHistory) error {
	doc := r.client.Collection(collectionHistory).Doc(string(record.ID))
	if _, err := doc.Set(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to put history", goerr.V("id", record.ID))
	}
	return nil
}

func (r *Firestore) ListHistory(ctx context.Context, userID string, limit int) ([]*model.QueryHistory, error) {
	query := r.client.Collection(collectionHistory).
		Where("user_id", "==", userID).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []*model.QueryHistory
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate history", goerr.V("user_id", userID))
		}

		var record model.QueryHistory
		if err := doc.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to decode history record", goerr.V("doc", doc.Ref.ID))
		}
		records = append(records, &record)
	}

	return records, nil
}

func (r *Firestore) SimilarQueries(ctx context.Context, userID, query string, limit int) ([]*model.QueryHistory, error) {
	records, err := r.ListHistory(ctx, userID, similarScanLimit)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	var matches []*model.QueryHistory
	for _, record := range records {
		if needle != "" && !strings.Contains(strings.ToLower(record.Query), needle) {
			continue
		}
		matches = append(matches, record)
		if limit > 0 && len(matches) >= limit {
			break
		}
	}

	return matches, nil
}

func (r *Firestore) PutReport(ctx context.Context, report *model.Report) error {
	doc := r.client.Collection(collectionReports).Doc(string(report.ID))
	if _, err := doc.Set(ctx, report); err != nil {
		return goerr.Wrap(err, "failed to put report", goerr.V("id", report.ID))
	}
	return nil
}

func (r *Firestore) ListReports(ctx context.Context, location, topic string, limit int) ([]*model.Report, error) {
	query := r.client.Collection(collectionReports).
		Where("location", "==", model.NormalizeLocation(location))
	if topic != "" {
		query = query.Where("topic", "==", strings.ToLower(strings.TrimSpace(topic)))
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var reports []*model.Report
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate reports", goerr.V("location", location))
		}

		var report model.Report
		if err := doc.DataTo(&report); err != nil {
			return nil, goerr.Wrap(err, "failed to decode report", goerr.V("doc", doc.Ref.ID))
		}
		reports = append(reports, &report)
	}

	// Sorted here instead of OrderBy so the query does not require a
	// composite index.
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}

	return reports, nil
}

func (r *Firestore) GetCache(ctx context.Context, location, source string) (*model.CacheEntry, error) {
	doc, err := r.client.Collection(collectionCache).Doc(model.CacheKey(location, source)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrCacheMiss, "no cached payload",
				goerr.V("location", location), goerr.V("source", source))
		}
		return nil, goerr.Wrap(err, "failed to get cache entry", goerr.V("location", location))
	}

	var entry model.CacheEntry
	if err := doc.DataTo(&entry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode cache entry", goerr.V("doc", doc.Ref.ID))
	}
	return &entry, nil
}

func (r *Firestore) PutCache(ctx context.Context, entry *model.CacheEntry) error {
	doc := r.client.Collection(collectionCache).Doc(entry.Key())
	if _, err := doc.Set(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to put cache entry", goerr.V("key", entry.Key()))
	}
	return nil
}

func (r *Firestore) DeleteCache(ctx context.Context, location, source string) error {
	doc := r.client.Collection(collectionCache).Doc(model.CacheKey(location, source))
	if _, err := doc.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete cache entry",
			goerr.V("location", location), goerr.V("source", source))
	}
	return nil
}
