package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory implements interfaces.Repository and interfaces.Cache in
// process memory. It backs local runs without a Firestore project and
// the test suite.
type Memory struct {
	mu      sync.Mutex
	history []*model.QueryHistory
	reports []*model.Report
	cache   map[string]model.CacheEntry
}

func NewMemory() *Memory {
	return &Memory{
		cache: map[string]model.CacheEntry{},
	}
}

func (r *Memory) PutHistory(ctx context.Context, record *model.QueryHistory) error {
	if record == nil {
		return goerr.New("history record is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *record
	r.history = append(r.history, &copied)
	return nil
}

func (r *Memory) ListHistory(ctx context.Context, userID string, limit int) ([]*model.QueryHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []*model.QueryHistory
	for _, record := range r.history {
		if record.UserID != userID {
			continue
		}
		copied := *record
		records = append(records, &copied)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *Memory) SimilarQueries(ctx context.Context, userID, query string, limit int) ([]*model.QueryHistory, error) {
	records, err := r.ListHistory(ctx, userID, 0)
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

func (r *Memory) PutReport(ctx context.Context, report *model.Report) error {
	if report == nil {
		return goerr.New("report is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *report
	r.reports = append(r.reports, &copied)
	return nil
}

func (r *Memory) ListReports(ctx context.Context, location, topic string, limit int) ([]*model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc := model.NormalizeLocation(location)
	top := strings.ToLower(strings.TrimSpace(topic))

	var reports []*model.Report
	for _, report := range r.reports {
		if report.Location != loc {
			continue
		}
		if top != "" && report.Topic != top {
			continue
		}
		copied := *report
		reports = append(reports, &copied)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (r *Memory) GetCache(ctx context.Context, location, source string) (*model.CacheEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.cache[model.CacheKey(location, source)]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrCacheMiss, "no cached payload",
			goerr.V("location", location), goerr.V("source", source))
	}
	copied := entry
	return &copied, nil
}

func (r *Memory) PutCache(ctx context.Context, entry *model.CacheEntry) error {
	if entry == nil {
		return goerr.New("cache entry is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache[entry.Key()] = *entry
	return nil
}

func (r *Memory) DeleteCache(ctx context.Context, location, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.cache, model.CacheKey(location, source))
	return nil
}
