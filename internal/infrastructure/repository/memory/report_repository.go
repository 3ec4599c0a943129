package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goalsight/matchaudit/internal/domain/report"
)

type ReportRepository struct {
	mu           sync.RWMutex
	reportsByRun map[string]report.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{reportsByRun: make(map[string]report.Report)}
}

func (r *ReportRepository) Save(_ context.Context, rep report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reportsByRun[rep.RunID] = rep

	return nil
}

func (r *ReportRepository) GetByRunID(_ context.Context, runID string) (report.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reportsByRun[runID]

	return rep, ok, nil
}

func (r *ReportRepository) ListByFixture(_ context.Context, fixtureID string) ([]report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]report.Report, 0)
	for _, rep := range r.reportsByRun {
		if rep.FixtureID == fixtureID {
			out = append(out, rep)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GeneratedAt.Equal(out[j].GeneratedAt) {
			return out[i].GeneratedAt.After(out[j].GeneratedAt)
		}
		return out[i].RunID < out[j].RunID
	})

	return out, nil
}
