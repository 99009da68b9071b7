package stats

import (
	"context"

	"github.com/verte-zerg/trailcap/internal/model"
	"github.com/verte-zerg/trailcap/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Trials []model.TrialSummary
	Counts map[model.InputMethod]int
}

// BuildReport loads and prepares journal data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	trials, err := st.ListTrials(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	counts, err := st.CountByMethod(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{Trials: trials, Counts: counts}, nil
}
