package handlers

import (
	"net/http"
	"time"

	"github.com/blackrubyde-web/adruby-sub008/internal/infra"
)

// MetricsSummary returns the latest daily generation counters.
func (a *App) MetricsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Analytics.GetSummary(r.Context())
	if err != nil {
		if infra.IsNoRows(err) {
			a.json(w, http.StatusOK, map[string]any{
				"day":              dayKey(),
				"jobs_queued":      0,
				"jobs_completed":   0,
				"creatives_passed": 0,
				"best_effort":      0,
				"jobs_failed":      0,
			})
			return
		}
		a.Logger.Error().Err(err).Msg("load metrics summary failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load metrics")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"day":              summary.Day.Format("2006-01-02"),
		"jobs_queued":      summary.JobsQueued,
		"jobs_completed":   summary.JobsCompleted,
		"creatives_passed": summary.CreativesPassed,
		"best_effort":      summary.BestEffort,
		"jobs_failed":      summary.JobsFailed,
	})
}

func dayKey() string {
	return time.Now().UTC().Format("2006-01-02")
}
