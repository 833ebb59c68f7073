package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
)

// AnalyticsRepositoryPG implements AnalyticsRepository using PostgreSQL.
type AnalyticsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{pool: pool}
}

// IncrementCounters upserts generation metrics for the provided day.
func (r *AnalyticsRepositoryPG) IncrementCounters(ctx context.Context, day string, counters map[string]int) error {
	query := `
INSERT INTO analytics_daily (
    day, jobs_queued, jobs_completed, creatives_passed, best_effort, jobs_failed
) VALUES (
    $1, $2, $3, $4, $5, $6
) ON CONFLICT (day) DO UPDATE SET
    jobs_queued = analytics_daily.jobs_queued + EXCLUDED.jobs_queued,
    jobs_completed = analytics_daily.jobs_completed + EXCLUDED.jobs_completed,
    creatives_passed = analytics_daily.creatives_passed + EXCLUDED.creatives_passed,
    best_effort = analytics_daily.best_effort + EXCLUDED.best_effort,
    jobs_failed = analytics_daily.jobs_failed + EXCLUDED.jobs_failed,
    updated_at = NOW();
`
	_, err := r.pool.Exec(ctx, query,
		day,
		counters["jobs_queued"],
		counters["jobs_completed"],
		counters["creatives_passed"],
		counters["best_effort"],
		counters["jobs_failed"],
	)
	return err
}

// GetSummary returns the most recent daily counters.
func (r *AnalyticsRepositoryPG) GetSummary(ctx context.Context) (*domain.AnalyticsDaily, error) {
	row := r.pool.QueryRow(ctx, `
SELECT day, jobs_queued, jobs_completed, creatives_passed, best_effort, jobs_failed, created_at, updated_at
FROM analytics_daily
ORDER BY day DESC
LIMIT 1;
`)

	var summary domain.AnalyticsDaily
	if err := row.Scan(
		&summary.Day,
		&summary.JobsQueued,
		&summary.JobsCompleted,
		&summary.CreativesPassed,
		&summary.BestEffort,
		&summary.JobsFailed,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}
