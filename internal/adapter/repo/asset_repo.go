package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepositoryPG {
	return &AssetRepositoryPG{pool: pool}
}

// ListByJobID returns all assets belonging to the job, oldest first.
func (r *AssetRepositoryPG) ListByJobID(ctx context.Context, jobID string) ([]domain.Asset, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, job_id, kind, storage_key, mime, bytes, width, height, COALESCE(score, 0), status, created_at
FROM creative_assets
WHERE job_id = $1
ORDER BY created_at ASC;
`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(&asset.ID, &asset.JobID, &asset.Kind, &asset.StorageKey, &asset.MIME, &asset.Bytes, &asset.Width, &asset.Height, &asset.Score, &asset.Status, &asset.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

// Save persists a single asset row.
func (r *AssetRepositoryPG) Save(ctx context.Context, asset *domain.Asset) error {
	query := `
INSERT INTO creative_assets (id, job_id, kind, storage_key, mime, bytes, width, height, score, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.JobID,
		asset.Kind,
		asset.StorageKey,
		asset.MIME,
		asset.Bytes,
		asset.Width,
		asset.Height,
		asset.Score,
		asset.Status,
	)
	return err
}
