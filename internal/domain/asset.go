package domain

import "time"

// AssetKind enumerates asset types stored for a job.
type AssetKind string

const (
	// AssetKindCreative is a finished composited advertisement image.
	AssetKindCreative AssetKind = "CREATIVE"
	// AssetKindProduct is the caller-uploaded product image a job starts from.
	AssetKindProduct AssetKind = "PRODUCT"
)

// Asset represents a stored artifact belonging to a creative job.
type Asset struct {
	ID         string
	JobID      string
	Kind       AssetKind
	StorageKey string
	MIME       string
	Bytes      int64
	Width      int
	Height     int
	Score      float64
	Status     string
	CreatedAt  time.Time
}
