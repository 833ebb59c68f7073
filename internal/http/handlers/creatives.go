package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/middleware"
	"github.com/blackrubyde-web/adruby-sub008/internal/sqlinline"
	"github.com/blackrubyde-web/adruby-sub008/pkg/zip"
)

// maxProductUpload caps the accepted product image size at 10 MiB.
const maxProductUpload = 10 << 20

type creativeEnqueueJSON struct {
	Strategy   domain.CreativeStrategy `json:"strategy"`
	ProductKey string                  `json:"product_key"`
}

type creativeJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// CreativesGenerate queues a creative generation job. Callers either upload
// the product image as multipart form data (fields "strategy" and "product")
// or post JSON referencing a previously stored product_key.
func (a *App) CreativesGenerate(w http.ResponseWriter, r *http.Request) {
	var (
		strategy   domain.CreativeStrategy
		productKey string
	)
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxProductUpload); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("strategy")), &strategy); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid strategy payload")
			return
		}
		file, header, err := r.FormFile("product")
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "product image required")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxProductUpload))
		if err != nil || len(data) == 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "failed to read product image")
			return
		}
		key := fmt.Sprintf("products/%s%s", uuid.NewString(), productExtension(header.Filename))
		productKey, err = a.Store.Write(r.Context(), key, data)
		if err != nil {
			a.Logger.Error().Err(err).Msg("persist product upload failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to store product image")
			return
		}
	default:
		var req creativeEnqueueJSON
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
		strategy = req.Strategy
		productKey = strings.TrimSpace(req.ProductKey)
		if productKey == "" {
			a.error(w, http.StatusBadRequest, "bad_request", "product_key required")
			return
		}
	}

	if strategy.Integration == "" {
		strategy.Integration = domain.IntegrationFreestanding
	}
	if strategy.Locale == "" {
		strategy.Locale = middleware.LocaleFromContext(r.Context())
	}
	strategyBytes, err := json.Marshal(strategy)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid strategy payload")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QEnqueueCreativeJob, strategyBytes, productKey)
	var jobID string
	if err := row.Scan(&jobID); err != nil {
		a.Logger.Error().Err(err).Msg("enqueue creative job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	if a.Analytics != nil {
		day := dayKey()
		if err := a.Analytics.IncrementCounters(r.Context(), day, map[string]int{"jobs_queued": 1}); err != nil {
			a.Logger.Warn().Err(err).Msg("increment jobs_queued failed")
		}
	}
	a.json(w, http.StatusAccepted, creativeJobResponse{JobID: jobID, Status: string(domain.JobStatusQueued)})
}

// CreativeStatus reports the lifecycle state and result metadata of a job.
func (a *App) CreativeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("load job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"id":            job.ID,
		"task_type":     job.TaskType,
		"status":        job.Status,
		"result":        rawOrEmpty(job.ResultJSON),
		"error_message": job.ErrorMessage,
		"created_at":    job.CreatedAt,
		"updated_at":    job.UpdatedAt,
	})
}

// CreativeAssets lists the stored artifacts produced for a job.
func (a *App) CreativeAssets(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	if _, err := a.Jobs.GetByID(r.Context(), jobID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	assets, err := a.Assets.ListByJobID(r.Context(), jobID)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("load assets failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load assets")
		return
	}
	items := make([]map[string]any, 0, len(assets))
	for _, asset := range assets {
		items = append(items, map[string]any{
			"id":          asset.ID,
			"kind":        asset.Kind,
			"storage_key": asset.StorageKey,
			"mime":        asset.MIME,
			"bytes":       asset.Bytes,
			"width":       asset.Width,
			"height":      asset.Height,
			"score":       asset.Score,
			"status":      asset.Status,
			"created_at":  asset.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CreativeZip bundles all creative assets of a job into one archive download.
func (a *App) CreativeZip(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	if _, err := a.Jobs.GetByID(r.Context(), jobID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	assets, err := a.Assets.ListByJobID(r.Context(), jobID)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("load assets failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch assets")
		return
	}
	var entries []zip.Asset
	for _, asset := range assets {
		if asset.Kind != domain.AssetKindCreative {
			continue
		}
		data, err := a.Store.Read(r.Context(), asset.StorageKey)
		if err != nil {
			a.Logger.Warn().Err(err).Str("storage_key", asset.StorageKey).Msg("read asset failed")
			continue
		}
		entries = append(entries, zip.Asset{
			Filename: fmt.Sprintf("%s-%s", jobID, asset.ID),
			MIME:     asset.MIME,
			Data:     data,
		})
	}
	if len(entries) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no downloadable assets for job")
		return
	}
	archive := zip.ArchiveAssets(entries)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=job-%s.zip", jobID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func productExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return ".png"
	case ".jpg", ".jpeg":
		return ".jpg"
	default:
		return ".png"
	}
}

func rawOrEmpty(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(b)
}
