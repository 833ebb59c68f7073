package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/infra"
	"github.com/blackrubyde-web/adruby-sub008/internal/storage"
)

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Config    *infra.Config
	Logger    infra.Logger
	SQL       infra.SQLExecutor
	Store     *storage.FileStore
	Jobs      domain.JobRepository
	Assets    domain.AssetRepository
	Analytics domain.AnalyticsRepository
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}
