package handlers

import (
	archivezip "archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/storage"
)

type stubSQL struct {
	mu        sync.Mutex
	enqueueID string
	lastQuery string
	lastArgs  []any
}

func (s *stubSQL) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, fmt.Errorf("unsupported exec: %s", query)
}

func (s *stubSQL) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("unsupported query: %s", query)
}

func (s *stubSQL) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.mu.Lock()
	s.lastQuery = query
	s.lastArgs = args
	s.mu.Unlock()
	if strings.Contains(query, "insert into creative_jobs") {
		return NewSimpleRow(func(dest ...any) error {
			if ptr, ok := dest[0].(*string); ok {
				*ptr = s.enqueueID
				return nil
			}
			return fmt.Errorf("unsupported scan target")
		})
	}
	return NewSimpleRow(nil)
}

type stubJobs struct {
	jobs map[string]*domain.Job
}

func (s *stubJobs) Create(ctx context.Context, job *domain.Job) error { return nil }

func (s *stubJobs) UpdateStatus(ctx context.Context, jobID string, status domain.JobStatus, errMsg *string, resultJSON []byte) error {
	return nil
}

func (s *stubJobs) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	if job, ok := s.jobs[jobID]; ok {
		return job, nil
	}
	return nil, domain.ErrNotFound
}

type stubAssets struct {
	byJob map[string][]domain.Asset
}

func (s *stubAssets) ListByJobID(ctx context.Context, jobID string) ([]domain.Asset, error) {
	return s.byJob[jobID], nil
}

func (s *stubAssets) Save(ctx context.Context, asset *domain.Asset) error { return nil }

type stubAnalytics struct {
	mu       sync.Mutex
	counters map[string]int
	summary  *domain.AnalyticsDaily
	err      error
}

func (s *stubAnalytics) IncrementCounters(ctx context.Context, day string, counters map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters == nil {
		s.counters = make(map[string]int)
	}
	for k, v := range counters {
		s.counters[k] += v
	}
	return nil
}

func (s *stubAnalytics) GetSummary(ctx context.Context) (*domain.AnalyticsDaily, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func withJobParam(req *http.Request, jobID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("job_id", jobID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreativesGenerateJSON(t *testing.T) {
	sqlStub := &stubSQL{enqueueID: "7c1f2a64-3d0b-4a9e-8c5f-2e1d0b9a7634"}
	analytics := &stubAnalytics{}
	app := &App{Logger: zerolog.Nop(), SQL: sqlStub, Analytics: analytics}

	body := `{"strategy":{"prompt":"neon gym ad","integration_mode":"freestanding"},"product_key":"products/p1.png"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/creatives", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.CreativesGenerate(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d; body=%s", rr.Code, http.StatusAccepted, rr.Body.String())
	}
	var resp creativeJobResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.JobID != sqlStub.enqueueID {
		t.Fatalf("job_id = %q, want %q", resp.JobID, sqlStub.enqueueID)
	}
	if resp.Status != "QUEUED" {
		t.Fatalf("status = %q, want QUEUED", resp.Status)
	}
	if analytics.counters["jobs_queued"] != 1 {
		t.Fatalf("jobs_queued = %d, want 1", analytics.counters["jobs_queued"])
	}
	if len(sqlStub.lastArgs) != 2 {
		t.Fatalf("enqueue args = %d, want 2", len(sqlStub.lastArgs))
	}
	var stored domain.CreativeStrategy
	if err := json.Unmarshal(sqlStub.lastArgs[0].([]byte), &stored); err != nil {
		t.Fatalf("decode stored strategy: %v", err)
	}
	if stored.Prompt != "neon gym ad" {
		t.Fatalf("stored prompt = %q", stored.Prompt)
	}
	if stored.Locale == "" {
		t.Fatalf("expected locale to be defaulted from request context")
	}
}

func TestCreativesGenerateJSONMissingProductKey(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), SQL: &stubSQL{}}

	body := `{"strategy":{"prompt":"ad"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/creatives", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.CreativesGenerate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreativesGenerateMultipart(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	sqlStub := &stubSQL{enqueueID: "0af3c8d1-2b64-4e95-b7a0-9c5d1e2f3806"}
	app := &App{Logger: zerolog.Nop(), SQL: sqlStub, Store: store, Analytics: &stubAnalytics{}}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("strategy", `{"prompt":"phone launch","integration_mode":"device_mockup","device_type":"iphone"}`); err != nil {
		t.Fatalf("write strategy field: %v", err)
	}
	fw, err := mw.CreateFormFile("product", "screenshot.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write product bytes: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/creatives", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	app.CreativesGenerate(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d; body=%s", rr.Code, http.StatusAccepted, rr.Body.String())
	}
	productKey, ok := sqlStub.lastArgs[1].(string)
	if !ok || !strings.HasPrefix(productKey, "products/") || !strings.HasSuffix(productKey, ".png") {
		t.Fatalf("unexpected product key %v", sqlStub.lastArgs[1])
	}
	entries, err := os.ReadDir(filepath.Join(store.BasePath(), "products"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored product, entries=%v err=%v", entries, err)
	}
}

func TestCreativeStatus(t *testing.T) {
	jobID := "f2d4b8a0-1c3e-4957-a6b2-8d0e9f1c5a73"
	jobs := &stubJobs{jobs: map[string]*domain.Job{
		jobID: {
			ID:         jobID,
			TaskType:   domain.JobTypeCreativeGenerate,
			Status:     domain.JobStatusSucceeded,
			ResultJSON: []byte(`{"status":"passed","attempts":1,"final_score":8.6}`),
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		},
	}}
	app := &App{Logger: zerolog.Nop(), Jobs: jobs}

	req := withJobParam(httptest.NewRequest(http.MethodGet, "/v1/creatives/"+jobID, nil), jobID)
	rr := httptest.NewRecorder()
	app.CreativeStatus(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp struct {
		ID     string          `json:"id"`
		Status string          `json:"status"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != jobID || resp.Status != "SUCCEEDED" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.Contains(string(resp.Result), `"passed"`) {
		t.Fatalf("result payload missing: %s", resp.Result)
	}

	req = withJobParam(httptest.NewRequest(http.MethodGet, "/v1/creatives/missing", nil), "missing")
	rr = httptest.NewRecorder()
	app.CreativeStatus(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing job status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCreativeAssetsAndZip(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	jobID := "b6e0d2c4-8a1f-4073-9c5e-1f2a3b4c5d6e"
	key, err := store.Write(context.Background(), "creatives/"+jobID+"/creative-01.png", []byte("final-image"))
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	jobs := &stubJobs{jobs: map[string]*domain.Job{jobID: {ID: jobID, Status: domain.JobStatusSucceeded}}}
	assets := &stubAssets{byJob: map[string][]domain.Asset{
		jobID: {{
			ID:         "a1",
			JobID:      jobID,
			Kind:       domain.AssetKindCreative,
			StorageKey: key,
			MIME:       "image/png",
			Bytes:      11,
			Width:      64,
			Height:     64,
			Score:      8.6,
			Status:     "passed",
		}},
	}}
	app := &App{Logger: zerolog.Nop(), Jobs: jobs, Assets: assets, Store: store}

	req := withJobParam(httptest.NewRequest(http.MethodGet, "/v1/creatives/"+jobID+"/assets", nil), jobID)
	rr := httptest.NewRecorder()
	app.CreativeAssets(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("assets status = %d; body=%s", rr.Code, rr.Body.String())
	}
	var listing struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&listing); err != nil {
		t.Fatalf("decode assets: %v", err)
	}
	if len(listing.Items) != 1 {
		t.Fatalf("items len = %d, want 1", len(listing.Items))
	}

	req = withJobParam(httptest.NewRequest(http.MethodGet, "/v1/creatives/"+jobID+"/download", nil), jobID)
	rr = httptest.NewRecorder()
	app.CreativeZip(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("zip status = %d; body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type = %q", ct)
	}
	reader, err := archivezip.NewReader(bytes.NewReader(rr.Body.Bytes()), int64(rr.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 1 {
		t.Fatalf("archive entries = %d, want 1", len(reader.File))
	}
}
