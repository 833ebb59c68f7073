package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/blackrubyde-web/adruby-sub008/internal/adapter/repo"
	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/effects"
	"github.com/blackrubyde-web/adruby-sub008/internal/infra"
	"github.com/blackrubyde-web/adruby-sub008/internal/orchestrator"
	"github.com/blackrubyde-web/adruby-sub008/internal/providers/genai"
	"github.com/blackrubyde-web/adruby-sub008/internal/quality"
	"github.com/blackrubyde-web/adruby-sub008/internal/sqlinline"
	"github.com/blackrubyde-web/adruby-sub008/internal/storage"
)

const (
	jobPollInterval = 2 * time.Second
	workerCount     = 2
)

type claimedJob struct {
	ID         string
	Strategy   json.RawMessage
	ProductKey string
}

type jobWorker struct {
	runner    *infra.SQLRunner
	logger    infra.Logger
	orch      *orchestrator.Orchestrator
	store     *storage.FileStore
	jobs      domain.JobRepository
	assets    domain.AssetRepository
	analytics domain.AnalyticsRepository
}

var errNoJobAvailable = errors.New("no job available")

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	geminiClient, err := genai.NewClient(genai.Options{
		APIKey:     strings.TrimSpace(cfg.GeminiAPIKey),
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure gemini client")
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		logger.Warn().Str("model", geminiClient.Model()).Msg("worker: gemini api key missing, using synthetic generation")
	}

	gate := quality.NewGate(geminiClient, cfg.QualityThreshold, logger)
	orch := orchestrator.New(geminiClient, gate, effects.New(nil), orchestrator.Options{
		MaxRetries:  cfg.MaxRetries,
		CallTimeout: cfg.GenCallTimeout,
		Logger:      logger,
	})

	worker := &jobWorker{
		runner:    infra.NewSQLRunner(pool, logger),
		logger:    logger,
		orch:      orch,
		store:     fileStore,
		jobs:      repo.NewJobRepository(pool),
		assets:    repo.NewAssetRepository(pool),
		analytics: repo.NewAnalyticsRepository(pool),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workerCount; i++ {
		g.Go(func() error { return worker.Run(gctx) })
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *jobWorker) Run(ctx context.Context) error {
	w.logger.Info().Msg("worker: started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		j, err := w.claimJob(ctx)
		if err != nil {
			if errors.Is(err, errNoJobAvailable) {
				sleep(ctx, jobPollInterval)
				continue
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			w.logger.Error().Err(err).Msg("worker: failed to claim job")
			sleep(ctx, jobPollInterval)
			continue
		}

		w.handleJob(ctx, j)
	}
}

func (w *jobWorker) claimJob(ctx context.Context) (claimedJob, error) {
	row := w.runner.QueryRow(ctx, sqlinline.QWorkerClaimJob)
	var j claimedJob
	if err := row.Scan(&j.ID, &j.Strategy, &j.ProductKey); err != nil {
		if infra.IsNoRows(err) {
			return claimedJob{}, errNoJobAvailable
		}
		return claimedJob{}, err
	}
	// Ensure strategy bytes are not aliased.
	j.Strategy = append(json.RawMessage(nil), j.Strategy...)
	return j, nil
}

func (w *jobWorker) handleJob(ctx context.Context, j claimedJob) {
	w.logger.Info().Str("job_id", j.ID).Msg("worker: picked job")

	result, err := w.processJob(ctx, j)
	if err != nil {
		w.logger.Error().Err(err).Str("job_id", j.ID).Msg("worker: job failed")
		w.finishJob(ctx, j.ID, domain.JobStatusFailed, err.Error(), nil)
		w.bumpCounters(ctx, map[string]int{"jobs_failed": 1})
		return
	}

	resultJSON, _ := json.Marshal(map[string]any{
		"status":      result.Status,
		"attempts":    result.Attempts,
		"final_score": result.FinalScore,
		"width":       result.Width,
		"height":      result.Height,
	})
	w.finishJob(ctx, j.ID, domain.JobStatusSucceeded, "", resultJSON)

	counters := map[string]int{"jobs_completed": 1}
	switch result.Status {
	case domain.StatusPassed:
		counters["creatives_passed"] = 1
	case domain.StatusBestEffort:
		counters["best_effort"] = 1
	}
	w.bumpCounters(ctx, counters)
}

func (w *jobWorker) processJob(ctx context.Context, j claimedJob) (*domain.CreativeResult, error) {
	var strategy domain.CreativeStrategy
	if err := json.Unmarshal(j.Strategy, &strategy); err != nil {
		return nil, fmt.Errorf("decode strategy: %w", err)
	}
	product, err := w.store.Read(ctx, j.ProductKey)
	if err != nil {
		return nil, fmt.Errorf("load product image: %w", err)
	}

	result, err := w.orch.Generate(ctx, strategy, product)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("creatives/%s/creative-%02d%s", j.ID, result.Attempts, extensionForMIME(result.Format))
	storageKey, err := w.store.Write(ctx, key, result.Image)
	if err != nil {
		return nil, fmt.Errorf("persist creative: %w", err)
	}

	asset := &domain.Asset{
		ID:         uuid.NewString(),
		JobID:      j.ID,
		Kind:       domain.AssetKindCreative,
		StorageKey: storageKey,
		MIME:       result.Format,
		Bytes:      int64(len(result.Image)),
		Width:      result.Width,
		Height:     result.Height,
		Score:      result.FinalScore,
		Status:     string(result.Status),
	}
	if err := w.assets.Save(ctx, asset); err != nil {
		return nil, fmt.Errorf("persist asset record: %w", err)
	}
	return result, nil
}

func (w *jobWorker) finishJob(ctx context.Context, jobID string, status domain.JobStatus, errMsg string, resultJSON []byte) {
	var errPtr *string
	if errMsg != "" {
		errPtr = &errMsg
	}
	if err := w.jobs.UpdateStatus(ctx, jobID, status, errPtr, resultJSON); err != nil {
		w.logger.Error().Err(err).Str("job_id", jobID).Msg("worker: update status failed")
	}
}

func (w *jobWorker) bumpCounters(ctx context.Context, counters map[string]int) {
	day := time.Now().UTC().Format("2006-01-02")
	if err := w.analytics.IncrementCounters(ctx, day, counters); err != nil {
		w.logger.Warn().Err(err).Msg("worker: increment counters failed")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func extensionForMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	default:
		return ".bin"
	}
}
