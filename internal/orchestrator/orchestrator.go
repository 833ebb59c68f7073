package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"
	"time"

	"github.com/blackrubyde-web/adruby-sub008/internal/compositor"
	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/effects"
	"github.com/blackrubyde-web/adruby-sub008/internal/infra"
	"github.com/blackrubyde-web/adruby-sub008/internal/providers/prompt"
	"github.com/blackrubyde-web/adruby-sub008/internal/quality"
)

const (
	// DefaultMaxRetries bounds additional attempts after the first one.
	DefaultMaxRetries = 2
	// DefaultCallTimeout bounds each external synthesis or scoring call.
	DefaultCallTimeout = 45 * time.Second

	defaultCanvas = 1080
)

// State names the orchestrator's position in its attempt loop, used for
// structured logging.
type State string

const (
	StateIdle       State = "idle"
	StateAttempting State = "attempting"
	StateScoring    State = "scoring"
	StateAccepted   State = "accepted"
	StateRetrying   State = "retrying"
	StateExhausted  State = "exhausted_best_effort"
)

// Synthesizer is the external generative-image capability: prompt in,
// raster bytes out.
type Synthesizer interface {
	Synthesize(ctx context.Context, promptText string, width, height int) ([]byte, error)
}

// Options tunes one orchestrator instance.
type Options struct {
	MaxRetries  int
	CallTimeout time.Duration
	Logger      infra.Logger
}

// Orchestrator drives synthesis, compositing, effects and scoring for one
// creative job at a time. Instances are safe for concurrent use; all
// per-job state lives on the stack of Generate.
type Orchestrator struct {
	synth       Synthesizer
	gate        *quality.Gate
	fx          *effects.Pipeline
	logger      infra.Logger
	maxRetries  int
	callTimeout time.Duration
}

// New wires an orchestrator from its collaborators.
func New(synth Synthesizer, gate *quality.Gate, fx *effects.Pipeline, opts Options) *Orchestrator {
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	callTimeout := opts.CallTimeout
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &Orchestrator{
		synth:       synth,
		gate:        gate,
		fx:          fx,
		logger:      opts.Logger,
		maxRetries:  maxRetries,
		callTimeout: callTimeout,
	}
}

// Generate runs the bounded attempt loop for one creative job and always
// terminates after at most MaxRetries+1 attempts.
//
// Every attempt synthesizes a background, composites the product into it,
// applies the strategy's effects and consults the quality gate. A failed
// gate rewrites the prompt from the score breakdown and retries; an
// exhausted budget returns the last composited image as best effort. Only
// when no attempt ever completed compositing does Generate return an error.
// Cancellation between attempts also resolves to best effort when a
// composited image exists.
func (o *Orchestrator) Generate(ctx context.Context, strategy domain.CreativeStrategy, product []byte) (*domain.CreativeResult, error) {
	basePrompt := prompt.BuildSynthesis(strategy)
	currentPrompt := basePrompt
	accent, _ := compositor.ParseHexColor(strategy.AccentColor)

	var (
		best      *domain.CreativeResult
		lastScore float64
	)

	o.logState(StateIdle, 0, "job start")
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return o.resolveCancelled(best, attempt, err)
		}

		o.logState(StateAttempting, attempt, "synthesizing background")
		candidate, err := o.runAttempt(ctx, strategy, product, currentPrompt, accent)
		if err != nil {
			o.logger.Warn().Err(err).Int("attempt", attempt).Msg("orchestrator: attempt failed before scoring")
			continue
		}
		candidate.Attempts = attempt + 1
		best = candidate

		o.logState(StateScoring, attempt, "consulting quality gate")
		verdict := o.scoreCandidate(ctx, candidate.Image, strategy)
		lastScore = verdict.OverallScore
		best.FinalScore = lastScore

		if verdict.Passed {
			best.Status = domain.StatusPassed
			o.logState(StateAccepted, attempt, "quality gate passed")
			return best, nil
		}
		if attempt < o.maxRetries {
			currentPrompt = prompt.Rewrite(basePrompt, verdict.Breakdown)
			o.logState(StateRetrying, attempt, "quality gate failed, prompt rewritten")
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: no attempt completed compositing", domain.ErrGenerationFailed)
	}
	best.Status = domain.StatusBestEffort
	best.FinalScore = lastScore
	o.logState(StateExhausted, o.maxRetries, "retry budget exhausted, returning best effort")
	return best, nil
}

// runAttempt performs synthesis, compositing and effects for one attempt.
// Synthesis failures and compositing failures both count against the same
// retry budget; the caller just moves to the next attempt.
func (o *Orchestrator) runAttempt(ctx context.Context, strategy domain.CreativeStrategy, product []byte, promptText string, accent color.RGBA) (*domain.CreativeResult, error) {
	sctx, cancel := context.WithTimeout(ctx, o.callTimeout)
	background, err := o.synth.Synthesize(sctx, promptText, defaultCanvas, defaultCanvas)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSynthesisFailure, err)
	}

	composited, err := compositor.Composite(background, product, compositor.Options{
		Mode:   strategy.Integration,
		Device: strategy.Device,
		Bounds: strategy.ProductBounds,
		Accent: accent,
	})
	if err != nil {
		return nil, err
	}

	final := o.fx.Apply(composited, strategy.Effects, accent)
	var buf bytes.Buffer
	if err := png.Encode(&buf, final); err != nil {
		return nil, fmt.Errorf("%w: encode result: %v", domain.ErrCompositing, err)
	}
	return &domain.CreativeResult{
		Image:  buf.Bytes(),
		Format: "image/png",
		Width:  final.Bounds().Dx(),
		Height: final.Bounds().Dy(),
	}, nil
}

func (o *Orchestrator) scoreCandidate(ctx context.Context, image []byte, strategy domain.CreativeStrategy) *quality.Result {
	sctx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.gate.Evaluate(sctx, image, strategy)
}

// resolveCancelled honors cancellation between attempts: a composited image
// is still handed back as best effort instead of being discarded.
func (o *Orchestrator) resolveCancelled(best *domain.CreativeResult, attempt int, cause error) (*domain.CreativeResult, error) {
	if best != nil {
		best.Status = domain.StatusBestEffort
		o.logState(StateExhausted, attempt, "cancelled, returning best effort")
		return best, nil
	}
	return nil, fmt.Errorf("%w: cancelled before first composite: %v", domain.ErrGenerationFailed, cause)
}

func (o *Orchestrator) logState(state State, attempt int, msg string) {
	o.logger.Debug().Str("state", string(state)).Int("attempt", attempt).Msg("orchestrator: " + msg)
}
