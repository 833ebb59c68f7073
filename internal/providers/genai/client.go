package genai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/infra"
	"github.com/blackrubyde-web/adruby-sub008/internal/quality"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a facade over the Gemini generateContent API covering both
// capabilities the pipeline needs: background synthesis and creative
// scoring. Without an API key, or when the remote call fails, it falls back
// to deterministic synthetic output so the worker stays fully operational
// in local and CI environments.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	CandidateCount   int    `json:"candidateCount,omitempty"`
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; one with a sensible timeout is created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// Synthesize generates a background scene for the given prompt at the target
// resolution.
func (c *Client) Synthesize(ctx context.Context, promptText string, width, height int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		return c.syntheticBackground(promptText, width, height)
	}

	data, err := c.remoteSynthesize(ctx, promptText)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("model", c.model).
			Msg("genai: remote synthesis failed; falling back to synthetic background")
		return c.syntheticBackground(promptText, width, height)
	}
	if len(data) == 0 {
		return c.syntheticBackground(promptText, width, height)
	}
	return data, nil
}

// Score asks the model to judge a candidate creative against the rubric.
func (c *Client) Score(ctx context.Context, imageData []byte, strategy domain.CreativeStrategy) (*quality.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		return c.syntheticScore(imageData, strategy), nil
	}

	res, err := c.remoteScore(ctx, imageData, strategy)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("model", c.model).
			Msg("genai: remote scoring failed; falling back to synthetic score")
		return c.syntheticScore(imageData, strategy), nil
	}
	return res, nil
}

func (c *Client) remoteSynthesize(ctx context.Context, promptText string) ([]byte, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: promptText}},
		}},
		GenerationConfig: &geminiGenerationConfig{CandidateCount: 1},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)), payload, &response); err != nil {
		return nil, err
	}

	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode inline data: %w", err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("no image content returned")
}

type remoteVerdict struct {
	OverallScore float64            `json:"overall_score"`
	Breakdown    map[string]float64 `json:"breakdown"`
}

func (c *Client) remoteScore(ctx context.Context, imageData []byte, strategy domain.CreativeStrategy) (*quality.Result, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: scoringInstruction(strategy)},
				{InlineData: &geminiInlineData{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString(imageData)}},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{ResponseMimeType: "application/json"},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)), payload, &response); err != nil {
		return nil, err
	}

	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) == "" {
				continue
			}
			var verdict remoteVerdict
			if err := json.Unmarshal([]byte(part.Text), &verdict); err != nil {
				return nil, fmt.Errorf("%w: decode verdict: %v", domain.ErrScoringFailure, err)
			}
			return &quality.Result{
				OverallScore: clampScore(verdict.OverallScore),
				Breakdown:    verdict.Breakdown,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: no verdict returned", domain.ErrScoringFailure)
}

func scoringInstruction(strategy domain.CreativeStrategy) string {
	var b strings.Builder
	b.WriteString("Rate this advertisement image on a 0-10 scale and answer as JSON ")
	b.WriteString(`{"overall_score": n, "breakdown": {`)
	dims := []string{
		quality.DimVisualHierarchy,
		quality.DimHeadlineReadability,
		quality.DimProductProminence,
		quality.DimColorHarmony,
		quality.DimPolish,
	}
	for i, d := range dims {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: n", d)
	}
	b.WriteString("}}.")
	if headline := strings.TrimSpace(strategy.Headline); headline != "" {
		fmt.Fprintf(&b, "\nThe headline should read: %s", headline)
	}
	if strategy.Integration != "" {
		fmt.Fprintf(&b, "\nProduct integration mode: %s", strategy.Integration)
	}
	return b.String()
}

func (c *Client) invoke(ctx context.Context, path string, payload any, out any) error {
	endpoint := strings.TrimRight(c.baseURL, "/") + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: gemini status %d: %s", domain.ErrProviderFailure, resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("%w: gemini status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("%w: gemini status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

// syntheticBackground renders a deterministic vertical gradient scene from a
// prompt-derived seed, with a vignette so composited products read against
// a darker rim.
func (c *Client) syntheticBackground(promptText string, width, height int) ([]byte, error) {
	if width <= 0 {
		width = 1080
	}
	if height <= 0 {
		height = 1080
	}
	seed := deterministicSeed(promptText, c.model)
	top := colorFromSeed(seed, 0)
	bottom := colorFromSeed(seed, 1)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	cx, cy := float64(width)/2, float64(height)/2
	maxDist := math.Hypot(cx, cy)
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height-1)
		r := float64(top.R) + (float64(bottom.R)-float64(top.R))*t
		g := float64(top.G) + (float64(bottom.G)-float64(top.G))*t
		b := float64(top.B) + (float64(bottom.B)-float64(top.B))*t
		for x := 0; x < width; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			shade := 1 - 0.35*dist*dist
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(r * shade)
			img.Pix[i+1] = uint8(g * shade)
			img.Pix[i+2] = uint8(b * shade)
			img.Pix[i+3] = 255
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode synthetic background: %w", err)
	}
	c.logger.Debug().
		Str("model", c.model).
		Str("seed", seed).
		Msg("genai: generated synthetic background")
	return buf.Bytes(), nil
}

// syntheticScore derives a stable verdict from the image bytes so repeated
// scoring of the same creative agrees with itself.
func (c *Client) syntheticScore(imageData []byte, strategy domain.CreativeStrategy) *quality.Result {
	sum := sha256.Sum256(imageData)
	dims := []string{
		quality.DimVisualHierarchy,
		quality.DimHeadlineReadability,
		quality.DimProductProminence,
		quality.DimColorHarmony,
		quality.DimPolish,
	}
	breakdown := make(quality.Breakdown, len(dims))
	total := 0.0
	for i, d := range dims {
		score := 6.5 + float64(sum[i]%30)/10
		breakdown[d] = score
		total += score
	}
	return &quality.Result{
		OverallScore: math.Round(total/float64(len(dims))*10) / 10,
		Breakdown:    breakdown,
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if seed == "" {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	r := mustParseHexByte(segment[0:2])
	g := mustParseHexByte(segment[2:4])
	b := mustParseHexByte(segment[4:6])
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func mustParseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
