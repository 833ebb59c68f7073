package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLayoutSolveHandler(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}

	body := map[string]any{
		"canvas_width":  1080,
		"canvas_height": 1080,
		"scene": map[string]any{
			"elements": []map[string]any{
				{"id": "headline", "type": "text"},
				{"id": "product", "type": "product"},
			},
			"relations": []map[string]any{
				{"from": "headline", "to": "product", "type": "above"},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/layout/solve", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	app.LayoutSolve(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp struct {
		Elements map[string]struct {
			X, Y, Width, Height int
		} `json:"elements"`
		Warnings []string `json:"warnings"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Elements) != 2 {
		t.Fatalf("elements len = %d, want 2", len(resp.Elements))
	}
	if len(resp.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", resp.Warnings)
	}
	headline, product := resp.Elements["headline"], resp.Elements["product"]
	if headline.Y+headline.Height >= product.Y {
		t.Fatalf("headline should sit above product: headline=%+v product=%+v", headline, product)
	}
}

func TestLayoutSolveHandlerInvalidGraph(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}

	body := `{"scene":{"elements":[{"id":"a","type":"text"}],"relations":[{"from":"a","to":"ghost","type":"above"}]}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/layout/solve", strings.NewReader(body))
	rr := httptest.NewRecorder()
	app.LayoutSolve(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d; body=%s", rr.Code, http.StatusUnprocessableEntity, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "invalid_scene_graph") {
		t.Fatalf("expected invalid_scene_graph error code, got %s", rr.Body.String())
	}
}

func TestLayoutSolveHandlerBadPayload(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}

	req := httptest.NewRequest(http.MethodPost, "/v1/layout/solve", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	app.LayoutSolve(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
