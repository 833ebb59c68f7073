package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/layout"
	"github.com/blackrubyde-web/adruby-sub008/internal/scene"
)

type layoutSolveRequest struct {
	CanvasWidth  int         `json:"canvas_width"`
	CanvasHeight int         `json:"canvas_height"`
	Scene        scene.Graph `json:"scene"`
}

const defaultCanvasSize = 1080

// LayoutSolve resolves a scene graph into absolute pixel rectangles. The
// endpoint is synchronous: solving is pure computation with no provider calls.
func (a *App) LayoutSolve(w http.ResponseWriter, r *http.Request) {
	var req layoutSolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.CanvasWidth <= 0 {
		req.CanvasWidth = defaultCanvasSize
	}
	if req.CanvasHeight <= 0 {
		req.CanvasHeight = defaultCanvasSize
	}
	result, err := layout.Solve(&req.Scene, req.CanvasWidth, req.CanvasHeight)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSceneGraph) {
			a.error(w, http.StatusUnprocessableEntity, "invalid_scene_graph", err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("layout solve failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to solve layout")
		return
	}
	a.json(w, http.StatusOK, result)
}
