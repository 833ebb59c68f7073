package layout

import (
	"fmt"
	"math"

	"github.com/blackrubyde-web/adruby-sub008/internal/geometry"
	"github.com/blackrubyde-web/adruby-sub008/internal/scene"
)

const (
	// DefaultCanvas is the square canvas side used when the caller does not
	// specify dimensions.
	DefaultCanvas = 1080

	// canvasPadding keeps stacked elements away from the canvas edges.
	canvasPadding = 40
	// relationGap separates elements linked by an ordering relation.
	relationGap = 20

	overlapThreshold = 0.5
)

// sizePreset holds fractional default dimensions per element kind, applied
// when an element carries no sizing hints of its own.
type sizePreset struct {
	w, h float64
}

var sizePresets = map[scene.ElementKind]sizePreset{
	scene.KindText:    {w: 0.80, h: 0.12},
	scene.KindCTA:     {w: 0.32, h: 0.08},
	scene.KindImage:   {w: 0.50, h: 0.42},
	scene.KindProduct: {w: 0.50, h: 0.42},
	scene.KindShape:   {w: 0.25, h: 0.25},
}

// Result maps element identifiers to resolved pixel rectangles. Warnings are
// advisory diagnostics in a stable order; they never abort a solve.
type Result struct {
	Elements map[string]geometry.Rect `json:"elements"`
	Warnings []string                 `json:"warnings"`
}

type placementMode int

const (
	modeStack placementMode = iota
	modeAnchor
	modeRelation
)

// Solve converts a scene graph into absolute pixel rectangles on the given
// canvas. Placement priority per element: explicit anchor, then an ordering
// relation to an already-placed neighbor, then vertical stacking in
// declaration order. The stack of fallback elements is centered vertically on
// the canvas so relation-derived neighbors have room on either side.
//
// Solving is deterministic: elements and relations are walked in input order
// only, so the same graph and canvas always produce an identical Result.
func Solve(graph *scene.Graph, canvasWidth, canvasHeight int) (*Result, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if canvasWidth <= 0 {
		canvasWidth = DefaultCanvas
	}
	if canvasHeight <= 0 {
		canvasHeight = DefaultCanvas
	}

	// First pass: resolve sizes and decide each element's placement mode so
	// the fallback stack height is known before anything is positioned.
	indexOf := make(map[string]int, len(graph.Elements))
	for i, el := range graph.Elements {
		indexOf[el.ID] = i
	}
	sizes := make([]geometry.Rect, len(graph.Elements))
	modes := make([]placementMode, len(graph.Elements))
	stackHeight := 0
	for i, el := range graph.Elements {
		w, h := resolveSize(el, canvasWidth, canvasHeight)
		sizes[i] = geometry.Rect{Width: w, Height: h}
		modes[i] = placementModeFor(graph, el, i, indexOf)
		if modes[i] == modeStack {
			if stackHeight > 0 {
				stackHeight += relationGap
			}
			stackHeight += h
		}
	}

	stackY := (canvasHeight - stackHeight) / 2
	if stackY < canvasPadding {
		stackY = canvasPadding
	}

	// Second pass: place in declaration order.
	placed := make(map[string]geometry.Rect, len(graph.Elements))
	for i, el := range graph.Elements {
		w, h := sizes[i].Width, sizes[i].Height
		var rect geometry.Rect
		switch modes[i] {
		case modeAnchor:
			rect = anchorRect(el, w, h, canvasWidth, canvasHeight)
		case modeRelation:
			rect = relationRect(graph, el.ID, w, h, placed, stackY)
		default:
			rect = geometry.Rect{X: (canvasWidth - w) / 2, Y: stackY, Width: w, Height: h}
			stackY += h + relationGap
		}
		placed[el.ID] = rect
	}

	res := &Result{Elements: placed, Warnings: []string{}}
	appendBoundsWarnings(res, graph, canvasWidth, canvasHeight)
	appendOverlapWarnings(res, graph)
	return res, nil
}

// placementModeFor picks the placement strategy for one element. A relation
// only counts when its target is declared earlier, since later targets are
// not yet placed when this element's turn comes; ordering relations are
// hints, not hard constraints.
func placementModeFor(graph *scene.Graph, el scene.Element, idx int, indexOf map[string]int) placementMode {
	if el.Anchor != nil {
		return modeAnchor
	}
	for _, rel := range graph.Relations {
		if rel.From != el.ID {
			continue
		}
		if ti, ok := indexOf[rel.To]; ok && ti < idx {
			return modeRelation
		}
	}
	return modeStack
}

func resolveSize(el scene.Element, canvasW, canvasH int) (int, int) {
	preset, ok := sizePresets[el.Kind]
	if !ok {
		preset = sizePreset{w: 0.40, h: 0.20}
	}
	w := fracPx(preset.w, canvasW)
	h := fracPx(preset.h, canvasH)
	if el.WidthFrac > 0 {
		w = fracPx(el.WidthFrac, canvasW)
	} else if el.Width > 0 {
		w = el.Width
	}
	if el.HeightFrac > 0 {
		h = fracPx(el.HeightFrac, canvasH)
	} else if el.Height > 0 {
		h = el.Height
	}
	return w, h
}

func fracPx(frac float64, dim int) int {
	return int(math.Round(frac * float64(dim)))
}

// anchorRect treats the anchor as the element's center point.
func anchorRect(el scene.Element, w, h, canvasW, canvasH int) geometry.Rect {
	cx := fracPx(el.Anchor.X, canvasW)
	cy := fracPx(el.Anchor.Y, canvasH)
	return geometry.Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

// relationRect derives a rectangle from the first relation whose source is
// this element and whose target is already placed.
func relationRect(graph *scene.Graph, id string, w, h int, placed map[string]geometry.Rect, stackY int) geometry.Rect {
	for _, rel := range graph.Relations {
		if rel.From != id {
			continue
		}
		target, ok := placed[rel.To]
		if !ok {
			continue
		}
		switch rel.Kind {
		case scene.RelAbove:
			return geometry.Rect{X: target.CenterX() - w/2, Y: target.Y - relationGap - h, Width: w, Height: h}
		case scene.RelBelow:
			return geometry.Rect{X: target.CenterX() - w/2, Y: target.Bottom() + relationGap, Width: w, Height: h}
		case scene.RelLeftOf:
			return geometry.Rect{X: target.X - relationGap - w, Y: target.CenterY() - h/2, Width: w, Height: h}
		case scene.RelRightOf:
			return geometry.Rect{X: target.Right() + relationGap, Y: target.CenterY() - h/2, Width: w, Height: h}
		case scene.RelOverlay:
			return geometry.Rect{X: target.CenterX() - w/2, Y: target.CenterY() - h/2, Width: w, Height: h}
		case scene.RelAlignedCenter:
			return geometry.Rect{X: target.CenterX() - w/2, Y: stackY, Width: w, Height: h}
		}
	}
	return geometry.Rect{X: 0, Y: stackY, Width: w, Height: h}
}

func appendBoundsWarnings(res *Result, graph *scene.Graph, canvasW, canvasH int) {
	for _, el := range graph.Elements {
		rect := res.Elements[el.ID]
		if rect.X < 0 || rect.Y < 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Element '%s' has negative position", el.ID))
		}
		if rect.Right() > canvasW || rect.Bottom() > canvasH {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Element '%s' extends beyond canvas", el.ID))
		}
	}
}

func appendOverlapWarnings(res *Result, graph *scene.Graph) {
	overlay := graph.OverlayPairs()
	for i := 0; i < len(graph.Elements); i++ {
		for j := i + 1; j < len(graph.Elements); j++ {
			a, b := graph.Elements[i], graph.Elements[j]
			if _, intentional := overlay[scene.PairKey(a.ID, b.ID)]; intentional {
				continue
			}
			ratio := geometry.OverlapRatio(res.Elements[a.ID], res.Elements[b.ID])
			if ratio > overlapThreshold {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("Elements '%s' and '%s' overlap beyond 50%% of the smaller area", a.ID, b.ID))
			}
		}
	}
}
