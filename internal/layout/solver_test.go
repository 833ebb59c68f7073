package layout

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/scene"
)

func TestSolveRejectsInvalidGraph(t *testing.T) {
	_, err := Solve(&scene.Graph{}, 1080, 1080)
	if !errors.Is(err, domain.ErrInvalidSceneGraph) {
		t.Fatalf("expected ErrInvalidSceneGraph, got %v", err)
	}

	g := &scene.Graph{
		Elements:  []scene.Element{{ID: "headline", Kind: scene.KindText}},
		Relations: []scene.Relation{{From: "headline", To: "ghost", Kind: scene.RelAbove}},
	}
	if _, err := Solve(g, 1080, 1080); !errors.Is(err, domain.ErrInvalidSceneGraph) {
		t.Fatalf("expected ErrInvalidSceneGraph for unknown relation target, got %v", err)
	}
}

func TestSolveHeadlineAboveProduct(t *testing.T) {
	g := &scene.Graph{
		Elements: []scene.Element{
			{ID: "product", Kind: scene.KindProduct},
			{ID: "headline", Kind: scene.KindText},
			{ID: "subline", Kind: scene.KindText},
		},
		Relations: []scene.Relation{
			{From: "headline", To: "product", Kind: scene.RelAbove},
			{From: "subline", To: "product", Kind: scene.RelBelow},
		},
	}

	res, err := Solve(g, 1080, 1080)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}

	product := res.Elements["product"]
	headline := res.Elements["headline"]
	subline := res.Elements["subline"]

	if headline.Bottom() != product.Y-20 {
		t.Fatalf("headline bottom = %d, want gap of 20 above product top %d", headline.Bottom(), product.Y)
	}
	if headline.CenterX() != product.CenterX() {
		t.Fatalf("headline centerX = %d, want %d", headline.CenterX(), product.CenterX())
	}
	if subline.Y != product.Bottom()+20 {
		t.Fatalf("subline top = %d, want %d", subline.Y, product.Bottom()+20)
	}
	for id, rect := range res.Elements {
		if rect.X < 0 || rect.Y < 0 || rect.Right() > 1080 || rect.Bottom() > 1080 {
			t.Fatalf("element %s out of canvas: %+v", id, rect)
		}
	}
}

func TestSolveDeterministic(t *testing.T) {
	g := &scene.Graph{
		Elements: []scene.Element{
			{ID: "product", Kind: scene.KindProduct},
			{ID: "headline", Kind: scene.KindText},
			{ID: "cta", Kind: scene.KindCTA},
		},
		Relations: []scene.Relation{
			{From: "headline", To: "product", Kind: scene.RelAbove},
			{From: "cta", To: "product", Kind: scene.RelBelow},
		},
	}

	first, err := Solve(g, 1080, 1080)
	if err != nil {
		t.Fatalf("first solve: %v", err)
	}
	second, err := Solve(g, 1080, 1080)
	if err != nil {
		t.Fatalf("second solve: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("solve is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSolveSideBySideNoOverlapWarning(t *testing.T) {
	// 460x600 panels at x=60 and x=560 on a 1080 canvas do not overlap.
	g := &scene.Graph{
		Elements: []scene.Element{
			{ID: "before_image", Kind: scene.KindImage, Width: 460, Height: 600,
				Anchor: &scene.Anchor{X: 290.0 / 1080.0, Y: 540.0 / 1080.0}},
			{ID: "after_image", Kind: scene.KindImage, Width: 460, Height: 600,
				Anchor: &scene.Anchor{X: 790.0 / 1080.0, Y: 540.0 / 1080.0}},
		},
	}

	res, err := Solve(g, 1080, 1080)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	before := res.Elements["before_image"]
	after := res.Elements["after_image"]
	if before.X != 60 || after.X != 560 {
		t.Fatalf("panels at x=%d and x=%d, want 60 and 560", before.X, after.X)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
}

func TestSolveOverlapWarningNamesBothIDs(t *testing.T) {
	g := &scene.Graph{
		Elements: []scene.Element{
			{ID: "hero", Kind: scene.KindImage, Width: 400, Height: 400,
				Anchor: &scene.Anchor{X: 0.5, Y: 0.5}},
			{ID: "badge", Kind: scene.KindShape, Width: 400, Height: 400,
				Anchor: &scene.Anchor{X: 0.55, Y: 0.5}},
		},
	}

	res, err := Solve(g, 1080, 1080)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one overlap warning, got %v", res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], "'hero'") || !strings.Contains(res.Warnings[0], "'badge'") {
		t.Fatalf("warning should name both ids: %s", res.Warnings[0])
	}
}

func TestSolveOverlayRelationSuppressesOverlapWarning(t *testing.T) {
	g := &scene.Graph{
		Elements: []scene.Element{
			{ID: "hero", Kind: scene.KindImage, Width: 400, Height: 400,
				Anchor: &scene.Anchor{X: 0.5, Y: 0.5}},
			{ID: "badge", Kind: scene.KindShape, Width: 400, Height: 400,
				Anchor: &scene.Anchor{X: 0.55, Y: 0.5}},
		},
		// Reverse direction on purpose; overlay is order-independent.
		Relations: []scene.Relation{{From: "hero", To: "badge", Kind: scene.RelOverlay}},
	}

	res, err := Solve(g, 1080, 1080)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("overlay pair should not warn, got %v", res.Warnings)
	}
}

func TestSolveBoundsWarnings(t *testing.T) {
	g := &scene.Graph{
		Elements: []scene.Element{
			{ID: "offleft", Kind: scene.KindShape, Width: 200, Height: 200,
				Anchor: &scene.Anchor{X: 0, Y: 0.5}},
			{ID: "offbottom", Kind: scene.KindShape, Width: 200, Height: 200,
				Anchor: &scene.Anchor{X: 0.5, Y: 1}},
		},
	}

	res, err := Solve(g, 1080, 1080)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	want := []string{
		"Element 'offleft' has negative position",
		"Element 'offbottom' extends beyond canvas",
	}
	if !reflect.DeepEqual(res.Warnings, want) {
		t.Fatalf("warnings = %v, want %v", res.Warnings, want)
	}
}
