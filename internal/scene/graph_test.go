package scene

import (
	"errors"
	"testing"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
)

func TestValidateEmptyGraph(t *testing.T) {
	g := &Graph{}
	if err := g.Validate(); !errors.Is(err, domain.ErrInvalidSceneGraph) {
		t.Fatalf("expected ErrInvalidSceneGraph, got %v", err)
	}
}

func TestValidateUnknownRelationTarget(t *testing.T) {
	g := &Graph{
		Elements:  []Element{{ID: "headline", Kind: KindText}},
		Relations: []Relation{{From: "headline", To: "product", Kind: RelAbove}},
	}
	err := g.Validate()
	if !errors.Is(err, domain.ErrInvalidSceneGraph) {
		t.Fatalf("expected ErrInvalidSceneGraph, got %v", err)
	}
}

func TestValidateDuplicateID(t *testing.T) {
	g := &Graph{Elements: []Element{
		{ID: "cta", Kind: KindCTA},
		{ID: "cta", Kind: KindText},
	}}
	if err := g.Validate(); !errors.Is(err, domain.ErrInvalidSceneGraph) {
		t.Fatalf("expected ErrInvalidSceneGraph, got %v", err)
	}
}

func TestValidateOK(t *testing.T) {
	g := &Graph{
		Elements: []Element{
			{ID: "headline", Kind: KindText},
			{ID: "product", Kind: KindProduct},
		},
		Relations: []Relation{{From: "headline", To: "product", Kind: RelAbove}},
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOverlayPairsOrderIndependent(t *testing.T) {
	g := &Graph{
		Elements: []Element{
			{ID: "badge", Kind: KindShape},
			{ID: "product", Kind: KindProduct},
		},
		Relations: []Relation{{From: "badge", To: "product", Kind: RelOverlay}},
	}
	pairs := g.OverlayPairs()
	if _, ok := pairs[PairKey("product", "badge")]; !ok {
		t.Fatal("overlay pair should match regardless of argument order")
	}
}
