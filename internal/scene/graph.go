package scene

import (
	"fmt"
	"strings"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
)

// ElementKind classifies what a semantic element renders as.
type ElementKind string

const (
	KindText    ElementKind = "text"
	KindImage   ElementKind = "image"
	KindShape   ElementKind = "shape"
	KindCTA     ElementKind = "cta"
	KindProduct ElementKind = "product"
)

// Anchor is an explicit fractional placement on the canvas.
type Anchor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Element is one semantic content unit of a scene graph. Sizing may be given
// in absolute pixels or as a fraction of the canvas dimension; fractional
// sizing wins when both are set. Style hints are carried opaquely, layout
// never inspects them.
type Element struct {
	ID         string            `json:"id"`
	Kind       ElementKind       `json:"type"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	WidthFrac  float64           `json:"width_frac,omitempty"`
	HeightFrac float64           `json:"height_frac,omitempty"`
	Anchor     *Anchor           `json:"anchor,omitempty"`
	Style      map[string]string `json:"style,omitempty"`
}

// RelationKind enumerates the directed placement constraints.
type RelationKind string

const (
	RelAbove         RelationKind = "above"
	RelBelow         RelationKind = "below"
	RelLeftOf        RelationKind = "left_of"
	RelRightOf       RelationKind = "right_of"
	RelOverlay       RelationKind = "overlay"
	RelAlignedCenter RelationKind = "aligned_center"
)

// Relation is a directed constraint: From is placed relative to To. Ordering
// relations are advisory hints consumed best-effort; overlay marks a pair as
// intentionally stacked so overlap diagnostics skip it.
type Relation struct {
	From string       `json:"from"`
	To   string       `json:"to"`
	Kind RelationKind `json:"type"`
}

// Graph is a full scene description independent of pixel coordinates.
type Graph struct {
	Elements  []Element  `json:"elements"`
	Relations []Relation `json:"relations,omitempty"`
}

// Validate checks structural invariants: a non-empty element set, unique
// identifiers, and relations that only reference known elements.
func (g *Graph) Validate() error {
	if g == nil || len(g.Elements) == 0 {
		return fmt.Errorf("%w: element set is empty", domain.ErrInvalidSceneGraph)
	}
	seen := make(map[string]struct{}, len(g.Elements))
	for _, el := range g.Elements {
		id := strings.TrimSpace(el.ID)
		if id == "" {
			return fmt.Errorf("%w: element with empty id", domain.ErrInvalidSceneGraph)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate element id %q", domain.ErrInvalidSceneGraph, id)
		}
		seen[id] = struct{}{}
	}
	for _, rel := range g.Relations {
		if _, ok := seen[rel.From]; !ok {
			return fmt.Errorf("%w: relation references unknown element %q", domain.ErrInvalidSceneGraph, rel.From)
		}
		if _, ok := seen[rel.To]; !ok {
			return fmt.Errorf("%w: relation references unknown element %q", domain.ErrInvalidSceneGraph, rel.To)
		}
	}
	return nil
}

// OverlayPairs returns the set of unordered element pairs linked by an
// overlay relation, keyed by PairKey.
func (g *Graph) OverlayPairs() map[string]struct{} {
	pairs := make(map[string]struct{})
	for _, rel := range g.Relations {
		if rel.Kind == RelOverlay {
			pairs[PairKey(rel.From, rel.To)] = struct{}{}
		}
	}
	return pairs
}

// PairKey builds an order-independent key for an element pair.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
