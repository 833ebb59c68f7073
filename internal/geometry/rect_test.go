package geometry

import "testing"

func TestIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 50, Y: 50, Width: 100, Height: 100}

	got := a.Intersect(b)
	want := Rect{X: 50, Y: 50, Width: 50, Height: 50}
	if got != want {
		t.Fatalf("intersect = %+v, want %+v", got, want)
	}
	if got.Area() != 2500 {
		t.Fatalf("intersect area = %d, want 2500", got.Area())
	}
}

func TestIntersectDisjoint(t *testing.T) {
	a := Rect{X: 60, Y: 240, Width: 460, Height: 600}
	b := Rect{X: 560, Y: 240, Width: 460, Height: 600}
	if got := a.Intersect(b); !got.Empty() {
		t.Fatalf("disjoint rectangles intersect = %+v", got)
	}
	if OverlapRatio(a, b) != 0 {
		t.Fatalf("overlap ratio for disjoint rects = %f", OverlapRatio(a, b))
	}
}

func TestUnion(t *testing.T) {
	a := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	b := Rect{X: 40, Y: 5, Width: 10, Height: 10}
	got := a.Union(b)
	want := Rect{X: 10, Y: 5, Width: 40, Height: 25}
	if got != want {
		t.Fatalf("union = %+v, want %+v", got, want)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Fatalf("union with empty = %+v, want %+v", got, b)
	}
}

func TestContains(t *testing.T) {
	canvas := Rect{X: 0, Y: 0, Width: 1080, Height: 1080}
	inner := Rect{X: 100, Y: 100, Width: 400, Height: 200}
	if !canvas.Contains(inner) {
		t.Fatal("canvas should contain inner rect")
	}
	spill := Rect{X: 900, Y: 100, Width: 400, Height: 200}
	if canvas.Contains(spill) {
		t.Fatal("canvas should not contain spilling rect")
	}
}

func TestOverlapRatio(t *testing.T) {
	big := Rect{X: 0, Y: 0, Width: 200, Height: 200}
	small := Rect{X: 150, Y: 0, Width: 100, Height: 100}
	// Intersection is 50x100 = 5000, smaller area is 10000.
	if got := OverlapRatio(big, small); got != 0.5 {
		t.Fatalf("overlap ratio = %f, want 0.5", got)
	}
	if got := OverlapRatio(big, Rect{}); got != 0 {
		t.Fatalf("overlap ratio with empty = %f, want 0", got)
	}
}
