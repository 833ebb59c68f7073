package effects

import (
	"image"
	"image/color"
	"math"
)

// glow paints a radial gradient centered slightly above canvas center with a
// screen blend, capped at roughly a quarter-strength opacity band.
func (p *Pipeline) glow(img *image.RGBA, accent color.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cx := float64(b.Min.X) + float64(w)/2
	cy := float64(b.Min.Y) + float64(h)*0.4
	radius := float64(w) * 0.55

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist := math.Sqrt(dx*dx+dy*dy) / radius
			if dist >= 1 {
				continue
			}
			alpha := uint32(64 * (1 - dist))
			screenPx(img, x, y, accent, alpha)
		}
	}
}

// sparkles scatters small bright markers across the upper canvas; roughly a
// third of them get cross-shaped flares. Scatter positions come from the
// pipeline's random source.
func (p *Pipeline) sparkles(img *image.RGBA, accent color.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	n := 12 + p.rng.Intn(8)

	for i := 0; i < n; i++ {
		x := b.Min.X + p.rng.Intn(w)
		y := b.Min.Y + p.rng.Intn(maxInt(1, h*2/5))
		r := 1 + p.rng.Intn(2)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r*r {
					continue
				}
				screenPx(img, x+dx, y+dy, white, 220)
			}
		}
		if i%3 == 0 {
			flare := 3 + p.rng.Intn(5)
			for d := 1; d <= flare; d++ {
				fade := uint32(180 * (flare - d + 1) / (flare + 1))
				screenPx(img, x+d, y, white, fade)
				screenPx(img, x-d, y, white, fade)
				screenPx(img, x, y+d, white, fade)
				screenPx(img, x, y-d, white, fade)
			}
		}
	}
}

// snow scatters low-opacity dots across the full canvas with a normal blend.
func (p *Pipeline) snow(img *image.RGBA, accent color.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	white := color.RGBA{R: 250, G: 250, B: 252, A: 255}
	n := 40 + p.rng.Intn(24)

	for i := 0; i < n; i++ {
		x := b.Min.X + p.rng.Intn(w)
		y := b.Min.Y + p.rng.Intn(h)
		r := p.rng.Intn(2)
		alpha := uint32(40 + p.rng.Intn(30))
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				overPx(img, x+dx, y+dy, white, alpha)
			}
		}
	}
}

// lightRays draws two or three semi-transparent wedges converging toward a
// point above the canvas, screen-blended like directional light.
func (p *Pipeline) lightRays(img *image.RGBA, accent color.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	apexY := float64(b.Min.Y) - float64(h)*0.2
	rays := []struct {
		apexX float64
		slope float64
	}{
		{apexX: float64(b.Min.X) + float64(w)*0.30, slope: -0.12},
		{apexX: float64(b.Min.X) + float64(w)*0.55, slope: 0.05},
		{apexX: float64(b.Min.X) + float64(w)*0.75, slope: 0.18},
	}
	rays = rays[:2+p.rng.Intn(2)]

	for _, ray := range rays {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			dist := float64(y) - apexY
			center := ray.apexX + ray.slope*dist
			halfWidth := dist * 0.09
			if halfWidth <= 0 {
				continue
			}
			vertFade := 1 - float64(y-b.Min.Y)/float64(h)
			for x := int(center - halfWidth); x <= int(center+halfWidth); x++ {
				edge := 1 - math.Abs(float64(x)-center)/halfWidth
				alpha := uint32(38 * edge * vertFade)
				screenPx(img, x, y, accent, alpha)
			}
		}
	}
}

// reflection lays a faint white gradient strip over the lower canvas,
// simulating a glossy floor.
func (p *Pipeline) reflection(img *image.RGBA, accent color.RGBA) {
	b := img.Bounds()
	h := b.Dy()
	start := b.Max.Y - h/4
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	for y := start; y < b.Max.Y; y++ {
		alpha := uint32(36 * (y - start) / maxInt(1, b.Max.Y-start))
		for x := b.Min.X; x < b.Max.X; x++ {
			overPx(img, x, y, white, alpha)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
