package effects

import (
	"image"
	"image/color"
	"math/rand"
	"time"
)

// Pipeline applies named post-processing passes to a raster buffer. The
// random source behind sparkle and snow scatter is injectable so tests can
// fix a seed while production runs with real entropy.
type Pipeline struct {
	rng *rand.Rand
}

// New constructs a pipeline around the given random source. A nil source
// falls back to a time-seeded generator.
func New(rng *rand.Rand) *Pipeline {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Pipeline{rng: rng}
}

type effectFunc func(p *Pipeline, img *image.RGBA, accent color.RGBA)

var registry = map[string]effectFunc{
	"glow":           (*Pipeline).glow,
	"sparkles":       (*Pipeline).sparkles,
	"snow":           (*Pipeline).snow,
	"snow_particles": (*Pipeline).snow,
	"light_rays":     (*Pipeline).lightRays,
	"reflection":     (*Pipeline).reflection,
}

// Apply runs the named effects strictly in order, each pass consuming the
// previous one's output. Unknown names are silently skipped. The result is a
// new buffer with the input's exact dimensions; the input is not mutated.
func (p *Pipeline) Apply(img *image.RGBA, names []string, accent color.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	if accent.A == 0 {
		accent = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	for _, name := range names {
		if fn, ok := registry[name]; ok {
			fn(p, out, accent)
		}
	}
	return out
}

// screenPx brightens one pixel channel-wise with the given tint and alpha.
func screenPx(img *image.RGBA, x, y int, tint color.RGBA, alpha uint32) {
	if alpha == 0 || !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	i := img.PixOffset(x, y)
	src := [3]uint32{uint32(tint.R), uint32(tint.G), uint32(tint.B)}
	for c := 0; c < 3; c++ {
		d := uint32(img.Pix[i+c])
		screen := 255 - (255-d)*(255-src[c])/255
		img.Pix[i+c] = uint8(d + (screen-d)*alpha/255)
	}
}

// overPx alpha-blends the tint over one pixel.
func overPx(img *image.RGBA, x, y int, tint color.RGBA, alpha uint32) {
	if alpha == 0 || !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	i := img.PixOffset(x, y)
	src := [3]uint32{uint32(tint.R), uint32(tint.G), uint32(tint.B)}
	for c := 0; c < 3; c++ {
		d := uint32(img.Pix[i+c])
		img.Pix[i+c] = uint8((src[c]*alpha + d*(255-alpha)) / 255)
	}
}
