package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
)

// Options controls one compositing pass.
type Options struct {
	Mode   domain.IntegrationMode
	Device domain.DeviceType
	Bounds *domain.NormalizedBounds
	Accent color.RGBA
}

// Composite places the product image into the background according to the
// integration mode and returns a new buffer; neither input is mutated and
// the output always has the background's dimensions.
//
// device_mockup fills the resolved screen rectangle edge to edge (cropping
// the product as needed) behind a soft light-bleed glow. freestanding fits
// the product inside the rectangle and layers, back to front: ambient glow,
// drop shadow, product, reflection.
func Composite(background, product []byte, opts Options) (*image.RGBA, error) {
	bg, _, err := image.Decode(bytes.NewReader(background))
	if err != nil {
		return nil, fmt.Errorf("%w: decode background: %v", domain.ErrCompositing, err)
	}
	prod, _, err := image.Decode(bytes.NewReader(product))
	if err != nil {
		return nil, fmt.Errorf("%w: decode product: %v", domain.ErrCompositing, err)
	}

	bounds := resolveBounds(opts, bg.Bounds())
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: degenerate placement rectangle %v", domain.ErrCompositing, bounds)
	}

	out := image.NewRGBA(image.Rect(0, 0, bg.Bounds().Dx(), bg.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), bg, bg.Bounds().Min, draw.Src)

	switch opts.Mode {
	case domain.IntegrationDeviceMockup:
		compositeDevice(out, prod, bounds, opts.Accent)
	default:
		compositeFreestanding(out, prod, bounds, opts.Accent)
	}
	return out, nil
}

// resolveBounds converts normalized placement fractions to pixels against
// the actual background size, falling back to the mode's default region.
func resolveBounds(opts Options, bg image.Rectangle) image.Rectangle {
	nb := DefaultBounds(opts.Mode, opts.Device)
	if opts.Bounds != nil && opts.Bounds.Valid() {
		nb = *opts.Bounds
	}
	w, h := float64(bg.Dx()), float64(bg.Dy())
	x0 := int(nb.X * w)
	y0 := int(nb.Y * h)
	return image.Rect(x0, y0, x0+int(nb.Width*w), y0+int(nb.Height*h))
}

func compositeDevice(out *image.RGBA, prod image.Image, screen image.Rectangle, accent color.RGBA) {
	accent = orDefaultAccent(accent)

	// Light bleed behind the screen: a blurred, tinted rectangle slightly
	// larger than the screen, screen-blended so it only brightens.
	pad := screen.Dx() / 16
	if pad < 6 {
		pad = 6
	}
	glowRect := screen.Inset(-pad)
	layer := image.NewRGBA(glowRect.Inset(-pad))
	draw.Draw(layer, glowRect, &image.Uniform{color.RGBA{accent.R, accent.G, accent.B, 110}}, image.Point{}, draw.Src)
	boxBlur(layer, pad/2)
	blendScreen(out, layer)

	fitted := resizeCover(prod, screen.Dx(), screen.Dy())
	draw.Draw(out, screen, fitted, image.Point{}, draw.Over)
}

func compositeFreestanding(out *image.RGBA, prod image.Image, box image.Rectangle, accent color.RGBA) {
	accent = orDefaultAccent(accent)

	fitted := resizeContain(prod, box.Dx(), box.Dy())
	pw, ph := fitted.Bounds().Dx(), fitted.Bounds().Dy()
	px := box.Min.X + (box.Dx()-pw)/2
	py := box.Min.Y + (box.Dy()-ph)/2
	prodRect := image.Rect(px, py, px+pw, py+ph)

	// 1. Ambient glow centered on the actual product bounding box.
	glowRect := image.Rect(px-pw/5, py-ph/5, px+pw+pw/5, py+ph+ph/5)
	glow := image.NewRGBA(glowRect)
	fillEllipse(glow, glowRect, accent, 70)
	boxBlur(glow, maxPos(pw/24))
	blendScreen(out, glow)

	// 2. Drop shadow offset below the product, blurred.
	shadowH := ph / 6
	if shadowH < 8 {
		shadowH = 8
	}
	shadowW := pw * 9 / 10
	sx := px + (pw-shadowW)/2
	sy := py + ph - shadowH/2 + ph/25
	shadowRect := image.Rect(sx, sy, sx+shadowW, sy+shadowH)
	shadow := image.NewRGBA(shadowRect.Inset(-shadowH))
	fillEllipse(shadow, shadowRect, color.RGBA{0, 0, 0, 255}, 140)
	boxBlur(shadow, shadowH/3)
	blendOver(out, shadow)

	// 3. The product itself.
	draw.Draw(out, prodRect, fitted, image.Point{}, draw.Over)

	// 4. Faint reflection in a strip immediately below.
	drawReflection(out, fitted, px, py+ph)
}

// drawReflection mirrors the bottom of the product into a short strip under
// it, fading out toward the bottom.
func drawReflection(out *image.RGBA, fitted *image.RGBA, x, top int) {
	pw := fitted.Bounds().Dx()
	ph := fitted.Bounds().Dy()
	stripH := ph / 4
	if stripH <= 0 {
		return
	}
	layer := image.NewRGBA(image.Rect(x, top+2, x+pw, top+2+stripH))
	for row := 0; row < stripH; row++ {
		srcY := ph - 1 - row
		fade := uint32(56 * (stripH - row) / stripH)
		for col := 0; col < pw; col++ {
			si := fitted.PixOffset(col, srcY)
			sa := uint32(fitted.Pix[si+3])
			if sa == 0 {
				continue
			}
			di := layer.PixOffset(x+col, top+2+row)
			layer.Pix[di] = fitted.Pix[si]
			layer.Pix[di+1] = fitted.Pix[si+1]
			layer.Pix[di+2] = fitted.Pix[si+2]
			layer.Pix[di+3] = uint8(sa * fade / 255)
		}
	}
	blendOver(out, layer)
}

func orDefaultAccent(c color.RGBA) color.RGBA {
	if c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return c
}

// ParseHexColor parses "#RRGGBB" (case-insensitive, the hash optional) into
// an opaque RGBA color. Invalid input returns ok=false with a zero color.
func ParseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}
