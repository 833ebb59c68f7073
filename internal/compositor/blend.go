package compositor

import (
	"image"
	"image/color"
)

// blendScreen composites src over dst using a screen blend weighted by the
// source alpha, so overlays brighten rather than darken the base image.
func blendScreen(dst, src *image.RGBA) {
	b := dst.Bounds().Intersect(src.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := src.PixOffset(x, y)
			sa := uint32(src.Pix[si+3])
			if sa == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				d := uint32(dst.Pix[di+c])
				s := uint32(src.Pix[si+c])
				screen := 255 - (255-d)*(255-s)/255
				dst.Pix[di+c] = uint8(d + (screen-d)*sa/255)
			}
		}
	}
}

// blendOver composites src over dst with standard alpha blending.
func blendOver(dst, src *image.RGBA) {
	b := dst.Bounds().Intersect(src.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := src.PixOffset(x, y)
			sa := uint32(src.Pix[si+3])
			if sa == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				d := uint32(dst.Pix[di+c])
				s := uint32(src.Pix[si+c])
				dst.Pix[di+c] = uint8((s*sa + d*(255-sa)) / 255)
			}
			da := uint32(dst.Pix[di+3])
			dst.Pix[di+3] = uint8(sa + da*(255-sa)/255)
		}
	}
}

// boxBlur applies a two-pass box blur in place. Radius zero is a no-op.
func boxBlur(img *image.RGBA, radius int) {
	if radius <= 0 {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewRGBA(b)

	// Horizontal pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]uint32
			count := uint32(0)
			for k := -radius; k <= radius; k++ {
				xx := x + k
				if xx < 0 || xx >= w {
					continue
				}
				i := img.PixOffset(b.Min.X+xx, b.Min.Y+y)
				for c := 0; c < 4; c++ {
					sum[c] += uint32(img.Pix[i+c])
				}
				count++
			}
			o := tmp.PixOffset(b.Min.X+x, b.Min.Y+y)
			for c := 0; c < 4; c++ {
				tmp.Pix[o+c] = uint8(sum[c] / count)
			}
		}
	}

	// Vertical pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]uint32
			count := uint32(0)
			for k := -radius; k <= radius; k++ {
				yy := y + k
				if yy < 0 || yy >= h {
					continue
				}
				i := tmp.PixOffset(b.Min.X+x, b.Min.Y+yy)
				for c := 0; c < 4; c++ {
					sum[c] += uint32(tmp.Pix[i+c])
				}
				count++
			}
			o := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			for c := 0; c < 4; c++ {
				img.Pix[o+c] = uint8(sum[c] / count)
			}
		}
	}
}

// fillEllipse paints an axis-aligned ellipse with alpha falling off toward
// the rim, producing a soft radial gradient rather than a hard disc.
func fillEllipse(img *image.RGBA, bounds image.Rectangle, tint color.RGBA, maxAlpha uint8) {
	cx := float64(bounds.Min.X+bounds.Max.X) / 2
	cy := float64(bounds.Min.Y+bounds.Max.Y) / 2
	rx := float64(bounds.Dx()) / 2
	ry := float64(bounds.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	clip := img.Bounds().Intersect(bounds)
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			dist := dx*dx + dy*dy
			if dist >= 1 {
				continue
			}
			alpha := float64(maxAlpha) * (1 - dist)
			i := img.PixOffset(x, y)
			img.Pix[i] = tint.R
			img.Pix[i+1] = tint.G
			img.Pix[i+2] = tint.B
			img.Pix[i+3] = uint8(alpha)
		}
	}
}
