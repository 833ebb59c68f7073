package compositor

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// resizeCover scales src so it completely fills w×h, cropping the overflow
// symmetrically. Used by device mockups where the screen must be filled
// edge to edge.
func resizeCover(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw == 0 || sh == 0 || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, maxPos(w), maxPos(h)))
	}

	scale := float64(w) / float64(sw)
	if s := float64(h) / float64(sh); s > scale {
		scale = s
	}
	scaledW := int(float64(sw)*scale + 0.5)
	scaledH := int(float64(sh)*scale + 0.5)
	if scaledW < w {
		scaledW = w
	}
	if scaledH < h {
		scaledH = h
	}

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, sb, xdraw.Src, nil)

	// Center crop to the target size.
	offX := (scaledW - w) / 2
	offY := (scaledH - h) / 2
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Copy(out, image.Point{}, scaled, image.Rect(offX, offY, offX+w, offY+h), xdraw.Src, nil)
	return out
}

// resizeContain scales src preserving aspect ratio so it fits within w×h.
// The returned image has the fitted size, not the box size; callers center
// it themselves so the true product bounding box stays known for glow,
// shadow and reflection placement.
func resizeContain(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw == 0 || sh == 0 || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	scale := float64(w) / float64(sw)
	if s := float64(h) / float64(sh); s < scale {
		scale = s
	}
	fw := int(float64(sw)*scale + 0.5)
	fh := int(float64(sh)*scale + 0.5)
	if fw < 1 {
		fw = 1
	}
	if fh < 1 {
		fh = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, fw, fh))
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, sb, xdraw.Src, nil)
	return out
}

func maxPos(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
