package overlay

import (
	"image"
	"image/color"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// rasterize draws the panel described by l into an image the size of l.Panel.
func rasterize(l Layout, s Style) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, l.Panel.Dx(), l.Panel.Dy()))
	fillRounded(img, s.Background, s.CornerRadius)

	origin := l.TextOrigin.Sub(l.Panel.Min)
	for i, line := range l.Lines {
		drawLine(img, line, origin.Add(image.Pt(0, i*l.LineHeight)), s.Foreground, s.Scale)
	}

	button := l.Close.Sub(l.Panel.Min)
	draw.Draw(img, button, image.NewUniform(s.ButtonFill), image.Point{}, draw.Src)
	strokeRect(img, button, color.RGBA{R: 118, G: 118, B: 118, A: 255})
	label := image.Pt(button.Min.X+s.ButtonPadX, button.Min.Y+s.ButtonPadY)
	drawLine(img, s.CloseLabel, label, s.ButtonText, s.Scale)

	return img
}

// drawLine renders a single line with the 7x13 bitmap font at 1x and scales it onto dst with
// nearest-neighbour sampling so glyph edges stay sharp.
func drawLine(dst *image.RGBA, text string, at image.Point, c color.RGBA, scale int) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	line := image.NewRGBA(image.Rect(0, 0, utf8.RuneCountInString(text)*face.Advance, face.Height))

	d := font.Drawer{
		Dst:  line,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	target := image.Rectangle{Min: at, Max: at.Add(line.Bounds().Size().Mul(scale))}
	draw.NearestNeighbor.Scale(dst, target, line, line.Bounds(), draw.Over, nil)
}

// fillRounded fills the whole image with c, leaving the corners outside radius r transparent.
func fillRounded(img *image.RGBA, c color.RGBA, r int) {
	b := img.Bounds()
	r = min(r, b.Dx()/2, b.Dy()/2)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if outsideCorner(x-b.Min.X, y-b.Min.Y, b.Dx(), b.Dy(), r) {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}

// outsideCorner reports whether pixel (x, y) of a w×h rectangle falls outside its rounded corners.
func outsideCorner(x, y, w, h, r int) bool {
	if r <= 0 {
		return false
	}
	cx, cy := -1, -1
	switch {
	case x < r:
		cx = r
	case x >= w-r:
		cx = w - r - 1
	}
	switch {
	case y < r:
		cy = r
	case y >= h-r:
		cy = h - r - 1
	}
	if cx < 0 || cy < 0 {
		return false
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy > r*r
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}
