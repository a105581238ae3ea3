package overlay

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowDismiss(t *testing.T) {
	o := NewOverlay()
	assert.False(t, o.Visible())
	assert.False(t, o.Dismiss(), "dismissing a hidden overlay is a no-op")
	rev := o.Revision()

	o.Show("  Art Piece 1: Description goes here. ")
	assert.True(t, o.Visible())
	assert.Equal(t, "Art Piece 1: Description goes here.", o.Text())
	assert.Greater(t, o.Revision(), rev)

	o.Show("replaced")
	assert.Equal(t, "replaced", o.Text())

	rev = o.Revision()
	assert.True(t, o.Dismiss())
	assert.False(t, o.Visible())
	assert.Greater(t, o.Revision(), rev)
}

func TestLayoutIsCentred(t *testing.T) {
	o := NewOverlay()
	o.Show("Integrantes do grupo: Arthur, Gustavo, Caio, Danilo, Kaua")

	l := o.Layout(1280, 720)
	centre := l.Panel.Min.Add(l.Panel.Max).Div(2)
	assert.InDelta(t, 640, centre.X, 1)
	assert.InDelta(t, 360, centre.Y, 1)
	assert.LessOrEqual(t, l.Panel.Dx(), 1024)
	assert.True(t, l.Close.In(l.Panel))
	assert.Greater(t, l.Close.Min.Y, l.TextOrigin.Y)
}

func TestLayoutWrapsLongText(t *testing.T) {
	o := NewOverlay()
	o.Show(strings.Repeat("word ", 100))

	l := o.Layout(400, 800)
	require.Greater(t, len(l.Lines), 1)
	for _, line := range l.Lines {
		assert.LessOrEqual(t, (len(line))*14, int(400*0.8)-40)
	}
}

func TestHitClose(t *testing.T) {
	o := NewOverlay()
	o.Show("hello")
	l := o.Layout(800, 600)
	c := l.Close.Min.Add(l.Close.Max).Div(2)

	assert.True(t, o.HitClose(float64(c.X), float64(c.Y), 800, 600))
	assert.False(t, o.HitClose(float64(l.Panel.Min.X+1), float64(l.Panel.Min.Y+1), 800, 600))
	assert.False(t, o.HitClose(5, 5, 800, 600))

	o.Dismiss()
	assert.False(t, o.HitClose(float64(c.X), float64(c.Y), 800, 600), "hidden overlay has no button")
}

func TestRasterize(t *testing.T) {
	o := NewOverlay()
	img, _ := o.Rasterize(800, 600)
	assert.Nil(t, img)

	o.Show("hello")
	img, l := o.Rasterize(800, 600)
	require.NotNil(t, img)
	assert.Equal(t, l.Panel.Size(), img.Bounds().Size())

	// rounded corner stays transparent, the body is the translucent background
	assert.Zero(t, img.RGBAAt(0, 0).A)
	mid := img.RGBAAt(img.Bounds().Dx()-3, img.Bounds().Dy()/2)
	assert.Equal(t, uint8(204), mid.A)

	// the button is filled
	b := l.Close.Sub(l.Panel.Min)
	assert.Equal(t, DefaultStyle().ButtonFill, img.RGBAAt(b.Min.X+2, b.Min.Y+2))

	// some text pixels are white
	text := image.Rectangle{Min: l.TextOrigin.Sub(l.Panel.Min), Max: b.Min.Add(image.Pt(b.Dx(), 0))}
	white := 0
	for y := text.Min.Y; y < text.Max.Y; y++ {
		for x := text.Min.X; x < text.Max.X; x++ {
			if img.RGBAAt(x, y).R == 255 && img.RGBAAt(x, y).A == 255 {
				white++
			}
		}
	}
	assert.Positive(t, white)
}

func TestWrapText(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		maxCols int
		want    []string
	}{
		{"empty", "", 10, nil},
		{"fits", "short text", 10, []string{"short text"}},
		{"wraps", "one two three", 7, []string{"one two", "three"}},
		{"hard split", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"newlines", "a\n\nb", 10, []string{"a", "", "b"}},
		{"trailing newline", "a\n", 10, []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, wrapText(tc.text, tc.maxCols))
		})
	}
}

func TestWithScale(t *testing.T) {
	small := NewOverlay(WithScale(1))
	big := NewOverlay(WithScale(3))
	small.Show("hello")
	big.Show("hello")

	assert.Less(t, small.Layout(800, 600).Panel.Dx(), big.Layout(800, 600).Panel.Dx())
	assert.Equal(t, 1, NewOverlay(WithScale(0)).Style().Scale)
}
