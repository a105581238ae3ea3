package overlay

import (
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font/basicfont"
)

// Style controls the look and size of the panel. Pixel sizes are in viewport pixels.
type Style struct {
	// Scale is the integer magnification applied to the 7x13 bitmap font.
	Scale int
	// Padding is the space between the panel border and its content.
	Padding int
	// ButtonPadX and ButtonPadY are the space around the Close label inside the button.
	ButtonPadX, ButtonPadY int
	// ButtonGap is the vertical space between the text and the button.
	ButtonGap int
	// CornerRadius rounds the panel corners.
	CornerRadius int
	// MaxWidthFraction limits the panel width to a fraction of the viewport width.
	MaxWidthFraction float64

	Background color.RGBA
	Foreground color.RGBA
	ButtonFill color.RGBA
	ButtonText color.RGBA

	// CloseLabel is the text on the close button.
	CloseLabel string
}

// DefaultStyle returns a dark translucent panel with white text and a light Close button.
func DefaultStyle() Style {
	return Style{
		Scale:            2,
		Padding:          20,
		ButtonPadX:       12,
		ButtonPadY:       6,
		ButtonGap:        10,
		CornerRadius:     10,
		MaxWidthFraction: 0.8,
		Background:       color.RGBA{A: 204},
		Foreground:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		ButtonFill:       color.RGBA{R: 239, G: 239, B: 239, A: 255},
		ButtonText:       color.RGBA{A: 255},
		CloseLabel:       "Close",
	}
}

// Layout is the placement of the panel on a viewport.
type Layout struct {
	// Panel is the panel rectangle in viewport pixels.
	Panel image.Rectangle
	// Close is the close button rectangle in viewport pixels.
	Close image.Rectangle
	// TextOrigin is the top-left corner of the first text line in viewport pixels.
	TextOrigin image.Point
	// Lines are the wrapped text lines.
	Lines []string
	// LineHeight is the height of one text line in viewport pixels.
	LineHeight int
}

func glyphSize(scale int) (w, h int) {
	face := basicfont.Face7x13
	return face.Advance * scale, face.Height * scale
}

// computeLayout centres the panel on the viewport and wraps the text to fit.
func computeLayout(text string, s Style, width, height int) Layout {
	glyphW, lineH := glyphSize(s.Scale)

	maxPanelW := int(float64(width) * s.MaxWidthFraction)
	maxCols := max(1, (maxPanelW-2*s.Padding)/glyphW)
	lines := wrapText(text, maxCols)

	textW := 0
	for _, line := range lines {
		textW = max(textW, utf8.RuneCountInString(line)*glyphW)
	}
	textH := len(lines) * lineH

	buttonW := utf8.RuneCountInString(s.CloseLabel)*glyphW + 2*s.ButtonPadX
	buttonH := lineH + 2*s.ButtonPadY

	gap := 0
	if len(lines) > 0 {
		gap = s.ButtonGap
	}

	panelW := max(textW, buttonW) + 2*s.Padding
	panelH := s.Padding + textH + gap + buttonH + s.Padding

	minX := (width - panelW) / 2
	minY := (height - panelH) / 2
	panel := image.Rect(minX, minY, minX+panelW, minY+panelH)

	textOrigin := panel.Min.Add(image.Pt(s.Padding, s.Padding))
	closeMin := image.Pt(textOrigin.X, textOrigin.Y+textH+gap)

	return Layout{
		Panel:      panel,
		Close:      image.Rectangle{Min: closeMin, Max: closeMin.Add(image.Pt(buttonW, buttonH))},
		TextOrigin: textOrigin,
		Lines:      lines,
		LineHeight: lineH,
	}
}

// wrapText breaks text into lines of at most maxCols runes, splitting on whitespace and
// hard-splitting words longer than a line. Explicit newlines start a new line.
func wrapText(text string, maxCols int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			continue
		}

		current := ""
		for _, word := range words {
			for utf8.RuneCountInString(word) > maxCols {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				runes := []rune(word)
				lines = append(lines, string(runes[:maxCols]))
				word = string(runes[maxCols:])
			}
			switch {
			case current == "":
				current = word
			case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= maxCols:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
