package models

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dmitrijs2005/magicletters/internal/common"
)

// Photo occupies one of the three photo slots of a letter.
type Photo struct {
	ID        int64
	LetterID  string
	Slot      int
	Path      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DrawingKind tells how Drawing.Content is to be read.
type DrawingKind string

const (
	// DrawingVector content is a JSON array of strokes.
	DrawingVector DrawingKind = "vector"
	// DrawingRaster content is the path of a rendered PNG snapshot.
	DrawingRaster DrawingKind = "raster"
)

// Drawing is the current drawing state of a letter.
type Drawing struct {
	LetterID  string
	Kind      DrawingKind
	Content   string
	UpdatedAt time.Time
}

// Stroke is one freehand path of a vector drawing.
type Stroke struct {
	D     string  `json:"d"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// NewVectorDrawing serializes strokes into a vector drawing for letterID.
func NewVectorDrawing(letterID string, strokes []Stroke) (Drawing, error) {
	if strokes == nil {
		strokes = []Stroke{}
	}
	b, err := json.Marshal(strokes)
	if err != nil {
		return Drawing{}, fmt.Errorf("encode strokes: %w", err)
	}
	return Drawing{LetterID: letterID, Kind: DrawingVector, Content: string(b)}, nil
}

// NewRasterDrawing references a rendered snapshot at path.
func NewRasterDrawing(letterID, path string) Drawing {
	return Drawing{LetterID: letterID, Kind: DrawingRaster, Content: path}
}

// Strokes decodes a vector drawing. Raster drawings have no strokes.
func (d Drawing) Strokes() ([]Stroke, error) {
	if d.Kind != DrawingVector {
		return nil, nil
	}
	var strokes []Stroke
	if err := json.Unmarshal([]byte(d.Content), &strokes); err != nil {
		return nil, fmt.Errorf("decode strokes: %w", err)
	}
	return strokes, nil
}

// SVG renders a vector drawing as a standalone SVG document on a canvas of
// the given size.
func (d Drawing) SVG(width, height int) ([]byte, error) {
	strokes, err := d.Strokes()
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	for _, s := range strokes {
		color := s.Color
		if color == "" {
			color = "#000000"
		}
		fmt.Fprintf(&b, `<path d="%s" stroke="%s" stroke-width="%g" fill="none" stroke-linecap="round" stroke-linejoin="round"/>`,
			html.EscapeString(s.D), html.EscapeString(color), s.Width)
	}
	b.WriteString(`</svg>`)
	return []byte(b.String()), nil
}

// Validate checks the kind and that there is something to store.
func (d Drawing) Validate() error {
	switch d.Kind {
	case DrawingVector, DrawingRaster:
	default:
		return fmt.Errorf("%w: unknown drawing kind %q", common.ErrValidation, d.Kind)
	}
	if d.Content == "" {
		return fmt.Errorf("%w: empty drawing", common.ErrValidation)
	}
	return nil
}

// Message is the body of a letter.
type Message struct {
	LetterID  string
	Text      string
	UpdatedAt time.Time
}
