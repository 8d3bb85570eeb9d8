package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/chesscore/internal/board"
)

// Piece outlines on a 45x45 canvas. %[1]s is the fill, %[2]s the stroke.
var glyphBodies = map[board.PieceType]string{
	board.Pawn: `<circle cx="22.5" cy="14" r="5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 17 21 L 28 21 L 31 34 L 14 34 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="11" y="34" width="23" height="5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,

	board.Knight: `<path d="M 14 38 L 16 26 L 12 22 L 16 14 L 22 9 L 25 6 L 27 10 C 33 13 34 22 32 38 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="20" cy="15" r="1.5" fill="%[2]s"/>
<rect x="11" y="36" width="23" height="4" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,

	board.Bishop: `<circle cx="22.5" cy="8" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 22.5 11 C 30 16 31 24 27 30 L 18 30 C 14 24 15 16 22.5 11 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 22.5 16 L 22.5 24 M 19 20 L 26 20" stroke="%[2]s" stroke-width="1.5"/>
<rect x="12" y="33" width="21" height="5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,

	board.Rook: `<path d="M 12 9 L 16 9 L 16 12 L 20 12 L 20 9 L 25 9 L 25 12 L 29 12 L 29 9 L 33 9 L 33 16 L 12 16 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 15 16 L 30 16 L 31 33 L 14 33 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<rect x="10" y="33" width="25" height="5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,

	board.Queen: `<circle cx="9" cy="12" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="16" cy="9" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="22.5" cy="8" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="29" cy="9" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<circle cx="36" cy="12" r="2.5" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 9 26 L 9 14 L 15 24 L 16 11 L 20 23 L 22.5 10 L 25 23 L 29 11 L 30 24 L 36 14 L 36 26 C 30 28 15 28 9 26 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 9 26 C 11 30 11 33 12 36 L 33 36 C 34 33 34 30 36 26" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,

	board.King: `<path d="M 22.5 5 L 22.5 13 M 19 8 L 26 8" stroke="%[2]s" stroke-width="2"/>
<path d="M 22.5 25 C 22.5 25 27 17.5 25.5 14.5 C 24.5 12 20.5 12 19.5 14.5 C 18 17.5 22.5 25 22.5 25 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>
<path d="M 11.5 37 C 17 40.5 28 40.5 33.5 37 L 33.5 30 C 33.5 30 42.5 25.5 39.5 19.5 C 35.5 13 25 16 22.5 23.5 L 22.5 27 L 22.5 23.5 C 20 16 9.5 13 5.5 19.5 C 2.5 25.5 11.5 30 11.5 30 L 11.5 37 Z" fill="%[1]s" stroke="%[2]s" stroke-width="1.5"/>`,
}

// pieceSVG returns a standalone SVG document for p.
func pieceSVG(p board.Piece) (string, error) {
	body, ok := glyphBodies[p.Type()]
	if !ok {
		return "", fmt.Errorf("no glyph for piece %v", p)
	}
	fill, stroke := "#ffffff", "#000000"
	if p.Color() == board.Black {
		fill, stroke = "#2b2b2b", "#000000"
	}
	return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45" width="45" height="45">` +
		fmt.Sprintf(body, fill, stroke) + `</svg>`, nil
}

// rasterizePiece renders p as a size x size image with a transparent background.
func rasterizePiece(p board.Piece, size int) (image.Image, error) {
	doc, err := pieceSVG(p)
	if err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(doc)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}
