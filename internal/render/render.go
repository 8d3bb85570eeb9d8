// Package render draws board positions as PNG images.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chesscore/internal/board"
)

// DefaultSquareSize is used when Renderer is created with a non-positive size.
const DefaultSquareSize = 64

// Options controls a single rendering.
type Options struct {
	// Flip draws the board from black's side.
	Flip bool

	// LastMove, when set, has its origin and destination tinted.
	LastMove *board.Move

	// MarkCheck tints the square of the side to move's king when it is in check.
	MarkCheck bool
}

var (
	lightSquare     = color.RGBA{233, 207, 163, 255}
	darkSquare      = color.RGBA{187, 136, 96, 255}
	lastMoveFill    = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	checkFill       = color.NRGBA{R: 220, G: 40, B: 40, A: 150}
	coordinateColor = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	marginColor     = color.RGBA{245, 240, 230, 255}
)

// Renderer draws boards. Piece glyphs are rasterised once per renderer.
type Renderer struct {
	squareSize int
	margin     int

	mu     sync.Mutex
	pieces map[board.Piece]image.Image
}

// New creates a renderer with squares of squareSize pixels.
func New(squareSize int) *Renderer {
	if squareSize <= 0 {
		squareSize = DefaultSquareSize
	}
	return &Renderer{
		squareSize: squareSize,
		margin:     max(16, squareSize/3),
		pieces:     make(map[board.Piece]image.Image),
	}
}

// Size returns the width and height in pixels of rendered images.
func (r *Renderer) Size() int {
	return 8*r.squareSize + 2*r.margin
}

// Render draws b onto a new image.
func (r *Renderer) Render(b *board.Board, opts Options) (*image.RGBA, error) {
	if b == nil {
		return nil, fmt.Errorf("board is nil")
	}

	size := r.Size()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(marginColor), image.Point{}, draw.Src)

	r.drawSquares(img, opts)
	if opts.MarkCheck && b.InCheck(b.SideToMove) {
		r.overlay(img, b.KingSquare(b.SideToMove), opts.Flip, checkFill)
	}
	if err := r.drawPieces(img, b, opts); err != nil {
		return nil, err
	}
	r.drawCoordinates(img, opts)

	return img, nil
}

// RenderPNG draws b and encodes it as PNG.
func (r *Renderer) RenderPNG(ctx context.Context, b *board.Board, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WritePNG(ctx, &buf, b, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG draws b and writes the PNG encoding to w.
func (r *Renderer) WritePNG(ctx context.Context, w io.Writer, b *board.Board, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := r.Render(b, opts)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// squareRect returns the pixel rectangle of sq.
func (r *Renderer) squareRect(sq board.Square, flip bool) image.Rectangle {
	row, col := sq.Row, sq.Col
	if flip {
		row, col = 7-row, 7-col
	}
	x := r.margin + col*r.squareSize
	y := r.margin + row*r.squareSize
	return image.Rect(x, y, x+r.squareSize, y+r.squareSize)
}

func (r *Renderer) drawSquares(img *image.RGBA, opts Options) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := board.NewSquare(row, col)
			clr := lightSquare
			if (row+col)%2 == 1 {
				clr = darkSquare
			}
			draw.Draw(img, r.squareRect(sq, opts.Flip), image.NewUniform(clr), image.Point{}, draw.Src)
		}
	}

	if m := opts.LastMove; m != nil && !m.IsNull() {
		r.overlay(img, m.From, opts.Flip, lastMoveFill)
		r.overlay(img, m.To, opts.Flip, lastMoveFill)
	}
}

func (r *Renderer) overlay(img *image.RGBA, sq board.Square, flip bool, clr color.Color) {
	if !sq.Valid() {
		return
	}
	draw.Draw(img, r.squareRect(sq, flip), image.NewUniform(clr), image.Point{}, draw.Over)
}

func (r *Renderer) drawPieces(img *image.RGBA, b *board.Board, opts Options) error {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.Squares[row][col]
			if p == board.NoPiece {
				continue
			}
			glyph, err := r.piece(p)
			if err != nil {
				return err
			}
			rect := r.squareRect(board.NewSquare(row, col), opts.Flip)
			draw.Draw(img, rect, glyph, image.Point{}, draw.Over)
		}
	}
	return nil
}

func (r *Renderer) piece(p board.Piece) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img, ok := r.pieces[p]; ok {
		return img, nil
	}
	img, err := rasterizePiece(p, r.squareSize)
	if err != nil {
		return nil, err
	}
	r.pieces[p] = img
	return img, nil
}

func (r *Renderer) drawCoordinates(img *image.RGBA, opts Options) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(coordinateColor),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()

	for i := 0; i < 8; i++ {
		sq := board.NewSquare(i, i)
		rect := r.squareRect(sq, opts.Flip)

		file := string(sq.File())
		width := drawer.MeasureString(file).Ceil()
		drawer.Dot = fixed.P(rect.Min.X+(r.squareSize-width)/2, r.margin+8*r.squareSize+(r.margin+ascent)/2)
		drawer.DrawString(file)

		rank := string(sq.Rank())
		width = drawer.MeasureString(rank).Ceil()
		drawer.Dot = fixed.P((r.margin-width)/2, rect.Min.Y+(r.squareSize+ascent)/2)
		drawer.DrawString(rank)
	}
}
