package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/robalobadob/guessbot/internal/game"
)

const (
	tile       = 48
	gap        = 6
	margin     = 12
	pinyinRows = 26 // label line plus the three mark bars under idiom tiles
	markHeight = 6
)

var (
	colBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colEmpty      = color.RGBA{0xd3, 0xd6, 0xda, 0xff}
	colCorrect    = color.RGBA{0x6a, 0xaa, 0x64, 0xff}
	colPresent    = color.RGBA{0xc9, 0xb4, 0x58, 0xff}
	colAbsent     = color.RGBA{0x78, 0x7c, 0x7e, 0xff}
	colLabel      = color.RGBA{0x1a, 0x1a, 0x1b, 0xff}
)

func statusColor(s game.Status) color.RGBA {
	switch s {
	case game.StatusCorrect:
		return colCorrect
	case game.StatusPresent:
		return colPresent
	default:
		return colAbsent
	}
}

// PNG draws boards as PNG images and keeps recent results in a
// cost-bounded cache keyed by a board fingerprint.
type PNG struct {
	cache *ristretto.Cache[string, []byte]
}

// NewPNG constructs a renderer whose cache holds at most cacheBytes of
// encoded images. cacheBytes <= 0 disables caching.
func NewPNG(cacheBytes int64) (*PNG, error) {
	if cacheBytes <= 0 {
		return &PNG{}, nil
	}
	counters := max(cacheBytes/4096*10, 1000)
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: counters,
		MaxCost:     cacheBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("render cache: %w", err)
	}
	return &PNG{cache: c}, nil
}

// Close releases the cache.
func (p *PNG) Close() {
	if p.cache != nil {
		p.cache.Close()
	}
}

// Render encodes b as PNG. The returned slice may be shared with the cache
// and must not be modified.
func (p *PNG) Render(b Board) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	key, err := fingerprint(b)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		if v, ok := p.cache.Get(key); ok {
			return v, nil
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, paint(b)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	out := buf.Bytes()
	if p.cache != nil {
		p.cache.Set(key, out, int64(len(out)))
	}
	return out, nil
}

func fingerprint(b Board) (string, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("fingerprint board: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func rowHeight(v game.Variant) int {
	if v == game.VariantIdiom {
		return tile + pinyinRows
	}
	return tile
}

// paint lays out MaxAttempts rows of AnswerLength tiles; rows without a
// guess are drawn as empty outlines.
func paint(b Board) *image.RGBA {
	rh := rowHeight(b.Variant)
	w := 2*margin + b.AnswerLength*tile + (b.AnswerLength-1)*gap
	h := 2*margin + b.MaxAttempts*rh + (b.MaxAttempts-1)*gap
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), colBackground)

	for r := 0; r < b.MaxAttempts; r++ {
		y := margin + r*(rh+gap)
		for c := 0; c < b.AnswerLength; c++ {
			x := margin + c*(tile+gap)
			box := image.Rect(x, y, x+tile, y+tile)
			if r >= len(b.Rows) {
				outline(img, box, colEmpty, 2)
				continue
			}
			row := b.Rows[r]
			cell := row.Cells[c]
			fill(img, box, statusColor(cell.Status))
			if isASCII(cell.Symbol) {
				label(img, cell.Symbol, box, colBackground)
			}
			if c < len(row.Pinyin) {
				strip := image.Rect(x, y+tile+2, x+tile, y+tile+2+13)
				label(img, row.Pinyin[c], strip, colLabel)
			}
			if c < len(row.Marks) {
				markBars(img, row.Marks[c], x, y+tile+2+13+3)
			}
		}
	}
	return img
}

// markBars draws three small bars for initial, final and tone.
func markBars(img *image.RGBA, m game.SyllableMarks, x, y int) {
	bw := (tile - 2*2) / 3
	for i, s := range []game.Status{m.Initial, m.Final, m.Tone} {
		bx := x + i*(bw+2)
		fill(img, image.Rect(bx, y, bx+bw, y+markHeight), statusColor(s))
	}
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func outline(img *image.RGBA, r image.Rectangle, c color.Color, t int) {
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), c)
	fill(img, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), c)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), c)
	fill(img, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// label centres s inside box using the fixed 7x13 face.
func label(img *image.RGBA, s string, box image.Rectangle, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	x := box.Min.X + (box.Dx()-width)/2
	y := box.Min.Y + (box.Dy()+face.Ascent-face.Descent)/2
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return s != ""
}
