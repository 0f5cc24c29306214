// Package captcha renders short numeric challenges as SVG images.
package captcha

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"

	svg "github.com/ajstarks/svgo"
)

const (
	DefaultCharset    = "0123456789"
	DefaultSize       = 4
	DefaultNoise      = 2
	DefaultWidth      = 150
	DefaultHeight     = 50
	DefaultBackground = "#cc9966"
)

var ErrEmptyCharset = errors.New("captcha charset is empty")

type Options struct {
	Size       int    `mapstructure:"size"`
	Charset    string `mapstructure:"charset"`
	Noise      int    `mapstructure:"noise"`
	Color      bool   `mapstructure:"color"`
	Background string `mapstructure:"background"`
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
}

// DefaultOptions matches the login page: four digits, two noise lines,
// colored glyphs on a tan background.
func DefaultOptions() Options {
	return Options{
		Size:       DefaultSize,
		Charset:    DefaultCharset,
		Noise:      DefaultNoise,
		Color:      true,
		Background: DefaultBackground,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
	}
}

type Challenge struct {
	Text string
	SVG  []byte
}

type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	def := DefaultOptions()
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	if opts.Charset == "" {
		opts.Charset = def.Charset
	}
	if opts.Noise < 0 {
		opts.Noise = 0
	}
	if opts.Background == "" {
		opts.Background = def.Background
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	return &Generator{opts: opts}
}

func (g *Generator) Generate() (*Challenge, error) {
	text, err := randomText(g.opts.Charset, g.opts.Size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	g.render(&buf, text)

	return &Challenge{Text: text, SVG: buf.Bytes()}, nil
}

func (g *Generator) render(buf *bytes.Buffer, text string) {
	w, h := g.opts.Width, g.opts.Height
	canvas := svg.New(buf)
	canvas.Start(w, h)
	canvas.Rect(0, 0, w, h, "fill:"+g.opts.Background)

	for i := 0; i < g.opts.Noise; i++ {
		canvas.Path(fmt.Sprintf("M%d %d C%d %d,%d %d,%d %d",
			mrand.IntN(w/4), mrand.IntN(h),
			mrand.IntN(w), mrand.IntN(h),
			mrand.IntN(w), mrand.IntN(h),
			w-mrand.IntN(w/4), mrand.IntN(h),
		), fmt.Sprintf("stroke:%s;stroke-width:1;fill:none", g.color("#444")))
	}

	step := w / (len(text) + 1)
	fontSize := h * 3 / 5
	for i, ch := range text {
		x := step*(i+1) - fontSize/4
		y := h/2 + fontSize/3 + mrand.IntN(7) - 3
		angle := mrand.IntN(41) - 20
		canvas.Gtransform(fmt.Sprintf("rotate(%d %d %d)", angle, x, y))
		canvas.Text(x, y, string(ch),
			fmt.Sprintf("font-family:monospace;font-weight:bold;font-size:%dpx;fill:%s", fontSize, g.color("#222")))
		canvas.Gend()
	}

	canvas.End()
}

func (g *Generator) color(fallback string) string {
	if !g.opts.Color {
		return fallback
	}
	return fmt.Sprintf("#%02x%02x%02x", mrand.IntN(128), mrand.IntN(128), mrand.IntN(128))
}

func randomText(charset string, size int) (string, error) {
	chars := []rune(charset)
	if len(chars) == 0 {
		return "", ErrEmptyCharset
	}
	out := make([]rune, size)
	max := big.NewInt(int64(len(chars)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate captcha text: %w", err)
		}
		out[i] = chars[n.Int64()]
	}
	return string(out), nil
}
