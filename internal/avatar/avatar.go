// Package avatar renders initial-letter profile images as PNG. Rendering is
// deterministic: the same username always yields the same image.
package avatar

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"
	"unicode"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// palette matches the dashboard accent colors.
var palette = []color.RGBA{
	{R: 0x6b, G: 0x21, B: 0xa8, A: 0xff}, // purple
	{R: 0x1d, G: 0x4e, B: 0xd8, A: 0xff}, // blue
	{R: 0x0f, G: 0x76, B: 0x6e, A: 0xff}, // teal
	{R: 0xb9, G: 0x1c, B: 0x1c, A: 0xff}, // red
	{R: 0xa1, G: 0x62, B: 0x07, A: 0xff}, // amber
	{R: 0x15, G: 0x80, B: 0x3d, A: 0xff}, // green
}

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = truetype.Parse(goregular.TTF)
	})
	return fontTTF, fontErr
}

// Initials derives up to two display letters from a username.
func Initials(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "?"
	}
	parts := strings.FieldsFunc(username, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '.'
	})
	var b strings.Builder
	for _, p := range parts {
		for _, r := range p {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// Background picks the palette color for username.
func Background(username string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(username))
	return palette[h.Sum32()%uint32(len(palette))]
}

// Render draws a size x size PNG avatar for username.
func Render(username string, size int) ([]byte, error) {
	if size < 16 || size > 512 {
		return nil, fmt.Errorf("avatar: size %d out of range", size)
	}
	ttf, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("avatar: load font: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background(username)), image.Point{}, draw.Src)

	initials := Initials(username)
	face := truetype.NewFace(ttf, &truetype.Options{
		Size: float64(size) * 0.42,
		DPI:  72,
	})
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	width := d.MeasureString(initials)
	metrics := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: (fixed.I(size) - width) / 2,
		Y: (fixed.I(size) + metrics.Ascent - metrics.Descent) / 2,
	}
	d.DrawString(initials)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("avatar: encode: %w", err)
	}
	return buf.Bytes(), nil
}
