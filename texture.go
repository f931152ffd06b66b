package banner

import (
	"image"
	"image/draw"

	"github.com/chewxy/math32"
)

// Texture is a fully materialized RGBA pixel buffer, the shape the external
// format decoders hand over. Pix is W*H*4 bytes in RGBA order,
// non-premultiplied.
type Texture struct {
	W, H int
	Pix  []byte
}

// TextureSet maps texture-table names to their decoded pixel buffers.
// A name missing from the set makes the referencing pane render nothing.
type TextureSet map[string]*Texture

// NewTexture allocates a zeroed texture. Non-positive dimensions yield a
// 1×1 transparent texture rather than an error.
func NewTexture(w, h int) *Texture {
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	return &Texture{W: w, H: h, Pix: make([]byte, w*h*4)}
}

// TextureFromImage converts any image into a Texture.
func TextureFromImage(src image.Image) *Texture {
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return &Texture{W: b.Dx(), H: b.Dy(), Pix: rgba.Pix}
}

// Image wraps the texture's pixels in an image.RGBA sharing the same
// backing store.
func (t *Texture) Image() *image.RGBA {
	return &image.RGBA{Pix: t.Pix, Stride: t.W * 4, Rect: image.Rect(0, 0, t.W, t.H)}
}

// Set writes one texel. Out-of-range coordinates are ignored.
func (t *Texture) Set(x, y int, c RGBA) {
	if x < 0 || y < 0 || x >= t.W || y >= t.H {
		return
	}
	i := (y*t.W + x) * 4
	t.Pix[i] = u8(c.R)
	t.Pix[i+1] = u8(c.G)
	t.Pix[i+2] = u8(c.B)
	t.Pix[i+3] = u8(c.A)
}

// texel reads one texel with coordinates already wrapped into range.
func (t *Texture) texel(x, y int) RGBA {
	i := (y*t.W + x) * 4
	return RGBA8(t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3])
}

// wrapCoord maps a texel coordinate into [0, n) per the wrap mode.
func wrapCoord(v, n int, w Wrap) int {
	if n <= 0 {
		return 0
	}
	switch w {
	case WrapRepeat:
		v %= n
		if v < 0 {
			v += n
		}
		return v
	case WrapMirror:
		period := 2 * n
		v %= period
		if v < 0 {
			v += period
		}
		if v >= n {
			v = period - 1 - v
		}
		return v
	default:
		if v < 0 {
			return 0
		}
		if v >= n {
			return n - 1
		}
		return v
	}
}

// Sample bilinearly filters the texture at normalized coordinates (u, v),
// wrapping per the given modes. Matches the hardware's half-texel centering.
func (t *Texture) Sample(u, v float32, wrapS, wrapT Wrap) RGBA {
	if t == nil || t.W <= 0 || t.H <= 0 {
		return TransparentBlack
	}
	fx := u*float32(t.W) - 0.5
	fy := v*float32(t.H) - 0.5
	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := t.texel(wrapCoord(x0, t.W, wrapS), wrapCoord(y0, t.H, wrapT))
	c10 := t.texel(wrapCoord(x0+1, t.W, wrapS), wrapCoord(y0, t.H, wrapT))
	c01 := t.texel(wrapCoord(x0, t.W, wrapS), wrapCoord(y0+1, t.H, wrapT))
	c11 := t.texel(wrapCoord(x0+1, t.W, wrapS), wrapCoord(y0+1, t.H, wrapT))

	return lerpColor(lerpColor(c00, c10, tx), lerpColor(c01, c11, tx), ty)
}

// applyUV runs a texture-coordinate SRT about the UV-space center:
// scale, then rotate, then translate.
func applyUV(t UVTransform, u, v float32) (float32, float32) {
	if t.identity() {
		return u, v
	}
	u = (u - 0.5) * t.Scale.X
	v = (v - 0.5) * t.Scale.Y
	if t.Rotate != 0 {
		sin, cos := math32.Sincos(t.Rotate * math32.Pi / 180)
		u, v = u*cos-v*sin, u*sin+v*cos
	}
	return u + 0.5 + t.Translate.X, v + 0.5 + t.Translate.Y
}
