package banner

import "github.com/chewxy/math32"

// RGBA is a non-premultiplied color. Components are nominally in [0, 1];
// TEV intermediates may leave that range, and are only clamped where the
// hardware clamps (per-stage clamp flag and final output).
type RGBA struct {
	R, G, B, A float32
}

// White is full-opaque white, the fallback for missing vertex colors.
var White = RGBA{1, 1, 1, 1}

// TransparentBlack is the substitute for an unreferenced raster or texture
// input.
var TransparentBlack = RGBA{0, 0, 0, 0}

// RGBA8 builds an RGBA from 8-bit components.
func RGBA8(r, g, b, a uint8) RGBA {
	return RGBA{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// Channel returns component i (0=R, 1=G, 2=B, 3=A).
func (c RGBA) Channel(i int) float32 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	default:
		return c.A
	}
}

// clamp01 clamps v to [0, 1].
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clamp01c clamps every component of c to [0, 1].
func clamp01c(c RGBA) RGBA {
	return RGBA{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// u8 converts a [0, 1] float channel to its 8-bit value, rounding to nearest.
func u8(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// lerp linearly interpolates between a and b.
func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// lerpColor linearly interpolates between two colors component-wise.
func lerpColor(a, b RGBA, t float32) RGBA {
	return RGBA{
		lerp(a.R, b.R, t),
		lerp(a.G, b.G, t),
		lerp(a.B, b.B, t),
		lerp(a.A, b.A, t),
	}
}

// Vec2 is a 2D vector. The source format stores all scalars as float32, so
// the whole pipeline stays in float32 (math via math32).
type Vec2 struct {
	X, Y float32
}

// Vec3 is a 3D vector. Z only participates in translation accumulation and
// the optional perspective projection.
type Vec3 struct {
	X, Y, Z float32
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
