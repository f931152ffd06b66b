package banner

import "github.com/chewxy/math32"

// Affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
var identityAffine = Affine{1, 0, 0, 1, 0, 0}

// Affine is the accumulated 2D transform of a pane: a 2×2 linear part plus a
// translation.
type Affine [6]float32

// mulAffine multiplies two affine matrices: result = parent * child.
func mulAffine(p, c Affine) Affine {
	return Affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of an affine matrix. Returns the
// identity when the matrix is singular (determinant ≈ 0).
func invertAffine(m Affine) Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-9 && det < 1e-9 {
		return identityAffine
	}
	invDet := 1 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m Affine, x, y float32) (float32, float32) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// mat3 is a 3×3 rotation matrix, row-major.
type mat3 [9]float32

var identityMat3 = mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}

func (m mat3) mul(o mat3) mat3 {
	var r mat3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = m[row*3]*o[col] + m[row*3+1]*o[3+col] + m[row*3+2]*o[6+col]
		}
	}
	return r
}

func (m mat3) apply(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// axisRotation builds the rotation matrix for one axis (0=X, 1=Y, 2=Z),
// angle in degrees.
func axisRotation(axis int, deg float32) mat3 {
	if deg == 0 {
		return identityMat3
	}
	sin, cos := math32.Sincos(deg * math32.Pi / 180)
	switch axis {
	case 0:
		return mat3{1, 0, 0, 0, cos, -sin, 0, sin, cos}
	case 1:
		return mat3{cos, 0, sin, 0, 1, 0, -sin, 0, cos}
	default:
		return mat3{cos, -sin, 0, sin, cos, 0, 0, 0, 1}
	}
}

// RotationOrder lists the axes in application order. The default applies Z,
// then Y, then X, matching the format's convention.
type RotationOrder [3]int

// RotateZYX is the default axis-application order.
var RotateZYX = RotationOrder{2, 1, 0}

// rotationMatrix composes the three axis rotations in the given application
// order: the first listed axis acts on the vector first.
func rotationMatrix(r Vec3, order RotationOrder) mat3 {
	m := identityMat3
	angles := [3]float32{r.X, r.Y, r.Z}
	for _, axis := range order {
		if axis < 0 || axis > 2 {
			continue
		}
		m = axisRotation(axis, angles[axis]).mul(m)
	}
	return m
}

// ComposeOptions tune the transform composer.
type ComposeOptions struct {
	// Perspective enables the pinhole projection of rotated basis vectors;
	// without it Z rotation and scale alone form the linear part.
	Perspective bool

	// ProjectionDistance is the pinhole distance used when Perspective is
	// set. Zero selects defaultProjectionDistance.
	ProjectionDistance float32

	RotationOrder RotationOrder
}

const defaultProjectionDistance = 500

// PaneTransform is a pane's accumulated transform and composited
// alpha/visibility for one frame.
type PaneTransform struct {
	M       Affine
	Alpha   float32
	Visible bool
	Z       float32 // accumulated Z translation, input to the projection
}

// propagatesAlpha reports whether a chain link multiplies its alpha into its
// descendants: visual pane kinds always do, containers only with the
// explicit flag.
func propagatesAlpha(p *Pane) bool {
	return p.Kind != PaneNull || p.InfluencedAlpha
}

// ancestorChain returns the pane indices from the root down to pane idx.
// A repeated name during the walk is treated as a cycle and breaks the walk;
// the chain built so far is kept.
func ancestorChain(l *Layout, idx int) []int {
	var chain []int
	visited := map[string]bool{}
	for idx >= 0 {
		p := &l.Panes[idx]
		if visited[p.Name] {
			break
		}
		visited[p.Name] = true
		chain = append(chain, idx)
		if p.Parent == "" {
			break
		}
		idx = l.PaneIndex(p.Parent)
	}
	// Reverse to root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// composeTransform walks a pane's ancestor chain root-first, accumulating
// translation (Y inverted relative to the format's convention), the
// 9-anchor offset, the rotation×scale linear part, and the composited
// alpha/visibility. states must hold one resolved PaneState per layout pane.
func composeTransform(l *Layout, idx int, states []PaneState, opts ComposeOptions) PaneTransform {
	out := PaneTransform{M: identityAffine, Alpha: 1, Visible: true}
	chain := ancestorChain(l, idx)
	if len(chain) == 0 {
		return out
	}

	order := opts.RotationOrder
	if order == (RotationOrder{}) {
		order = RotateZYX
	}
	dist := opts.ProjectionDistance
	if dist <= 0 {
		dist = defaultProjectionDistance
	}

	for _, li := range chain {
		p := &l.Panes[li]
		s := &states[li]

		if !s.Visible && (li == idx || propagatesAlpha(p)) {
			// An invisible propagating ancestor hides the whole chain no
			// matter what the descendants' alpha resolves to.
			out.Visible = false
			out.Alpha = 0
		}
		if li == idx || propagatesAlpha(p) {
			out.Alpha *= s.Alpha
		}

		out.Z += s.Translate.Z

		rot := rotationMatrix(s.Rotate, order)
		bx := rot.apply(Vec3{s.Scale.X, 0, 0})
		by := rot.apply(Vec3{0, s.Scale.Y, 0})

		var lin [4]float32 // column-major: bx then by
		if opts.Perspective {
			lin[0], lin[1] = project(bx, out.Z, dist)
			lin[2], lin[3] = project(by, out.Z, dist)
		} else {
			lin[0], lin[1] = bx.X, bx.Y
			lin[2], lin[3] = by.X, by.Y
		}
		// The format's Y axis runs up, raster Y runs down. Conjugating every
		// link's linear part by the flip (negate the off-diagonals) and
		// negating its Y translation composes to a single global flip, with
		// local quad coordinates already in Y-down space.
		lin[1], lin[2] = -lin[1], -lin[2]

		ax, ay := p.Origin.anchors()
		ox := (0.5 - ax) * s.Size.X
		oy := (0.5 - ay) * s.Size.Y

		local := Affine{
			lin[0], lin[1], lin[2], lin[3],
			s.Translate.X + lin[0]*ox + lin[2]*oy,
			-s.Translate.Y + lin[1]*ox + lin[3]*oy,
		}
		out.M = mulAffine(out.M, local)
	}

	out.Alpha = clamp01(out.Alpha)
	return out
}

// project maps a rotated basis vector through a pinhole at the given
// distance, using the pane's accumulated Z. A basis endpoint at or behind
// the pinhole falls back to the unprojected vector.
func project(b Vec3, z, dist float32) (float32, float32) {
	denom := dist - (z + b.Z)
	if denom < 1e-3 {
		return b.X, b.Y
	}
	s := dist / denom
	return b.X * s, b.Y * s
}
