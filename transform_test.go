package banner

import "testing"

func assertAffineNear(t *testing.T, name string, got, want Affine) {
	t.Helper()
	for i := range got {
		if diff := got[i] - want[i]; diff > epsilon || diff < -epsilon {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

func statesFor(l *Layout) []PaneState {
	states := make([]PaneState, len(l.Panes))
	for i := range l.Panes {
		states[i] = resolvePaneState(&l.Panes[i], resolveInput{})
	}
	return states
}

func TestMulAffineIdentity(t *testing.T) {
	m := Affine{2, 0.5, -1, 3, 10, 20}
	assertAffineNear(t, "left identity", mulAffine(identityAffine, m), m)
	assertAffineNear(t, "right identity", mulAffine(m, identityAffine), m)
}

func TestInvertAffineRoundTrip(t *testing.T) {
	m := Affine{2, 1, 0.5, 3, 7, -4}
	assertAffineNear(t, "m * m⁻¹", mulAffine(m, invertAffine(m)), identityAffine)
}

func TestInvertAffineSingular(t *testing.T) {
	// Collapsed scale: the inverse degrades to identity instead of blowing up.
	assertAffineNear(t, "singular", invertAffine(Affine{0, 0, 0, 0, 5, 5}), identityAffine)
}

func TestTransformPoint(t *testing.T) {
	m := Affine{2, 0, 0, 3, 10, 20}
	x, y := transformPoint(m, 1, 1)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 23)
}

func TestRotationMatrixZ(t *testing.T) {
	v := rotationMatrix(Vec3{Z: 90}, RotateZYX).apply(Vec3{X: 1})
	assertNear(t, "x", v.X, 0)
	assertNear(t, "y", v.Y, 1)
}

func TestAncestorChainOrder(t *testing.T) {
	l := &Layout{Panes: []Pane{
		{Name: "root"},
		{Name: "mid", Parent: "root"},
		{Name: "leaf", Parent: "mid"},
	}}
	chain := ancestorChain(l, 2)
	if len(chain) != 3 || chain[0] != 0 || chain[1] != 1 || chain[2] != 2 {
		t.Errorf("chain = %v, want [0 1 2]", chain)
	}
}

func TestAncestorChainCycleGuard(t *testing.T) {
	l := &Layout{Panes: []Pane{
		{Name: "a", Parent: "b"},
		{Name: "b", Parent: "a"},
	}}
	chain := ancestorChain(l, 0)
	if len(chain) != 2 {
		t.Errorf("cyclic parentage should stop after each name once, got %v", chain)
	}
}

func TestComposeTranslationChain(t *testing.T) {
	l := &Layout{Panes: []Pane{
		{Name: "root", Translate: Vec3{X: 10, Y: 5}, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
		{Name: "mid", Parent: "root", Translate: Vec3{X: 3, Y: 2}, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
		{Name: "leaf", Parent: "mid", Kind: PanePicture, Translate: Vec3{X: 1, Y: 1}, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
	}}
	tf := composeTransform(l, 2, statesFor(l), ComposeOptions{})
	x, y := transformPoint(tf.M, 0, 0)
	assertNear(t, "x sums", x, 14)
	// Layout Y runs up, raster Y runs down.
	assertNear(t, "y sums inverted", y, -8)
	if !tf.Visible {
		t.Error("fully visible chain should stay visible")
	}
	assertNear(t, "alpha", tf.Alpha, 1)
}

func TestComposeScaleAppliesToChildTranslation(t *testing.T) {
	l := &Layout{Panes: []Pane{
		{Name: "root", Scale: Vec2{X: 2, Y: 2}, Alpha: 1, Visible: true, Origin: OriginCenter},
		{Name: "leaf", Parent: "root", Kind: PanePicture, Translate: Vec3{X: 5, Y: 0}, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
	}}
	tf := composeTransform(l, 1, statesFor(l), ComposeOptions{})
	x, _ := transformPoint(tf.M, 0, 0)
	assertNear(t, "child offset scaled by parent", x, 10)
}

func TestComposeAlphaPropagation(t *testing.T) {
	l := &Layout{Panes: []Pane{
		{Name: "root", Kind: PanePicture, Scale: Vec2{X: 1, Y: 1}, Alpha: 0.5, Visible: true, Origin: OriginCenter},
		{Name: "leaf", Parent: "root", Kind: PanePicture, Scale: Vec2{X: 1, Y: 1}, Alpha: 0.5, Visible: true, Origin: OriginCenter},
	}}
	tf := composeTransform(l, 1, statesFor(l), ComposeOptions{})
	assertNear(t, "alpha multiplies down visual links", tf.Alpha, 0.25)
}

func TestComposeNullContainerAlphaNotPropagated(t *testing.T) {
	l := &Layout{Panes: []Pane{
		{Name: "root", Kind: PaneNull, Scale: Vec2{X: 1, Y: 1}, Alpha: 0.5, Visible: true, Origin: OriginCenter},
		{Name: "leaf", Parent: "root", Kind: PanePicture, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
	}}
	tf := composeTransform(l, 1, statesFor(l), ComposeOptions{})
	assertNear(t, "plain container alpha is ignored", tf.Alpha, 1)

	l.Panes[0].InfluencedAlpha = true
	tf = composeTransform(l, 1, statesFor(l), ComposeOptions{})
	assertNear(t, "flagged container alpha multiplies", tf.Alpha, 0.5)
}

func TestComposeInvisibleAncestorHidesChain(t *testing.T) {
	l := &Layout{Panes: []Pane{
		{Name: "root", Kind: PanePicture, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: false, Origin: OriginCenter},
		{Name: "leaf", Parent: "root", Kind: PanePicture, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
	}}
	tf := composeTransform(l, 1, statesFor(l), ComposeOptions{})
	if tf.Visible {
		t.Error("invisible visual ancestor should hide the whole chain")
	}
	assertNear(t, "hidden alpha", tf.Alpha, 0)
}

func TestComposeAnchorOffsets(t *testing.T) {
	// A 100×50 pane anchored top-left has its center 50 right and 25 down
	// (raster space) of the translation point.
	l := &Layout{Panes: []Pane{
		{Name: "p", Kind: PanePicture, Scale: Vec2{X: 1, Y: 1}, Size: Vec2{X: 100, Y: 50}, Alpha: 1, Visible: true, Origin: OriginTopLeft},
	}}
	tf := composeTransform(l, 0, statesFor(l), ComposeOptions{})
	x, y := transformPoint(tf.M, 0, 0)
	assertNear(t, "x", x, 50)
	assertNear(t, "y", y, 25)

	l.Panes[0].Origin = OriginBottomRight
	tf = composeTransform(l, 0, statesFor(l), ComposeOptions{})
	x, y = transformPoint(tf.M, 0, 0)
	assertNear(t, "x mirrored", x, -50)
	assertNear(t, "y mirrored", y, -25)

	l.Panes[0].Origin = OriginCenter
	tf = composeTransform(l, 0, statesFor(l), ComposeOptions{})
	x, y = transformPoint(tf.M, 0, 0)
	assertNear(t, "centered x", x, 0)
	assertNear(t, "centered y", y, 0)
}

func TestComposeNestedRotationDoesNotDoubleFlip(t *testing.T) {
	// Two nested +90° Z rotations must compose to 180°, the same as a single
	// pane rotated 180°, despite the per-link Y inversion.
	nested := &Layout{Panes: []Pane{
		{Name: "root", Rotate: Vec3{Z: 90}, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
		{Name: "leaf", Parent: "root", Kind: PanePicture, Rotate: Vec3{Z: 90}, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
	}}
	flat := &Layout{Panes: []Pane{
		{Name: "p", Kind: PanePicture, Rotate: Vec3{Z: 180}, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
	}}
	a := composeTransform(nested, 1, statesFor(nested), ComposeOptions{})
	b := composeTransform(flat, 0, statesFor(flat), ComposeOptions{})
	assertAffineNear(t, "nested 90+90 equals flat 180", a.M, b.M)
}

func TestComposePerspectiveShrinksDistantPane(t *testing.T) {
	l := &Layout{Panes: []Pane{
		{Name: "p", Kind: PanePicture, Translate: Vec3{Z: -500}, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
	}}
	tf := composeTransform(l, 0, statesFor(l), ComposeOptions{Perspective: true})
	// Z = -500 with the default pinhole at 500 doubles the distance, halving
	// the projected basis.
	assertNear(t, "projected x basis", tf.M[0], 0.5)
	assertNear(t, "projected y basis", tf.M[3], 0.5)
}

func TestComposePerspectiveBehindPinhole(t *testing.T) {
	l := &Layout{Panes: []Pane{
		{Name: "p", Kind: PanePicture, Translate: Vec3{Z: 600}, Scale: Vec2{X: 1, Y: 1}, Alpha: 1, Visible: true, Origin: OriginCenter},
	}}
	tf := composeTransform(l, 0, statesFor(l), ComposeOptions{Perspective: true})
	// At or behind the pinhole the basis passes through unprojected.
	assertNear(t, "x basis", tf.M[0], 1)
}
