package banner

import "testing"

func staticPane() *Pane {
	return &Pane{
		Name:      "pic",
		Kind:      PanePicture,
		Translate: Vec3{X: 10, Y: 20, Z: 3},
		Rotate:    Vec3{Z: 45},
		Scale:     Vec2{X: 1, Y: 1},
		Size:      Vec2{X: 64, Y: 32},
		Alpha:     1,
		Visible:   true,
	}
}

func TestResolveStaticPassthrough(t *testing.T) {
	p := staticPane()
	s := resolvePaneState(p, resolveInput{})
	assertNear(t, "tx", s.Translate.X, 10)
	assertNear(t, "ty", s.Translate.Y, 20)
	assertNear(t, "rz", s.Rotate.Z, 45)
	assertNear(t, "w", s.Size.X, 64)
	assertNear(t, "alpha", s.Alpha, 1)
	if !s.Visible {
		t.Error("static visible pane should resolve visible")
	}
	if s.TexPattern != -1 {
		t.Errorf("unanimated pattern = %d, want -1", s.TexPattern)
	}
	for i := range s.VertexColors {
		assertColorNear(t, "vertex color defaults to white", s.VertexColors[i], White)
	}
}

func TestResolveAnimatedPose(t *testing.T) {
	p := staticPane()
	tr := &Track{Pane: "pic", Entries: []Entry{
		poseEntry(PoseTransX, Keyframe{Frame: 0, Value: 0}, Keyframe{Frame: 10, Value: 100}),
	}}
	s := resolvePaneState(p, resolveInput{Track: tr, Frame: 5})
	assertNear(t, "animated tx", s.Translate.X, 50)
	assertNear(t, "static ty untouched", s.Translate.Y, 20)
}

func TestResolveBaseTrackFallback(t *testing.T) {
	// The start phase's final pose supplies channels the loop leaves
	// unanimated, sampled at the frozen base frame.
	p := staticPane()
	base := &Track{Pane: "pic", Entries: []Entry{
		poseEntry(PoseTransX, Keyframe{Frame: 0, Value: 0}, Keyframe{Frame: 60, Value: 120}),
	}}
	active := &Track{Pane: "pic", Entries: []Entry{
		poseEntry(PoseTransY, Keyframe{Frame: 0, Value: 7}),
	}}
	s := resolvePaneState(p, resolveInput{Track: active, Frame: 30, Base: base, BaseFrame: 60})
	assertNear(t, "x from base at base frame", s.Translate.X, 120)
	assertNear(t, "y from active track", s.Translate.Y, 7)
}

func TestResolveVisibilityPrecedence(t *testing.T) {
	p := staticPane()
	p.Visible = false

	off := false
	on := true
	visOn := &Track{Pane: "pic", Entries: []Entry{
		{Tag: TagVisibility, Interp: InterpStep, Keys: []Keyframe{{Frame: 0, Value: 1}}},
	}}

	// Host override beats the animated toggle.
	s := resolvePaneState(p, resolveInput{Track: visOn, HostVisible: &off})
	if s.Visible {
		t.Error("host override should beat the animated visibility toggle")
	}
	// Animated toggle beats static.
	s = resolvePaneState(p, resolveInput{Track: visOn})
	if !s.Visible {
		t.Error("animated toggle should beat the static flag")
	}
	// An animated alpha channel alone implies the pane is meant to show.
	alphaTr := &Track{Pane: "pic", Entries: []Entry{
		{Tag: TagPose, Type: PoseAlpha, Interp: InterpLinear, Keys: []Keyframe{{Frame: 0, Value: 128}}},
	}}
	s = resolvePaneState(p, resolveInput{Track: alphaTr})
	if !s.Visible {
		t.Error("an animated alpha channel should imply visibility")
	}
	// External override beats static when nothing is animated.
	s = resolvePaneState(p, resolveInput{ExternalVisible: &on})
	if !s.Visible {
		t.Error("external override should beat the static flag")
	}
	s = resolvePaneState(p, resolveInput{})
	if s.Visible {
		t.Error("static flag should apply when nothing else does")
	}
}

func TestResolveInvisibleForcesZeroAlpha(t *testing.T) {
	p := staticPane()
	off := false
	s := resolvePaneState(p, resolveInput{HostVisible: &off})
	assertNear(t, "alpha", s.Alpha, 0)
}

func TestResolveAnimatedAlphaScaled(t *testing.T) {
	p := staticPane()
	tr := &Track{Pane: "pic", Entries: []Entry{
		{Tag: TagPose, Type: PoseAlpha, Interp: InterpLinear, Keys: []Keyframe{{Frame: 0, Value: 128}}},
	}}
	s := resolvePaneState(p, resolveInput{Track: tr})
	assertNear(t, "alpha", s.Alpha, 128.0/255)
}

func TestResolveMaterialAlphaFactor(t *testing.T) {
	p := staticPane()
	tr := &Track{Pane: "pic", Entries: []Entry{
		{Tag: TagMatColor, Type: MatAlpha, Interp: InterpLinear, Keys: []Keyframe{{Frame: 0, Value: 127.5}}},
	}}
	s := resolvePaneState(p, resolveInput{Track: tr})
	assertNear(t, "material alpha factor halves pane alpha", s.Alpha, 0.5)
}

func TestResolveVertexColorChannel(t *testing.T) {
	p := staticPane()
	tr := &Track{Pane: "pic", Entries: []Entry{
		{Tag: TagVertexColor, Type: VCRed, Target: 2, Interp: InterpLinear, Keys: []Keyframe{{Frame: 0, Value: 0}}},
	}}
	s := resolvePaneState(p, resolveInput{Track: tr})
	assertColorNear(t, "animated corner", s.VertexColors[2], RGBA{R: 0, G: 1, B: 1, A: 1})
	assertColorNear(t, "other corner untouched", s.VertexColors[0], White)
}

func TestResolveMatColorAnimation(t *testing.T) {
	p := staticPane()
	in := resolveInput{
		MatColors: [3]RGBA{White, White, White},
		Track: &Track{Pane: "pic", Entries: []Entry{
			{Tag: TagMatColor, Type: MatGreen, Target: 1, Interp: InterpLinear, Keys: []Keyframe{{Frame: 0, Value: 51}}},
		}},
	}
	s := resolvePaneState(p, in)
	if !s.MatAnimated {
		t.Error("a differing channel should mark the material animated")
	}
	assertNear(t, "register 1 green", s.MatColors[1].G, 0.2)
	assertColorNear(t, "register 0 untouched", s.MatColors[0], White)
}

func TestResolveMatColorStaticNotAnimated(t *testing.T) {
	p := staticPane()
	s := resolvePaneState(p, resolveInput{MatColors: [3]RGBA{White, White, White}})
	if s.MatAnimated {
		t.Error("no animated channel should leave MatAnimated false")
	}
}

func TestResolveUVTransform(t *testing.T) {
	p := staticPane()
	in := resolveInput{
		TexMaps: []TexMap{{UV: identityUV}},
		Track: &Track{Pane: "pic", Entries: []Entry{
			{Tag: TagTexUV, Type: UVTransU, Target: 0, Interp: InterpLinear, Keys: []Keyframe{{Frame: 0, Value: 0.25}}},
		}},
	}
	s := resolvePaneState(p, in)
	if !s.UVAnimated {
		t.Error("an animated UV channel should mark UVAnimated")
	}
	assertNear(t, "u translate", s.UV[0].Translate.X, 0.25)
	assertNear(t, "scale untouched", s.UV[0].Scale.X, 1)
}

func TestResolveTexPatternByName(t *testing.T) {
	// The animation's own texture list and the layout's table are not
	// index-compatible; resolution goes through the name.
	p := staticPane()
	in := resolveInput{
		Track: &Track{Pane: "pic", Entries: []Entry{
			{Tag: TagTexPattern, Interp: InterpStep, Keys: []Keyframe{{Frame: 0, Value: 1}}},
		}},
		AnimTextures:   []string{"a.tpl", "b.tpl"},
		LayoutTextures: []string{"b.tpl", "c.tpl", "a.tpl"},
	}
	s := resolvePaneState(p, in)
	if s.TexPattern != 0 {
		t.Errorf("pattern = %d, want layout index 0 (b.tpl)", s.TexPattern)
	}
}

func TestResolveTexPatternExternalOverride(t *testing.T) {
	p := staticPane()
	override := 2
	in := resolveInput{
		Track: &Track{Pane: "pic", Entries: []Entry{
			{Tag: TagTexPattern, Interp: InterpStep, Keys: []Keyframe{{Frame: 0, Value: 0}}},
		}},
		AnimTextures:       []string{"a.tpl"},
		LayoutTextures:     []string{"a.tpl", "b.tpl", "c.tpl"},
		ExternalTexPattern: &override,
	}
	s := resolvePaneState(p, in)
	if s.TexPattern != 2 {
		t.Errorf("pattern = %d, want external override 2", s.TexPattern)
	}
}

func TestResolveTexPatternOutOfRange(t *testing.T) {
	p := staticPane()
	in := resolveInput{
		Track: &Track{Pane: "pic", Entries: []Entry{
			{Tag: TagTexPattern, Interp: InterpStep, Keys: []Keyframe{{Frame: 0, Value: 9}}},
		}},
		AnimTextures:   []string{"a.tpl"},
		LayoutTextures: []string{"a.tpl"},
	}
	s := resolvePaneState(p, in)
	if s.TexPattern != -1 {
		t.Errorf("out-of-range index should stay unresolved, got %d", s.TexPattern)
	}
}
