package banner

// PaneState is the authoritative resolved local state of one pane at one
// frame: static layout values combined with sampled animation values. It is
// recomputed per frame by the renderer and never persisted.
type PaneState struct {
	Translate Vec3
	Rotate    Vec3 // degrees
	Scale     Vec2
	Size      Vec2

	Alpha   float32 // [0, 1]; forced to 0 when Visible is false
	Visible bool

	VertexColors [4]RGBA

	// TexPattern is the animated texture substitution resolved against the
	// layout's texture table, or -1 when the pattern is unanimated.
	TexPattern int

	// MatColors are the material's color registers with any animated
	// channels applied. MatAnimated reports whether any channel differed
	// from the static material.
	MatColors   [3]RGBA
	MatAnimated bool

	// UV holds the per-texture-map coordinate transforms with any animated
	// channels applied; its length matches the material's map count.
	UV         []UVTransform
	UVAnimated bool
}

// resolveInput bundles everything the pane state resolver consumes for one
// pane. Track/Base may be nil; the base pair supplies the start phase's
// final pose for channels the active animation leaves unanimated.
type resolveInput struct {
	Track     *Track
	Frame     float32
	Base      *Track
	BaseFrame float32

	// Texture lists for re-resolving animated pattern indices by name.
	AnimTextures   []string
	BaseTextures   []string
	LayoutTextures []string

	// Static material state to overlay animated channels onto.
	MatColors [3]RGBA
	TexMaps   []TexMap

	// HostVisible is the highest-priority visibility override; External*
	// are the out-of-scope collaborator hooks (locale/seasonal
	// substitution). All may be nil.
	HostVisible        *bool
	ExternalVisible    *bool
	ExternalTexPattern *int // layout texture index
}

// channel locates an entry in the active track, falling back to the base
// track, and reports which frame it should be sampled at.
func (in *resolveInput) channel(tag Tag, typ, target uint8) (*Entry, float32, bool) {
	if e := in.Track.find(tag, typ, target); e != nil {
		return e, in.Frame, true
	}
	if e := in.Base.find(tag, typ, target); e != nil {
		return e, in.BaseFrame, false
	}
	return nil, 0, false
}

// scalar samples a channel, returning def when it is unanimated.
func (in *resolveInput) scalar(tag Tag, typ, target uint8, def float32) float32 {
	e, frame, _ := in.channel(tag, typ, target)
	if e == nil {
		return def
	}
	return sampleEntry(e, frame, def)
}

// resolvePaneState combines a pane's static layout values with its sampled
// animation values into one PaneState. Sampled values win over static ones,
// with the visibility and alpha precedence rules applied last.
func resolvePaneState(p *Pane, in resolveInput) PaneState {
	s := PaneState{
		Translate:  p.Translate,
		Rotate:     p.Rotate,
		Scale:      p.Scale,
		Size:       p.Size,
		TexPattern: -1,
		MatColors:  in.MatColors,
	}

	s.Translate.X = in.scalar(TagPose, PoseTransX, 0, p.Translate.X)
	s.Translate.Y = in.scalar(TagPose, PoseTransY, 0, p.Translate.Y)
	s.Translate.Z = in.scalar(TagPose, PoseTransZ, 0, p.Translate.Z)
	s.Rotate.X = in.scalar(TagPose, PoseRotX, 0, p.Rotate.X)
	s.Rotate.Y = in.scalar(TagPose, PoseRotY, 0, p.Rotate.Y)
	s.Rotate.Z = in.scalar(TagPose, PoseRotZ, 0, p.Rotate.Z)
	s.Scale.X = in.scalar(TagPose, PoseScaleX, 0, p.Scale.X)
	s.Scale.Y = in.scalar(TagPose, PoseScaleY, 0, p.Scale.Y)
	s.Size.X = in.scalar(TagPose, PoseSizeW, 0, p.Size.X)
	s.Size.Y = in.scalar(TagPose, PoseSizeH, 0, p.Size.Y)

	// Vertex colors: any animated channel overrides only that corner and
	// channel; the rest falls back to static colors or full-opaque white.
	static := [4]RGBA{White, White, White, White}
	if p.VertexColors != nil {
		static = *p.VertexColors
	}
	for corner := uint8(0); corner < 4; corner++ {
		c := static[corner]
		c.R = in.scalar(TagVertexColor, VCRed, corner, c.R*255) / 255
		c.G = in.scalar(TagVertexColor, VCGreen, corner, c.G*255) / 255
		c.B = in.scalar(TagVertexColor, VCBlue, corner, c.B*255) / 255
		c.A = in.scalar(TagVertexColor, VCAlpha, corner, c.A*255) / 255
		s.VertexColors[corner] = c
	}

	resolveMatColors(&s, &in)
	resolveUV(&s, &in)
	resolveTexPattern(&s, &in)

	// Visibility precedence: host override > animated discrete toggle >
	// animated alpha implies intent to show > external override > static.
	alphaEntry, alphaFrame, _ := in.channel(TagPose, PoseAlpha, 0)
	visEntry, visFrame, _ := in.channel(TagVisibility, 0, 0)
	switch {
	case in.HostVisible != nil:
		s.Visible = *in.HostVisible
	case visEntry != nil:
		s.Visible = sampleEntry(visEntry, visFrame, 0) >= 0.5
	case alphaEntry != nil:
		s.Visible = true
	case in.ExternalVisible != nil:
		s.Visible = *in.ExternalVisible
	default:
		s.Visible = p.Visible
	}

	if !s.Visible {
		s.Alpha = 0
		return s
	}

	alpha := p.Alpha
	if alphaEntry != nil {
		alpha = sampleEntry(alphaEntry, alphaFrame, p.Alpha*255) / 255
	}
	factor := in.scalar(TagMatColor, MatAlpha, 0, 255) / 255
	s.Alpha = clamp01(alpha * factor)
	return s
}

func resolveMatColors(s *PaneState, in *resolveInput) {
	for reg := uint8(0); reg < 3; reg++ {
		c := s.MatColors[reg]
		c.R = in.scalar(TagMatColor, MatRed, reg, c.R*255) / 255
		c.G = in.scalar(TagMatColor, MatGreen, reg, c.G*255) / 255
		c.B = in.scalar(TagMatColor, MatBlue, reg, c.B*255) / 255
		c.A = in.scalar(TagMatColor, MatAlphaChan, reg, c.A*255) / 255
		if c != s.MatColors[reg] {
			s.MatAnimated = true
		}
		s.MatColors[reg] = c
	}
}

func resolveUV(s *PaneState, in *resolveInput) {
	if len(in.TexMaps) == 0 {
		return
	}
	s.UV = make([]UVTransform, len(in.TexMaps))
	for m := range in.TexMaps {
		uv := in.TexMaps[m].UV
		mi := uint8(m)
		uv.Translate.X = in.scalar(TagTexUV, UVTransU, mi, uv.Translate.X)
		uv.Translate.Y = in.scalar(TagTexUV, UVTransV, mi, uv.Translate.Y)
		uv.Rotate = in.scalar(TagTexUV, UVRotate, mi, uv.Rotate)
		uv.Scale.X = in.scalar(TagTexUV, UVScaleU, mi, uv.Scale.X)
		uv.Scale.Y = in.scalar(TagTexUV, UVScaleV, mi, uv.Scale.Y)
		if uv != in.TexMaps[m].UV {
			s.UVAnimated = true
		}
		s.UV[m] = uv
	}
}

// resolveTexPattern maps a discrete pattern keyframe — an index into the
// animation's own texture list — back into the layout's texture table by
// name. The two tables are not index-compatible. An external override wins
// over the animated value.
func resolveTexPattern(s *PaneState, in *resolveInput) {
	if in.ExternalTexPattern != nil {
		s.TexPattern = *in.ExternalTexPattern
		return
	}
	e, frame, fromTrack := in.channel(TagTexPattern, 0, 0)
	if e == nil {
		return
	}
	names := in.AnimTextures
	if !fromTrack {
		names = in.BaseTextures
	}
	v := sampleEntry(e, frame, -1)
	if v < 0 {
		return
	}
	idx := int(v + 0.5)
	if idx >= len(names) {
		return
	}
	for li, name := range in.LayoutTextures {
		if name == names[idx] {
			s.TexPattern = li
			return
		}
	}
}
