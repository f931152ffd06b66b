package banner

// Tag groups a track's entries by what they animate.
type Tag uint8

const (
	TagPose        Tag = iota // translate/rotate/scale/size/alpha
	TagVertexColor            // per-corner vertex color channels
	TagVisibility             // discrete visibility toggle
	TagTexPattern             // discrete texture-pattern index
	TagTexUV                  // texture-coordinate SRT
	TagMatColor               // material color registers / material alpha
)

// Pose entry type codes. Values are continuous unless noted.
const (
	PoseTransX uint8 = 0
	PoseTransY uint8 = 1
	PoseTransZ uint8 = 2
	PoseRotX   uint8 = 3
	PoseRotY   uint8 = 4
	PoseRotZ   uint8 = 5
	PoseScaleX uint8 = 6
	PoseScaleY uint8 = 7
	PoseSizeW  uint8 = 8
	PoseSizeH  uint8 = 9
	PoseAlpha  uint8 = 16 // 0..255 scale in keyframe values
)

// Vertex-color entry type codes; Entry.Target carries the corner (0=TL, 1=TR,
// 2=BL, 3=BR). Values are on a 0..255 scale.
const (
	VCRed uint8 = iota
	VCGreen
	VCBlue
	VCAlpha
)

// Texture-UV entry type codes; Entry.Target carries the texture-map index.
const (
	UVTransU uint8 = iota
	UVTransV
	UVRotate
	UVScaleU
	UVScaleV
)

// Material-color entry type codes; Entry.Target carries the register (0..2).
// Values are on a 0..255 scale. MatAlpha is the register-independent
// secondary alpha factor multiplied into the resolved pane alpha.
const (
	MatRed uint8 = iota
	MatGreen
	MatBlue
	MatAlphaChan
	MatAlpha uint8 = 16
)

// Interp selects keyframe interpolation.
type Interp uint8

const (
	InterpStep Interp = iota
	InterpLinear
	InterpHermite
)

// Extrap selects behavior outside a keyframe sequence's frame range.
type Extrap uint8

const (
	ExtrapClamp Extrap = iota
	ExtrapLinear
	ExtrapLoop
)

// Keyframe is one sample point of an animation channel. Tangent is the
// hermite slope in value units per frame.
type Keyframe struct {
	Frame   float32
	Value   float32
	Tangent float32
}

// Entry is a typed keyframe sequence within a track. Keys are
// frame-monotonic. Target carries the slot for tag kinds with multiple
// independent slots (vertex-color corner, material register, texture-map
// index) and is zero otherwise.
type Entry struct {
	Tag    Tag
	Type   uint8
	Target uint8

	Interp        Interp
	Pre, Post     Extrap
	ScaleTangents bool

	Keys []Keyframe
}

// Track holds every animation entry targeting one named pane.
type Track struct {
	Pane    string
	Entries []Entry
}

// find returns the entry matching (tag, type, target), or nil.
func (t *Track) find(tag Tag, typ, target uint8) *Entry {
	if t == nil {
		return nil
	}
	for i := range t.Entries {
		e := &t.Entries[i]
		if e.Tag == tag && e.Type == typ && e.Target == target {
			return e
		}
	}
	return nil
}

// Animation is a decoded animation file: a loop length in frames, one track
// per targeted pane, and the animation's own texture-name list, which
// texture-pattern entries index. That list is not index-compatible with the
// layout's texture table; resolution is by name.
type Animation struct {
	Name      string
	FrameSize float32
	Tracks    []Track
	Textures  []string
}

// Track returns the track for the named pane, or nil.
func (a *Animation) Track(pane string) *Track {
	if a == nil {
		return nil
	}
	for i := range a.Tracks {
		if a.Tracks[i].Pane == pane {
			return &a.Tracks[i]
		}
	}
	return nil
}

// textureIndex returns the index of name in the animation's texture list,
// or -1.
func (a *Animation) textureIndex(name string) int {
	for i, t := range a.Textures {
		if t == name {
			return i
		}
	}
	return -1
}

// clone makes a deep copy of the animation. The render-state merge resolver
// never mutates its input; it clones on first change.
func (a *Animation) clone() *Animation {
	if a == nil {
		return nil
	}
	out := &Animation{
		Name:      a.Name,
		FrameSize: a.FrameSize,
		Tracks:    make([]Track, len(a.Tracks)),
		Textures:  append([]string(nil), a.Textures...),
	}
	for i := range a.Tracks {
		out.Tracks[i] = cloneTrack(&a.Tracks[i])
	}
	return out
}

func cloneTrack(t *Track) Track {
	out := Track{Pane: t.Pane, Entries: make([]Entry, len(t.Entries))}
	for i := range t.Entries {
		e := t.Entries[i]
		e.Keys = append([]Keyframe(nil), e.Keys...)
		out.Entries[i] = e
	}
	return out
}
