package banner

import (
	"sort"
	"strconv"
	"strings"
)

// PaneKind discriminates pane behavior. A single flat struct is used for all
// kinds to avoid interface dispatch on the hot path.
type PaneKind uint8

const (
	PaneNull     PaneKind = iota // container, no visual output
	PanePicture                  // textured quad
	PaneText                     // text block (not rasterized by this core)
	PaneBounding                 // invisible bounds marker
	PaneWindow                   // framed content quad
)

// Origin selects one of the 9 anchor points of a pane's rectangle relative to
// its translation point. Laid out row-major, top row first.
type Origin uint8

const (
	OriginTopLeft Origin = iota
	OriginTopCenter
	OriginTopRight
	OriginCenterLeft
	OriginCenter
	OriginCenterRight
	OriginBottomLeft
	OriginBottomCenter
	OriginBottomRight
)

// anchors returns the horizontal and vertical anchor fractions in {0, ½, 1}.
// Horizontal runs left→right, vertical top→bottom.
func (o Origin) anchors() (ax, ay float32) {
	if o > OriginBottomRight {
		o = OriginCenter
	}
	return float32(o%3) * 0.5, float32(o/3) * 0.5
}

// Pane is a node in the scene tree. Parentage is by name; the transform
// composer treats a repeated name during the ancestor walk as a cycle and
// stops there.
type Pane struct {
	Name   string
	Parent string // empty for roots
	Kind   PaneKind

	Translate Vec3
	Rotate    Vec3 // degrees
	Scale     Vec2
	Size      Vec2
	Alpha     float32 // [0, 1]
	Visible   bool
	Origin    Origin

	// InfluencedAlpha marks a pane that multiplies its parent chain's alpha
	// into its own even when its kind would not otherwise propagate.
	InfluencedAlpha bool

	// VertexColors are the four corner colors (TL, TR, BL, BR), nil when the
	// format supplied none (treated as full-opaque white).
	VertexColors *[4]RGBA

	// Material indexes Layout.Materials; -1 means none.
	Material int
}

// Group is an arbitrary named subset of pane names. Groups whose name follows
// the render-state convention ("RSO" + decimal digits) form the render-state
// family; groups named after console language codes drive locale selection.
type Group struct {
	Name  string
	Panes []string
}

// Layout is the immutable description of a scene: panes in draw order,
// materials, the texture name table, named groups, and canvas dimensions.
type Layout struct {
	Width, Height float32
	Panes         []Pane
	Materials     []Material
	Textures      []string
	Groups        []Group

	paneIndex map[string]int // lazy, first occurrence wins
}

// PaneIndex returns the index of the first pane with the given name, or -1.
// Duplicate names resolve to the first occurrence.
func (l *Layout) PaneIndex(name string) int {
	if l.paneIndex == nil {
		l.paneIndex = make(map[string]int, len(l.Panes))
		for i := range l.Panes {
			if _, ok := l.paneIndex[l.Panes[i].Name]; !ok {
				l.paneIndex[l.Panes[i].Name] = i
			}
		}
	}
	if i, ok := l.paneIndex[name]; ok {
		return i
	}
	return -1
}

// TextureIndex returns the index of name in the texture table, or -1.
func (l *Layout) TextureIndex(name string) int {
	for i, t := range l.Textures {
		if t == name {
			return i
		}
	}
	return -1
}

// renderStateID extracts the numeric identifier from a render-state group
// name ("RSO" + decimal digits).
func renderStateID(name string) (int, bool) {
	if !strings.HasPrefix(name, "RSO") || len(name) == len("RSO") {
		return 0, false
	}
	id, err := strconv.Atoi(name[len("RSO"):])
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// RenderStates returns the sorted identifiers of the layout's render-state
// group family (mutually exclusive scene states).
func (l *Layout) RenderStates() []int {
	var ids []int
	for i := range l.Groups {
		if id, ok := renderStateID(l.Groups[i].Name); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// RenderStateGroup returns the group for the given render-state identifier,
// or nil.
func (l *Layout) RenderStateGroup(id int) *Group {
	for i := range l.Groups {
		if gid, ok := renderStateID(l.Groups[i].Name); ok && gid == id {
			return &l.Groups[i]
		}
	}
	return nil
}

// languageCodes are the group names the console's channel packages use for
// locale-specific pane sets.
var languageCodes = map[string]bool{
	"JPN": true, "ENG": true, "GER": true, "FRA": true,
	"SPA": true, "ITA": true, "NED": true, "KOR": true,
	"CHN": true, "TWN": true, "USA": true, "EUR": true,
}

// Languages returns the names of groups that follow the locale naming
// convention, in layout order. Hosts use these to implement language
// selection; the core itself does not act on them.
func (l *Layout) Languages() []string {
	var out []string
	for i := range l.Groups {
		if languageCodes[l.Groups[i].Name] {
			out = append(out, l.Groups[i].Name)
		}
	}
	return out
}

// GroupPanes returns the pane names of the named group, or nil.
func (l *Layout) GroupPanes(name string) []string {
	for i := range l.Groups {
		if l.Groups[i].Name == name {
			return l.Groups[i].Panes
		}
	}
	return nil
}
