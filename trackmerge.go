package banner

import (
	"sort"

	"github.com/chewxy/math32"
)

// Keyframe collision tolerances. Two keyframes within mergeFrameEps of each
// other are a collision; if value and tangent also agree within
// mergeValueEps the duplicate is dropped, otherwise the later one is nudged
// forward by mergeFrameEps. The near-zero-width step that the nudge produces
// is the source format's idiom for instantaneous changes.
const (
	mergeFrameEps = 1e-4
	mergeValueEps = 1e-4
)

// MergeAnimations combines animation fragments (typically several decoded
// files targeting the same layout) into one animation with a single track
// per distinct pane name. Entries with the same identity have their keyframe
// lists merged; texture-pattern values are remapped into the merged
// texture-name list. Nil fragments are skipped; merging nothing returns nil.
func MergeAnimations(frags ...*Animation) *Animation {
	out := &Animation{}
	trackIdx := make(map[string]int)
	seen := 0

	for _, frag := range frags {
		if frag == nil {
			continue
		}
		seen++
		if frag.Name != "" && out.Name == "" {
			out.Name = frag.Name
		}
		if frag.FrameSize > out.FrameSize {
			out.FrameSize = frag.FrameSize
		}

		// Fold this fragment's texture list into the merged list, recording
		// old→new indices for texture-pattern value remapping.
		remap := make([]int, len(frag.Textures))
		for i, name := range frag.Textures {
			idx := out.textureIndex(name)
			if idx < 0 {
				idx = len(out.Textures)
				out.Textures = append(out.Textures, name)
			}
			remap[i] = idx
		}

		for ti := range frag.Tracks {
			src := &frag.Tracks[ti]
			di, ok := trackIdx[src.Pane]
			if !ok {
				di = len(out.Tracks)
				trackIdx[src.Pane] = di
				out.Tracks = append(out.Tracks, Track{Pane: src.Pane})
			}
			dst := &out.Tracks[di]
			for ei := range src.Entries {
				mergeEntry(dst, &src.Entries[ei], remap)
			}
		}
	}

	if seen == 0 {
		return nil
	}
	return out
}

// entrySlotted reports whether a tag kind carries multiple independent slots,
// in which case entries are keyed by (target, type) instead of type alone.
func entrySlotted(tag Tag) bool {
	switch tag {
	case TagVertexColor, TagMatColor, TagTexUV:
		return true
	}
	return false
}

// mergeEntry folds src into the track, remapping texture-pattern indices
// through remap. Colliding entries get their keyframes concatenated, sorted
// and deduplicated.
func mergeEntry(dst *Track, src *Entry, remap []int) {
	e := *src
	e.Keys = append([]Keyframe(nil), src.Keys...)
	if e.Tag == TagTexPattern {
		for i := range e.Keys {
			vi := int(e.Keys[i].Value)
			if vi >= 0 && vi < len(remap) {
				e.Keys[i].Value = float32(remap[vi])
			}
		}
	}

	target := e.Target
	if !entrySlotted(e.Tag) {
		target = 0
	}
	for i := range dst.Entries {
		d := &dst.Entries[i]
		dt := d.Target
		if !entrySlotted(d.Tag) {
			dt = 0
		}
		if d.Tag == e.Tag && d.Type == e.Type && dt == target {
			d.Keys = mergeKeyframes(append(d.Keys, e.Keys...))
			return
		}
	}
	dst.Entries = append(dst.Entries, e)
}

// mergeKeyframes sorts keys by frame and resolves collisions: exact
// duplicates (within tolerance) are dropped, differing ones are nudged apart
// to preserve both.
func mergeKeyframes(keys []Keyframe) []Keyframe {
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Frame < keys[j].Frame
	})

	out := keys[:0]
	for _, k := range keys {
		if len(out) == 0 {
			out = append(out, k)
			continue
		}
		prev := &out[len(out)-1]
		if k.Frame-prev.Frame > mergeFrameEps {
			out = append(out, k)
			continue
		}
		if math32.Abs(k.Value-prev.Value) <= mergeValueEps &&
			math32.Abs(k.Tangent-prev.Tangent) <= mergeValueEps {
			continue // true duplicate
		}
		k.Frame = prev.Frame + mergeFrameEps
		out = append(out, k)
	}
	return out
}
