package banner

// Render-state animations for numerically adjacent states often share panes:
// a state's own fragment may carry only a parked placeholder entry for a pane
// (keyframes beyond the frame range, alpha held at zero) while a sibling
// state owns the pane's real animation. MergeRenderState substitutes the
// richer sibling entries so the active state plays complete.

// stateMergeLookahead bounds how many numerically-subsequent sibling states
// are scanned for richer entries.
const stateMergeLookahead = 3

// MergeRenderState augments the active render-state's animation with pane
// entries from its sibling states. bundle holds every state's animation
// fragment keyed by state identifier; active names the current state. The
// input is never mutated: the result is either primary unchanged (when no
// merge applies) or a clone with entries added or replaced and the
// texture-name list extended.
func MergeRenderState(primary *Animation, bundle map[int]*Animation, active int) *Animation {
	if primary == nil {
		return nil
	}

	out := primary
	cloned := false
	mutable := func() *Animation {
		if !cloned {
			out = primary.clone()
			cloned = true
		}
		return out
	}

	for sib := active + 1; sib <= active+stateMergeLookahead; sib++ {
		sa := bundle[sib]
		if sa == nil || sa == primary {
			continue
		}
		for ti := range sa.Tracks {
			st := &sa.Tracks[ti]
			cur := out.Track(st.Pane)
			switch {
			case cur == nil:
				m := mutable()
				adopted := adoptTrack(st, sa, m)
				m.Tracks = append(m.Tracks, adopted)
			case trackDegenerate(cur, out.FrameSize):
				m := mutable()
				adopted := adoptTrack(st, sa, m)
				// Track pointers into out are stable across the clone; find
				// the entry again on the mutable copy.
				for i := range m.Tracks {
					if m.Tracks[i].Pane == st.Pane {
						m.Tracks[i] = adopted
						break
					}
				}
			}
		}
	}
	return out
}

// adoptTrack deep-copies a sibling track into dst's namespace, folding the
// texture names its pattern entries reference into dst's texture list
// (deduplicated) and remapping the keyframe indices accordingly.
func adoptTrack(src *Track, from *Animation, dst *Animation) Track {
	out := cloneTrack(src)
	for i := range out.Entries {
		e := &out.Entries[i]
		if e.Tag != TagTexPattern {
			continue
		}
		for ki := range e.Keys {
			vi := int(e.Keys[ki].Value)
			if vi < 0 || vi >= len(from.Textures) {
				continue
			}
			name := from.Textures[vi]
			idx := dst.textureIndex(name)
			if idx < 0 {
				idx = len(dst.Textures)
				dst.Textures = append(dst.Textures, name)
			}
			e.Keys[ki].Value = float32(idx)
		}
	}
	return out
}

// trackDegenerate reports whether a track is a parked placeholder: every
// keyframe lies at or beyond the animation's frame size (it never actually
// plays) and its pane-alpha channel clamps to zero, so replacing it cannot
// introduce an unwanted fade-out. A track whose alpha channel resolves
// visible is left untouched.
func trackDegenerate(t *Track, frameSize float32) bool {
	any := false
	for i := range t.Entries {
		for _, k := range t.Entries[i].Keys {
			any = true
			if k.Frame < frameSize {
				return false
			}
		}
	}
	if !any {
		return true
	}
	alpha := t.find(TagPose, PoseAlpha, 0)
	if alpha == nil {
		return false
	}
	// Sampling at frame 0 goes through the pre-range policy; for a parked
	// entry that is the first key's value.
	return sampleEntry(alpha, 0, 255) <= 0
}
