package banner

import "github.com/chewxy/math32"

// sampleEntry evaluates one animation channel at the given frame, honoring
// the entry's interpolation mode and pre/post extrapolation policy. An empty
// keyframe list returns def; numeric edge cases resolve locally and never
// propagate.
func sampleEntry(e *Entry, frame, def float32) float32 {
	keys := e.Keys
	if len(keys) == 0 {
		return def
	}
	if !finite(frame) {
		frame = keys[0].Frame
	}
	if len(keys) == 1 {
		return keys[0].Value
	}

	first := keys[0]
	last := keys[len(keys)-1]

	if frame < first.Frame {
		switch e.Pre {
		case ExtrapLinear:
			return extrapolate(keys[0], keys[1], frame)
		case ExtrapLoop:
			f, ok := loopRemap(frame, first.Frame, last.Frame)
			if !ok {
				return first.Value
			}
			frame = f
		default:
			return first.Value
		}
	}
	if frame >= last.Frame {
		switch e.Post {
		case ExtrapLinear:
			if frame == last.Frame {
				return last.Value
			}
			return extrapolate(keys[len(keys)-2], last, frame)
		case ExtrapLoop:
			// Remap even at exactly last.Frame so sampling stays periodic:
			// the end of the range is the start of the next cycle.
			f, ok := loopRemap(frame, first.Frame, last.Frame)
			if !ok {
				return last.Value
			}
			frame = f
		default:
			return last.Value
		}
	}

	// Locate the bracketing segment: the last key with Frame <= frame.
	i := 0
	for i+2 < len(keys) && keys[i+1].Frame <= frame {
		i++
	}
	k0, k1 := keys[i], keys[i+1]

	switch e.Interp {
	case InterpStep:
		if frame >= k1.Frame {
			return k1.Value
		}
		return k0.Value
	case InterpLinear:
		span := k1.Frame - k0.Frame
		if span <= 0 {
			return k1.Value
		}
		return lerp(k0.Value, k1.Value, (frame-k0.Frame)/span)
	default:
		return hermite(k0, k1, frame, e.ScaleTangents)
	}
}

// extrapolate continues the straight line through ka and kb out to frame.
// A zero frame span degenerates to kb's value.
func extrapolate(ka, kb Keyframe, frame float32) float32 {
	span := kb.Frame - ka.Frame
	if span <= 0 {
		return kb.Value
	}
	slope := (kb.Value - ka.Value) / span
	return kb.Value + slope*(frame-kb.Frame)
}

// loopRemap maps frame into [lo, hi) by modulo distance. Reports false when
// the range is empty.
func loopRemap(frame, lo, hi float32) (float32, bool) {
	span := hi - lo
	if span <= 0 {
		return 0, false
	}
	f := math32.Mod(frame-lo, span)
	if f < 0 {
		f += span
	}
	return lo + f, true
}

// hermite evaluates the cubic Hermite basis across the segment [k0, k1].
// When scaleTangents is set, tangents are multiplied by the segment's frame
// span, reproducing the source format's slope-per-frame tangent convention.
func hermite(k0, k1 Keyframe, frame float32, scaleTangents bool) float32 {
	span := k1.Frame - k0.Frame
	if span <= 0 {
		return k1.Value
	}
	t := (frame - k0.Frame) / span
	t2 := t * t
	t3 := t2 * t

	m0, m1 := k0.Tangent, k1.Tangent
	if scaleTangents {
		m0 *= span
		m1 *= span
	}

	return (2*t3-3*t2+1)*k0.Value +
		(t3-2*t2+t)*m0 +
		(-2*t3+3*t2)*k1.Value +
		(t3-t2)*m1
}
