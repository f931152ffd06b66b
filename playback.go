package banner

import "github.com/chewxy/math32"

// Phase identifies which animation phase the player is in.
type Phase uint8

const (
	PhaseStart Phase = iota // plays once, frame ∈ [0, startLength)
	PhaseLoop               // wraps within the loop range
	PhaseHold               // clamps at the last frame and stops
)

// playbackRate is the console's display rate; animations are authored
// against it. Frames per second.
const playbackRate = 60

// FrameEvent reports the player's position after an operation, plus what
// happened during it.
type FrameEvent struct {
	Phase        Phase
	Frame        float32
	Looped       bool // the loop range wrapped this tick
	Transitioned bool // the start phase handed over to the loop phase
	Finished     bool // the hold phase reached its end and stopped the clock
}

// Player drives the global frame counter across the start and loop animation
// phases. The host owns scheduling: it calls Advance with wall-clock deltas
// (or Seek for random access) and renders the resulting frame synchronously.
// Nothing here is safe for concurrent use; the host owns a single in-flight
// tick.
type Player struct {
	start *Animation
	loop  *Animation

	phase   Phase
	frame   float32
	playing bool
	rate    float32

	loopStart, loopEnd float32
	entry              float32 // loop-phase start offset

	baseFrame float32 // final start-phase frame, snapshot at hand-over
	hasBase   bool
}

// NewPlayer creates a player over a start-phase animation and a loop-phase
// animation. Either may be nil: with only a loop the player loops from frame
// zero; with only a start the animation plays once and holds its last frame.
func NewPlayer(start, loop *Animation) *Player {
	p := &Player{start: start, loop: loop, rate: playbackRate, playing: true}
	if loop != nil {
		p.loopEnd = loop.FrameSize
	}
	if start == nil {
		if loop != nil {
			p.phase = PhaseLoop
			p.frame = p.loopStart
		} else {
			p.phase = PhaseHold
			p.playing = false
		}
	}
	return p
}

// Phase returns the current playback phase.
func (p *Player) Phase() Phase { return p.phase }

// Frame returns the current fractional frame within the active phase.
func (p *Player) Frame() float32 { return p.frame }

// Playing reports whether the driving clock is running.
func (p *Player) Playing() bool { return p.playing }

// Animation returns the animation the current phase samples, or nil.
func (p *Player) Animation() *Animation {
	switch p.phase {
	case PhaseStart:
		return p.start
	case PhaseLoop:
		return p.loop
	default:
		if p.start != nil {
			return p.start
		}
		return p.loop
	}
}

// Base returns the start animation and its final frame while the loop phase
// plays, so channels the loop leaves unanimated keep showing the start
// phase's final pose. Nil outside the loop phase.
func (p *Player) Base() (*Animation, float32) {
	if p.phase == PhaseLoop && p.hasBase {
		return p.start, p.baseFrame
	}
	return nil, 0
}

// SetRate overrides the frames-per-second conversion used by Advance.
func (p *Player) SetRate(fps float32) {
	if fps > 0 {
		p.rate = fps
	}
}

// SetStartFrame sets the frame offset the loop phase begins at after the
// start phase hands over (and when seeking into the loop phase).
func (p *Player) SetStartFrame(frame float32) {
	if frame >= 0 {
		p.entry = frame
	}
}

// SetLoopRange restricts the loop phase to the sub-range [lo, hi). An empty
// or inverted range restores the full animation length.
func (p *Player) SetLoopRange(lo, hi float32) {
	if p.loop == nil {
		return
	}
	if lo < 0 || hi <= lo || hi > p.loop.FrameSize {
		p.loopStart, p.loopEnd = 0, p.loop.FrameSize
		return
	}
	p.loopStart, p.loopEnd = lo, hi
}

// Play starts the driving clock.
func (p *Player) Play() { p.playing = true }

// Stop halts the driving clock. The frame position is kept; Advance becomes
// a no-op until Play.
func (p *Player) Stop() { p.playing = false }

// Reset rewinds to the beginning of the first available phase. The playing
// state is preserved.
func (p *Player) Reset() {
	p.hasBase = false
	switch {
	case p.start != nil:
		p.phase = PhaseStart
		p.frame = 0
	case p.loop != nil:
		p.phase = PhaseLoop
		p.frame = p.loopStart
	default:
		p.phase = PhaseHold
		p.frame = 0
	}
}

// startLength returns the start phase's frame count.
func (p *Player) startLength() float32 {
	if p.start == nil {
		return 0
	}
	return p.start.FrameSize
}

// current builds a FrameEvent for the present position.
func (p *Player) current() FrameEvent {
	return FrameEvent{Phase: p.phase, Frame: p.frame}
}

// Advance accumulates deltaMs of wall-clock time into the fractional frame
// counter and runs any due phase transition. Ticks need not land on whole
// frames.
func (p *Player) Advance(deltaMs float64) FrameEvent {
	if !p.playing || deltaMs <= 0 {
		return p.current()
	}
	df := float32(deltaMs) / 1000 * p.rate
	ev := FrameEvent{Phase: p.phase}

	switch p.phase {
	case PhaseStart:
		p.frame += df
		if n := p.startLength(); p.frame >= n {
			overshoot := p.frame - n
			if p.loop != nil {
				p.handOver()
				p.frame = p.wrapLoop(p.frame + overshoot)
				ev.Transitioned = true
			} else {
				p.phase = PhaseHold
				p.frame = n
				p.playing = false
				ev.Finished = true
			}
		}
	case PhaseLoop:
		before := p.frame
		p.frame = p.wrapLoop(p.frame + df)
		ev.Looped = p.frame < before || df >= p.loopEnd-p.loopStart
	default: // PhaseHold
		n := p.startLength()
		if p.loop != nil && p.start == nil {
			n = p.loop.FrameSize
		}
		p.frame += df
		if p.frame >= n {
			p.frame = n
			p.playing = false
			ev.Finished = true
		}
	}

	ev.Phase = p.phase
	ev.Frame = p.frame
	return ev
}

// handOver switches from the start phase to the loop phase, snapshotting the
// start phase's final frame for base-pose fallback.
func (p *Player) handOver() {
	p.phase = PhaseLoop
	p.baseFrame = p.startLength()
	p.hasBase = true
	p.frame = p.loopStart + p.entry
}

// wrapLoop maps a frame into the loop range.
func (p *Player) wrapLoop(f float32) float32 {
	span := p.loopEnd - p.loopStart
	if span <= 0 {
		return p.loopStart
	}
	f = math32.Mod(f-p.loopStart, span)
	if f < 0 {
		f += span
	}
	return p.loopStart + f
}

// Seek positions the player at a single global frame number spanning the
// start and loop phases: frames below the start length land in the start
// phase, the remainder wraps into the loop range. Seeking across the
// boundary captures the base-pose snapshot exactly like a played
// transition.
func (p *Player) Seek(globalFrame float32) FrameEvent {
	if !finite(globalFrame) || globalFrame < 0 {
		globalFrame = 0
	}
	n := p.startLength()
	switch {
	case p.start != nil && globalFrame < n:
		p.phase = PhaseStart
		p.frame = globalFrame
		p.hasBase = false
	case p.loop != nil:
		p.handOver()
		p.hasBase = p.start != nil
		p.frame = p.wrapLoop(p.loopStart + p.entry + (globalFrame - n))
	default:
		p.phase = PhaseHold
		p.frame = n
	}
	return p.current()
}
