package banner

import (
	"testing"

	"github.com/chewxy/math32"
)

const frameMs = 1000.0 / playbackRate

func TestPlayerStartThenLoop(t *testing.T) {
	start := &Animation{Name: "start", FrameSize: 10}
	loop := &Animation{Name: "loop", FrameSize: 20}
	p := NewPlayer(start, loop)

	if p.Phase() != PhaseStart {
		t.Fatal("should begin in the start phase")
	}
	ev := p.Advance(5 * frameMs)
	assertNear(t, "frame after 5 ticks", ev.Frame, 5)
	if ev.Transitioned {
		t.Error("no transition mid-start")
	}
	if p.Animation() != start {
		t.Error("start phase samples the start animation")
	}

	ev = p.Advance(5 * frameMs)
	if !ev.Transitioned || ev.Phase != PhaseLoop {
		t.Fatalf("reaching the start length should hand over, got %+v", ev)
	}
	if p.Animation() != loop {
		t.Error("loop phase samples the loop animation")
	}
}

func TestPlayerTransitionCarriesOvershoot(t *testing.T) {
	start := &Animation{FrameSize: 10}
	loop := &Animation{FrameSize: 20}
	p := NewPlayer(start, loop)

	ev := p.Advance(12.5 * frameMs)
	if !ev.Transitioned {
		t.Fatal("expected hand-over")
	}
	assertNear(t, "overshoot lands in the loop", ev.Frame, 2.5)
}

func TestPlayerBaseSnapshot(t *testing.T) {
	start := &Animation{FrameSize: 10}
	loop := &Animation{FrameSize: 20}
	p := NewPlayer(start, loop)

	if base, _ := p.Base(); base != nil {
		t.Error("no base pose during the start phase")
	}
	p.Advance(15 * frameMs)
	base, frame := p.Base()
	if base != start {
		t.Fatal("loop phase should expose the start animation as base")
	}
	assertNear(t, "base frame is the start length", frame, 10)
}

func TestPlayerLoopWraps(t *testing.T) {
	loop := &Animation{FrameSize: 8}
	p := NewPlayer(nil, loop)
	if p.Phase() != PhaseLoop {
		t.Fatal("loop-only player starts in the loop phase")
	}
	ev := p.Advance(10 * frameMs)
	if !ev.Looped {
		t.Error("crossing the loop end should report a wrap")
	}
	assertNear(t, "wrapped frame", ev.Frame, 2)
}

func TestPlayerLoopRange(t *testing.T) {
	loop := &Animation{FrameSize: 30}
	p := NewPlayer(nil, loop)
	p.SetLoopRange(10, 20)
	p.Seek(0)
	ev := p.Advance(12 * frameMs)
	if ev.Frame < 10 || ev.Frame >= 20 {
		t.Errorf("frame %v escaped the loop range [10, 20)", ev.Frame)
	}

	// An inverted range restores the full length.
	p.SetLoopRange(25, 5)
	ev = p.Advance(1 * frameMs)
	if ev.Frame < 0 || ev.Frame >= 30 {
		t.Errorf("frame %v outside the full range", ev.Frame)
	}
}

func TestPlayerStartOnlyHolds(t *testing.T) {
	start := &Animation{FrameSize: 10}
	p := NewPlayer(start, nil)
	ev := p.Advance(20 * frameMs)
	if !ev.Finished || ev.Phase != PhaseHold {
		t.Fatalf("start-only animation should finish into hold, got %+v", ev)
	}
	assertNear(t, "held at the last frame", ev.Frame, 10)
	if p.Playing() {
		t.Error("finishing should stop the clock")
	}
	ev = p.Advance(5 * frameMs)
	assertNear(t, "stopped clock ignores time", ev.Frame, 10)
}

func TestPlayerNoAnimations(t *testing.T) {
	p := NewPlayer(nil, nil)
	if p.Playing() {
		t.Error("nothing to play")
	}
	if p.Animation() != nil {
		t.Error("no animation to sample")
	}
}

func TestPlayerStopAndPlay(t *testing.T) {
	loop := &Animation{FrameSize: 10}
	p := NewPlayer(nil, loop)
	p.Advance(2 * frameMs)
	p.Stop()
	ev := p.Advance(5 * frameMs)
	assertNear(t, "stopped position kept", ev.Frame, 2)
	p.Play()
	ev = p.Advance(1 * frameMs)
	assertNear(t, "resumes from held position", ev.Frame, 3)
}

func TestPlayerReset(t *testing.T) {
	start := &Animation{FrameSize: 10}
	loop := &Animation{FrameSize: 20}
	p := NewPlayer(start, loop)
	p.Advance(15 * frameMs)
	p.Reset()
	if p.Phase() != PhaseStart || p.Frame() != 0 {
		t.Errorf("reset should rewind to the start phase, got %v @ %v", p.Phase(), p.Frame())
	}
	if base, _ := p.Base(); base != nil {
		t.Error("reset should drop the base snapshot")
	}
}

func TestPlayerSetRate(t *testing.T) {
	loop := &Animation{FrameSize: 100}
	p := NewPlayer(nil, loop)
	p.SetRate(30)
	ev := p.Advance(1000)
	assertNear(t, "30 fps advances 30 frames per second", ev.Frame, 30)
	p.SetRate(0) // rejected
	ev = p.Advance(1000)
	assertNear(t, "rate unchanged", ev.Frame, 60)
}

func TestPlayerSeekIntoStart(t *testing.T) {
	start := &Animation{FrameSize: 10}
	loop := &Animation{FrameSize: 20}
	p := NewPlayer(start, loop)
	p.Advance(15 * frameMs) // into the loop
	ev := p.Seek(4)
	if ev.Phase != PhaseStart {
		t.Fatalf("seek below the start length should land in the start phase, got %v", ev.Phase)
	}
	assertNear(t, "seek frame", ev.Frame, 4)
	if base, _ := p.Base(); base != nil {
		t.Error("seeking back drops the base snapshot")
	}
}

func TestPlayerSeekAcrossBoundary(t *testing.T) {
	start := &Animation{FrameSize: 10}
	loop := &Animation{FrameSize: 20}
	p := NewPlayer(start, loop)
	ev := p.Seek(35)
	if ev.Phase != PhaseLoop {
		t.Fatalf("seek past the start length should land in the loop, got %v", ev.Phase)
	}
	assertNear(t, "global 35 wraps to loop frame 5", ev.Frame, 5)
	base, frame := p.Base()
	if base != start {
		t.Error("seeking across the boundary should capture the base snapshot")
	}
	assertNear(t, "base frame", frame, 10)
}

func TestPlayerSeekNonFinite(t *testing.T) {
	loop := &Animation{FrameSize: 10}
	p := NewPlayer(nil, loop)
	ev := p.Seek(math32.NaN())
	assertNear(t, "non-finite seeks rewind", ev.Frame, 0)
}

func TestPlayerStartFrameOffset(t *testing.T) {
	start := &Animation{FrameSize: 10}
	loop := &Animation{FrameSize: 20}
	p := NewPlayer(start, loop)
	p.SetStartFrame(5)
	ev := p.Advance(10 * frameMs)
	if !ev.Transitioned {
		t.Fatal("expected hand-over")
	}
	assertNear(t, "loop begins at the entry offset", ev.Frame, 5)
}
