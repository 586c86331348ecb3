package animation_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-drift/statekit/pkg/animation"
	statetest "github.com/go-drift/statekit/pkg/testing"
)

const frame = 20 * time.Millisecond

type rig struct {
	clock  *statetest.FakeClock
	frames *animation.Frames
}

func newRig() *rig {
	clk := statetest.NewFakeClock()
	return &rig{clock: clk, frames: animation.NewFrames(clk)}
}

// pump advances n frames of 20ms each.
func (r *rig) pump(n int) {
	for range n {
		r.clock.Advance(frame)
		r.frames.Step()
	}
}

func (r *rig) animated(cfg animation.Config) *animation.Animated {
	if cfg.Duration == 0 {
		cfg.Duration = 100 * time.Millisecond
	}
	cfg.Frames = r.frames
	return animation.NewAnimated(cfg)
}

func TestAnimated_RepeatBudgetExhaustion(t *testing.T) {
	r := newRig()
	ends := 0
	a := r.animated(animation.Config{Repeats: 2, OnEnd: func() { ends++ }})

	done := a.Trigger(false)
	r.pump(5)

	if done.IsResolved() {
		t.Fatal("future resolved after the first leg")
	}
	if a.Progress() != 0 || a.AnimationStatus() != animation.AnimationForward {
		t.Errorf("after first leg: progress=%v status=%v, want snapped back and moving forward", a.Progress(), a.AnimationStatus())
	}
	if !a.IsAnimating() {
		t.Error("should still be animating")
	}

	r.pump(5)
	if !done.IsResolved() {
		t.Fatal("future should resolve when the budget is exhausted")
	}
	if a.IsAnimating() || a.AnimationStatus() != animation.AnimationCompleted || a.Progress() != 1 {
		t.Errorf("after second leg: animating=%v status=%v progress=%v", a.IsAnimating(), a.AnimationStatus(), a.Progress())
	}
	if ends != 1 {
		t.Errorf("OnEnd ran %d times, want 1", ends)
	}
}

func TestAnimated_ReverseRepeats(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 2, ReverseRepeats: true})

	done := a.Trigger(false)
	r.pump(5)
	if a.AnimationStatus() != animation.AnimationReverse || a.Progress() != 1 {
		t.Errorf("after first leg: status=%v progress=%v, want reverse from 1", a.AnimationStatus(), a.Progress())
	}

	r.pump(2)
	if p := a.Progress(); p <= 0 || p >= 1 {
		t.Errorf("mid reverse progress = %v", p)
	}

	r.pump(3)
	if !done.IsResolved() || a.AnimationStatus() != animation.AnimationDismissed || a.Progress() != 0 {
		t.Errorf("resolved=%v status=%v progress=%v", done.IsResolved(), a.AnimationStatus(), a.Progress())
	}
}

func TestAnimated_SnapDoesNotSpendBudget(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 3})

	done := a.Trigger(false)
	r.pump(10)
	if done.IsResolved() {
		t.Fatal("two legs of three should not resolve")
	}
	r.pump(5)
	if !done.IsResolved() {
		t.Fatal("third leg should resolve")
	}
}

func TestAnimated_UnboundedRepeats(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 0})
	done := a.Trigger(false)
	r.pump(50)
	if done.IsResolved() || !a.IsAnimating() {
		t.Error("zero repeats should run forever")
	}
	a.Dispose()
	if !done.IsResolved() {
		t.Error("dispose should resolve the pending future")
	}
}

func TestAnimated_PostFrameNotification(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1})
	notified := 0
	a.Listen(func() { notified++ })

	a.Trigger(false)
	r.pump(5)
	before := notified

	r.frames.Step()
	if notified != before+1 {
		t.Errorf("notifications = %d, want one extra after completion", notified-before)
	}
	if !a.Status().HasData() || a.Value() != 1 {
		t.Errorf("status = %v, want data at 1", a.Status())
	}

	r.frames.Step()
	if notified != before+1 {
		t.Error("extra notification should fire once")
	}
}

func TestAnimated_TriggerWhileRunningIsNoop(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1})

	first := a.Trigger(false)
	r.pump(2)
	p := a.Progress()
	second := a.Trigger(false)

	if first != second {
		t.Error("calls during a run should share the pending future")
	}
	if a.Progress() != p {
		t.Error("trigger without restart should not move progress")
	}
}

func TestAnimated_TriggerFromCompletedReverses(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1})
	a.Trigger(false)
	r.pump(5)

	next := a.Trigger(false)
	if a.AnimationStatus() != animation.AnimationReverse {
		t.Errorf("status = %v, want reverse", a.AnimationStatus())
	}
	r.pump(5)
	if !next.IsResolved() || a.Progress() != 0 {
		t.Errorf("resolved=%v progress=%v", next.IsResolved(), a.Progress())
	}
}

func TestAnimated_Restart(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1, InitialValue: 0.25})

	a.Trigger(false)
	r.pump(3)
	a.Trigger(true)
	if a.Progress() != 0.25 || a.AnimationStatus() != animation.AnimationForward {
		t.Errorf("restart: progress=%v status=%v", a.Progress(), a.AnimationStatus())
	}
}

func TestAnimated_StartReversed(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1, StartReversed: true})
	if a.Progress() != 1 {
		t.Fatalf("initial progress = %v, want upper bound", a.Progress())
	}
	done := a.Trigger(true)
	if a.AnimationStatus() != animation.AnimationReverse {
		t.Errorf("status = %v, want reverse", a.AnimationStatus())
	}
	r.pump(5)
	if !done.IsResolved() || a.Progress() != 0 {
		t.Errorf("resolved=%v progress=%v", done.IsResolved(), a.Progress())
	}
}

func TestAnimated_ResetParametersClearsBudget(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 3})

	done := a.Trigger(false)
	r.pump(5)
	one := 1
	a.ResetParameters(animation.Params{Repeats: &one})

	r.pump(5)
	if !done.IsResolved() {
		t.Error("budget should be re-derived from the new repeat count")
	}
}

func TestAnimated_ResetParametersDuration(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1})
	d := 200 * time.Millisecond
	a.ResetParameters(animation.Params{Duration: &d})

	done := a.Trigger(false)
	r.pump(5)
	if done.IsResolved() {
		t.Error("longer duration should still be running")
	}
	r.pump(5)
	if !done.IsResolved() {
		t.Error("should finish after the new duration")
	}
}

func TestAnimated_CurveChangeInvalidatesProjection(t *testing.T) {
	r := newRig()
	square := func(t float64) float64 { return t * t }
	a := r.animated(animation.Config{Repeats: 1, Curve: square})
	curveChanges := 0
	a.ListenCurve(func() { curveChanges++ })

	a.Trigger(false)
	r.pump(2)
	p := a.Progress()
	if got := a.Curved(); got != square(p) {
		t.Errorf("Curved() = %v, want %v", got, square(p))
	}

	a.ResetParameters(animation.Params{Curve: animation.LinearCurve})
	if curveChanges != 1 {
		t.Errorf("curve listeners ran %d times, want 1", curveChanges)
	}
	if got := a.Curved(); got != p {
		t.Errorf("Curved() after change = %v, want %v", got, p)
	}
}

func TestAnimated_ReverseCurve(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{
		Repeats:        2,
		ReverseRepeats: true,
		ReverseCurve:   func(float64) float64 { return 0.5 },
	})
	a.Trigger(false)
	r.pump(6)
	if a.AnimationStatus() != animation.AnimationReverse {
		t.Fatalf("status = %v", a.AnimationStatus())
	}
	if got := a.Curved(); got != 0.5 {
		t.Errorf("Curved() while reversing = %v, want reverse curve", got)
	}
}

func TestAnimated_DisposeDropsLateFrames(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1})
	notified := 0
	a.Listen(func() { notified++ })

	done := a.Trigger(false)
	r.pump(1)
	a.Dispose()
	n := notified
	r.pump(10)

	if notified != n {
		t.Error("no notifications after dispose")
	}
	if !done.IsResolved() {
		t.Error("dispose should resolve the pending future")
	}
	if r.frames.HasActiveTickers() {
		t.Error("dispose should stop the ticker")
	}
	if !a.Trigger(false).IsResolved() {
		t.Error("trigger after dispose should return a resolved future")
	}
}

func TestAnimated_RefreshRetargetsImplicit(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1})
	target := 10.0
	width := animation.NewImplicit(a, 0.0, func() float64 { return target })

	done := a.Refresh()
	r.pump(3)
	if v := width.Value(); v <= 0 || v >= 10 {
		t.Errorf("mid-flight value = %v", v)
	}
	r.pump(2)
	if !done.IsResolved() || width.Value() != 10 {
		t.Errorf("resolved=%v value=%v", done.IsResolved(), width.Value())
	}

	target = 20
	a.Refresh()
	if width.Value() != 10 {
		t.Errorf("restart should begin from the shown value, got %v", width.Value())
	}
	r.pump(5)
	if width.Value() != 20 || width.Target() != 20 {
		t.Errorf("value = %v, want 20", width.Value())
	}
}

func TestAnimated_RefreshWhileRunningKeepsMotion(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1})
	rebuilds := 0
	a.OnRebuild(func() { rebuilds++ })

	first := a.Trigger(false)
	r.pump(2)
	p := a.Progress()
	if got := a.Refresh(); got != first {
		t.Error("refresh during a run should return the pending future")
	}
	if rebuilds != 1 || a.Progress() != p {
		t.Errorf("rebuilds=%d progress %v -> %v", rebuilds, p, a.Progress())
	}
}

func TestFuture_Wait(t *testing.T) {
	r := newRig()
	a := r.animated(animation.Config{Repeats: 1})
	done := a.Trigger(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := done.Wait(ctx); err == nil {
		t.Error("Wait should time out while frames are not advancing")
	}

	r.pump(5)
	if err := done.Wait(context.Background()); err != nil {
		t.Errorf("Wait() = %v", err)
	}
	done.Resolve()
}

func TestNewAnimated_RejectsBadBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("inverted bounds should panic")
		}
	}()
	animation.NewAnimated(animation.Config{LowerBound: 1, UpperBound: 0.5})
}
