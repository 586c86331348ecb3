package animation_test

import (
	"fmt"
	"time"

	"github.com/go-drift/statekit/pkg/animation"
	statetest "github.com/go-drift/statekit/pkg/testing"
)

// This example runs an animation that plays twice, driving frames by hand.
func ExampleAnimated() {
	clk := statetest.NewFakeClock()
	frames := animation.NewFrames(clk)

	a := animation.NewAnimated(animation.Config{
		Duration: 100 * time.Millisecond,
		Repeats:  2,
		OnEnd:    func() { fmt.Println("ended") },
		Frames:   frames,
	})
	defer a.Dispose()

	done := a.Trigger(false)
	for !done.IsResolved() {
		clk.Advance(50 * time.Millisecond)
		frames.Step()
		fmt.Printf("%.1f %v\n", a.Progress(), a.AnimationStatus())
	}
	// Output:
	// 0.5 forward
	// 0.0 forward
	// 0.5 forward
	// ended
	// 1.0 completed
}

// This example maps progress to a typed value with a tween.
func ExampleTween() {
	width := animation.NewTween(100.0, 200.0)
	delay := animation.NewTween(0*time.Millisecond, 400*time.Millisecond)

	fmt.Println(width.Evaluate(0.25))
	fmt.Println(delay.Evaluate(0.5))
	// Output:
	// 125
	// 200ms
}

// This example creates a custom easing curve.
func ExampleCubicBezier() {
	curve := animation.CubicBezier(0.25, 0.1, 0.25, 1.0)
	for _, t := range []float64{0, 0.5, 1} {
		fmt.Printf("%.2f\n", curve(t))
	}
	// Output:
	// 0.00
	// 0.80
	// 1.00
}
