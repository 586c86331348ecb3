// Package testing provides deterministic drivers for state and animation
// tests.
//
// # Quick Start
//
// Create a tester, mount a view and pump frames:
//
//	func TestFade(t *testing.T) {
//	    tester := statetest.NewTesterWithT(t)
//	    fade := animation.NewAnimated(animation.Config{
//	        Duration: 200 * time.Millisecond,
//	        Repeats:  1,
//	        Frames:   tester.Frames(),
//	    })
//	    done := fade.Trigger(false)
//
//	    if err := tester.PumpAndSettle(time.Second); err != nil {
//	        t.Fatal(err)
//	    }
//	    if !done.IsResolved() {
//	        t.Error("fade should have finished")
//	    }
//	}
//
// # Frame Cycle
//
// Pump runs one cycle without moving time: queued scheduler tasks, then
// tickers and post-frame callbacks, then dirty view builds. PumpFrame
// advances the fake clock by FrameInterval first.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import statetest "github.com/go-drift/statekit/pkg/testing"
package testing
