package animation

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/go-drift/statekit/pkg/errors"
)

// Tween interpolates between Begin and End values based on animation progress.
//
// Use [NewTween] to pick a built-in Lerp for the value type, or set Lerp
// yourself for custom types.
type Tween[T any] struct {
	// Begin is the starting value (when t = 0).
	Begin T
	// End is the ending value (when t = 1).
	End T
	// Lerp linearly interpolates between Begin and End. Receives the begin value,
	// end value, and progress t in [0, 1]. Returns the interpolated value.
	Lerp func(a, b T, t float64) T
}

// NewTween creates a tween using the built-in interpolation for T.
// It panics with a *errors.ConfigError if T has none.
func NewTween[T any](begin, end T) *Tween[T] {
	return &Tween[T]{Begin: begin, End: end, Lerp: LerpFor[T]()}
}

// Evaluate returns the interpolated value at t (0.0 to 1.0).
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// Transform returns the interpolated value using the controller's current value.
func (tw *Tween[T]) Transform(controller *AnimationController) T {
	return tw.Evaluate(controller.Value)
}

// LerpFor returns the built-in interpolation for T: float64, float32, int,
// int64, time.Duration, color.RGBA or image.Point. Any other type is a
// programming error and panics with a *errors.ConfigError, since a silent
// default would animate to a wrong value with no diagnostic.
func LerpFor[T any]() func(a, b T, t float64) T {
	var zero T
	var fn any
	switch any(zero).(type) {
	case float64:
		fn = LerpFloat64
	case float32:
		fn = func(a, b float32, t float64) float32 { return float32(LerpFloat64(float64(a), float64(b), t)) }
	case int:
		fn = func(a, b int, t float64) int { return int(math.Round(LerpFloat64(float64(a), float64(b), t))) }
	case int64:
		fn = func(a, b int64, t float64) int64 { return int64(math.Round(LerpFloat64(float64(a), float64(b), t))) }
	case time.Duration:
		fn = LerpDuration
	case color.RGBA:
		fn = LerpColor
	case image.Point:
		fn = LerpPoint
	default:
		panic(&errors.ConfigError{
			Op:  "animation.LerpFor",
			Msg: fmt.Sprintf("no interpolation for type %T; set Tween.Lerp", zero),
		})
	}
	return fn.(func(a, b T, t float64) T)
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpDuration linearly interpolates between two durations.
func LerpDuration(a, b time.Duration, t float64) time.Duration {
	return time.Duration(math.Round(LerpFloat64(float64(a), float64(b), t)))
}

// LerpPoint linearly interpolates between two points, rounding to the
// nearest pixel.
func LerpPoint(a, b image.Point, t float64) image.Point {
	return image.Point{
		X: int(math.Round(LerpFloat64(float64(a.X), float64(b.X), t))),
		Y: int(math.Round(LerpFloat64(float64(a.Y), float64(b.Y), t))),
	}
}

// LerpColor linearly interpolates each channel of two colors.
func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(LerpFloat64(float64(x), float64(y), t)))
	}
	return color.RGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: ch(a.A, b.A)}
}

// TweenFloat64 creates a tween for float64 values.
func TweenFloat64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{
		Begin: begin,
		End:   end,
		Lerp:  LerpFloat64,
	}
}

// TweenColor creates a tween for color values.
func TweenColor(begin, end color.RGBA) *Tween[color.RGBA] {
	return &Tween[color.RGBA]{
		Begin: begin,
		End:   end,
		Lerp:  LerpColor,
	}
}
