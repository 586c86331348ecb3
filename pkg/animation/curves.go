package animation

import (
	"math"

	"github.com/go-drift/statekit/pkg/errors"
)

// Curves reshape normalized progress in [0, 1]. They are plain functions so
// any func(float64) float64 can be used as Config.Curve or
// AnimationController.Curve; the helpers below build common ones.

// LinearCurve returns progress unchanged.
func LinearCurve(t float64) float64 {
	return t
}

// Standard easing curves, matching their CSS cubic-bezier() counterparts.
var (
	Ease      = CubicBezier(0.25, 0.1, 0.25, 1.0)
	EaseIn    = CubicBezier(0.4, 0.0, 1.0, 1.0)
	EaseOut   = CubicBezier(0.0, 0.0, 0.2, 1.0)
	EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)
)

// Flipped mirrors c so that it runs backwards: Flipped(c)(t) = 1 - c(1-t).
// Handy as a ReverseCurve when the return trip should mirror the way out.
func Flipped(c func(float64) float64) func(float64) float64 {
	if c == nil {
		c = LinearCurve
	}
	return func(t float64) float64 { return 1 - c(1-t) }
}

// Interval holds at 0 until begin, runs c across [begin, end] and holds at 1
// after end. It panics with a *errors.ConfigError unless 0 <= begin < end <= 1.
func Interval(begin, end float64, c func(float64) float64) func(float64) float64 {
	errors.Must(0 <= begin && begin < end && end <= 1, "animation.Interval", "interval must satisfy 0 <= begin < end <= 1")
	if c == nil {
		c = LinearCurve
	}
	return func(t float64) float64 {
		switch {
		case t <= begin:
			return 0
		case t >= end:
			return 1
		}
		return c((t - begin) / (end - begin))
	}
}

// CubicBezier returns the easing defined by control points (x1,y1) and
// (x2,y2) on a curve from (0,0) to (1,1), like CSS cubic-bezier().
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	b := bezier{x1: x1, y1: y1, x2: x2, y2: y2}
	return b.at
}

type bezier struct {
	x1, y1, x2, y2 float64
}

const bezierEpsilon = 1e-7

func (b bezier) at(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return bezierComponent(b.y1, b.y2, b.solveX(t))
}

// solveX finds the parameter u whose x coordinate is t. Newton steps first,
// then bisection when the slope flattens out.
func (b bezier) solveX(t float64) float64 {
	u := t
	for range 8 {
		dx := bezierComponent(b.x1, b.x2, u) - t
		if math.Abs(dx) < bezierEpsilon {
			return clampUnit(u)
		}
		slope := bezierSlope(b.x1, b.x2, u)
		if math.Abs(slope) < bezierEpsilon {
			break
		}
		u -= dx / slope
	}

	lo, hi := 0.0, 1.0
	u = clampUnit(u)
	for range 12 {
		dx := bezierComponent(b.x1, b.x2, u) - t
		if math.Abs(dx) < bezierEpsilon {
			break
		}
		if dx > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) / 2
	}
	return u
}

// bezierComponent evaluates one axis of the curve with endpoints 0 and 1.
func bezierComponent(p1, p2, u float64) float64 {
	v := 1 - u
	return 3*v*v*u*p1 + 3*v*u*u*p2 + u*u*u
}

func bezierSlope(p1, p2, u float64) float64 {
	v := 1 - u
	return 3*v*v*p1 + 6*v*u*(p2-p1) + 3*u*u*(1-p2)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
