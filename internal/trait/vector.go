package trait

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dimensions is the number of trait axes in every vector.
const Dimensions = 6

// ErrDegenerateVector is returned when a vector cannot take part in a
// similarity or ratio computation (zero magnitude, zero denominator, negative
// or NaN components).
var ErrDegenerateVector = errors.New("degenerate trait vector")

// Axis is one of the six fixed trait dimensions. The numeric value is the
// position of the axis in a Vector.
type Axis int

const (
	Cognitive Axis = iota
	Interactive
	Emotive
	Adaptive
	Creative
	Motive
)

var axisNames = [Dimensions]string{
	"COGNITIVE",
	"INTERACTIVE",
	"EMOTIVE",
	"ADAPTIVE",
	"CREATIVE",
	"MOTIVE",
}

// Axes returns all axes in vector order.
func Axes() []Axis {
	axes := make([]Axis, Dimensions)
	for i := range axes {
		axes[i] = Axis(i)
	}
	return axes
}

func (a Axis) String() string {
	if !a.Valid() {
		return fmt.Sprintf("AXIS(%d)", int(a))
	}
	return axisNames[a]
}

// Valid reports whether the axis is a position inside a Vector.
func (a Axis) Valid() bool {
	return a >= 0 && int(a) < Dimensions
}

// ParseAxes parses a comma-separated list of axis indices ("0,3,5").
// Duplicates are dropped keeping the first occurrence. An empty list or an
// index outside the vector is an error.
func ParseAxes(csv string) ([]Axis, error) {
	var axes []Axis
	seen := make(map[Axis]struct{}, Dimensions)

	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse axis index %q: %w", part, err)
		}

		axis := Axis(idx)
		if !axis.Valid() {
			return nil, fmt.Errorf("axis index %d is out of range [0, %d)", idx, Dimensions)
		}

		if _, ok := seen[axis]; ok {
			continue
		}
		seen[axis] = struct{}{}
		axes = append(axes, axis)
	}

	if len(axes) == 0 {
		return nil, fmt.Errorf("no axis indices in %q", csv)
	}

	return axes, nil
}

// Vector holds one value per trait axis, in axis order.
type Vector [Dimensions]float64

// Get returns the value on the given axis.
func (v Vector) Get(a Axis) float64 {
	return v[a]
}

// Dot returns the dot product of two vectors.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	for i := range v {
		sum += v[i] * o[i]
	}
	return sum
}

// Norm returns the euclidean magnitude of the vector.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsZero reports whether every component is zero ("no signal").
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Validate checks that every component is a finite, non-negative number.
func (v Vector) Validate() error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrDegenerateVector, Axis(i))
		}
		if x < 0 {
			return fmt.Errorf("%w: %s is negative (%g)", ErrDegenerateVector, Axis(i), x)
		}
	}
	return nil
}

// Scale returns the vector multiplied by k.
func (v Vector) Scale(k float64) Vector {
	var out Vector
	for i := range v {
		out[i] = v[i] * k
	}
	return out
}

// Max returns the component-wise maximum of two vectors.
func (v Vector) Max(o Vector) Vector {
	var out Vector
	for i := range v {
		out[i] = math.Max(v[i], o[i])
	}
	return out
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	var out Vector
	for i := range v {
		out[i] = v[i] - o[i]
	}
	return out
}

// CosineSimilarity returns the cosine of the angle between a and b.
// It fails with ErrDegenerateVector when either vector has zero magnitude.
func CosineSimilarity(a, b Vector) (float64, error) {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0, fmt.Errorf("%w: zero magnitude", ErrDegenerateVector)
	}
	return a.Dot(b) / (na * nb), nil
}
