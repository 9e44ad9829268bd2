// SPDX-License-Identifier: MIT

package instance

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownFunction indicates a catalogue lookup miss.
	ErrUnknownFunction = errors.New("instance: unknown catalogue function")

	// ErrBadConfig indicates invalid generator parameters or instance data.
	ErrBadConfig = errors.New("instance: invalid configuration")
)

// Function is a named univariate function on [Lo, Hi].
type Function struct {
	Name string
	Lo   float64
	Hi   float64
	F    func(x float64) float64
}

// Catalogue lists the available test functions. Indices are stable.
var Catalogue = []Function{
	{Name: "rastrigin", Lo: -2, Hi: 2, F: func(x float64) float64 {
		return x*x - 10*math.Cos(2*math.Pi*x) + 10
	}},
	{Name: "sine-wave", Lo: 0, Hi: 6, F: func(x float64) float64 {
		return math.Sin(3*x) + 0.25*x
	}},
	{Name: "double-well", Lo: -1.5, Hi: 1.5, F: func(x float64) float64 {
		return (x*x - 1) * (x*x - 1)
	}},
	{Name: "ackley", Lo: -3, Hi: 3, F: func(x float64) float64 {
		return -20*math.Exp(-0.2*math.Abs(x)) - math.Exp(math.Cos(2*math.Pi*x)) + 20 + math.E
	}},
	{Name: "levy", Lo: -5, Hi: 5, F: func(x float64) float64 {
		w := 1 + (x-1)/4
		s := math.Sin(math.Pi * w)
		t := math.Sin(2 * math.Pi * w)
		return s*s + (w-1)*(w-1)*(1+t*t)
	}},
	{Name: "griewank", Lo: -10, Hi: 10, F: func(x float64) float64 {
		return 1 + x*x/4000 - math.Cos(x)
	}},
	{Name: "damped-cosine", Lo: 0, Hi: 10, F: func(x float64) float64 {
		return x * math.Cos(x) / 2
	}},
	{Name: "bumpy-quadratic", Lo: -2, Hi: 2, F: func(x float64) float64 {
		return 0.5*x*x + math.Sin(5*x)
	}},
	{Name: "forrester", Lo: 0, Hi: 1, F: func(x float64) float64 {
		return (6*x - 2) * (6*x - 2) * math.Sin(12*x-4)
	}},
	{Name: "gramacy-lee", Lo: 0.5, Hi: 2.5, F: func(x float64) float64 {
		return math.Sin(10*math.Pi*x)/(2*x) + math.Pow(x-1, 4)
	}},
	{Name: "concave-root", Lo: 0, Hi: 4, F: func(x float64) float64 {
		return -math.Sqrt(x)
	}},
	{Name: "abs-sine", Lo: 0, Hi: 5, F: func(x float64) float64 {
		return math.Abs(math.Sin(2 * x))
	}},
	{Name: "cubic", Lo: -2, Hi: 2, F: func(x float64) float64 {
		return x*x*x - 3*x
	}},
	{Name: "quadratic", Lo: -1, Hi: 3, F: func(x float64) float64 {
		return (x - 1) * (x - 1)
	}},
}

// IndexOf returns the catalogue index of the named function.
func IndexOf(name string) (int, error) {
	for i, f := range Catalogue {
		if f.Name == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%q: %w", name, ErrUnknownFunction)
}

// Lookup returns the catalogue function with the given name.
func Lookup(name string) (Function, error) {
	i, err := IndexOf(name)
	if err != nil {
		return Function{}, err
	}

	return Catalogue[i], nil
}

// ByIndex returns Catalogue[i].
func ByIndex(i int) (Function, error) {
	if i < 0 || i >= len(Catalogue) {
		return Function{}, fmt.Errorf("index %d: %w", i, ErrUnknownFunction)
	}

	return Catalogue[i], nil
}
