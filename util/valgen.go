// Some helpers using closures to generate values
package valgen

import "fmt"

func MakeConstGen(constant int) func() int {
	return func() int {
		return constant
	}
}

func MakeIncreasingGen(start int) func() int {
	current := start
	return func() int {
		current++
		return current
	}
}

// MakeLabelGen returns fresh label names prefix1, prefix2, ...
func MakeLabelGen(prefix string) func() string {
	next := MakeIncreasingGen(0)
	return func() string {
		return fmt.Sprintf("%s%d", prefix, next())
	}
}

// MakeCycleGen repeats values in order.
func MakeCycleGen[T any](values ...T) func() T {
	i := -1
	return func() T {
		i = (i + 1) % len(values)
		return values[i]
	}
}
