package testutil

import (
	"errors"
	"fmt"
	"testing"
)

func TestAssertEqualPasses(t *testing.T) {
	AssertEqual(t, []int{1, 2, 3}, []int{1, 2, 3}, "slices")
	AssertEqual(t, map[string]int{"a": 1}, map[string]int{"a": 1}, "maps")
}

func TestAssertErrorIsWrapped(t *testing.T) {
	base := errors.New("base")
	AssertErrorIs(t, fmt.Errorf("context: %w", base), base, "wrapped")
}

func TestRandIsDeterministic(t *testing.T) {
	a, b := Rand(7), Rand(7)
	for i := 0; i < 10; i++ {
		AssertEqual(t, a.Intn(1000), b.Intn(1000), "draw")
	}
}

func TestLabel(t *testing.T) {
	AssertEqual(t, label(""), "assertion", "empty label")
	AssertEqual(t, label("x"), "x", "label")
}
