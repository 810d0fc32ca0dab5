package server

import (
	"fmt"
	"math"

	"github.com/ISOnRM/minecraft-server/internal/errors"
)

// Memory is a validated heap allocation in gigabytes, Min < Max.
type Memory struct {
	min int
	max int
}

// NewMemory takes the magnitude of both values and requires min < max.
// A sign is silently corrected; a reversed or zero-width range is not.
func NewMemory(min, max int) (Memory, error) {
	if min == math.MinInt || max == math.MinInt {
		return Memory{}, errors.Newf(errors.ErrInvalidRange, "", "memory %d-%d is out of range", min, max)
	}
	min, max = abs(min), abs(max)
	if min >= max {
		return Memory{}, errors.Newf(errors.ErrInvalidRange, "",
			"minimal memory (%dG) has to be smaller than maximum memory (%dG)", min, max)
	}
	return Memory{min: min, max: max}, nil
}

// Min returns the initial heap size in gigabytes.
func (m Memory) Min() int { return m.min }

// Max returns the maximum heap size in gigabytes.
func (m Memory) Max() int { return m.max }

// IsZero reports whether m was built without NewMemory.
func (m Memory) IsZero() bool { return m.max == 0 }

// Args returns the JVM heap flags.
func (m Memory) Args() []string {
	return []string{fmt.Sprintf("-Xms%dG", m.min), fmt.Sprintf("-Xmx%dG", m.max)}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
