// Package id generates identifiers for objects created during a simulation.
package id

import (
	"strconv"
	"sync/atomic"
)

// IDGenerator hands out unique identifiers.
type IDGenerator interface {
	Generate() string
}

// NewIDGenerator returns a generator that counts up from "1".
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)

	return strconv.FormatUint(idNumber, 10)
}

var defaultGenerator = NewIDGenerator()

// Generate returns an identifier from the process-wide generator.
func Generate() string {
	return defaultGenerator.Generate()
}
