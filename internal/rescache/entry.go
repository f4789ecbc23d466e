// Package rescache implements the two-tier (memory + disk) result cache
//: content-addressed by (ModuleId, ContentHash), with LRU
// eviction against a configured byte cap and exposed hit/miss/eviction
// statistics.
package rescache

import (
	"github.com/GriffinCanCode/gradualtype/internal/diag"
	"github.com/GriffinCanCode/gradualtype/internal/modid"
)

// Key identifies a cache entry by (ModuleId, ContentHash).
type Key struct {
	Module  modid.ModuleId
	Content modid.ContentHash
}

// Filename derives the deterministic on-disk filename for Key:
// `{ModuleId-hex}_{first-16-bytes-of-ContentHash-hex}.cache`.
func (k Key) Filename() string {
	return k.Module.Hex() + "_" + k.Content.ShortHex() + ".cache"
}

// TypeBinding is a display-rendered inferred type for one bound name.
// Cache entries report results; they are not a rehydration source for
// live internal/types values, so the rendered string is sufficient.
type TypeBinding struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Entry is a CacheEntry: the result of analyzing one module at
// one content hash.
type Entry struct {
	Module    modid.ModuleId     `json:"module"`
	Content   modid.ContentHash  `json:"content"`
	Types     []TypeBinding      `json:"types"`
	Errors    []diag.Diagnostic  `json:"errors"`
	Timestamp int64              `json:"timestamp"`
	SizeBytes int64              `json:"size_bytes"`
}
