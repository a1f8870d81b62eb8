package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayHeadings OverlayID = "headings"
	OverlayGrid     OverlayID = "grid"
	OverlayStats    OverlayID = "stats"
	OverlayPerf     OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32 // Keyboard key to toggle (0 = no key)
	KeyLabel string
	Default  bool
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	reg.Register(OverlayDescriptor{ID: OverlayHeadings, Name: "Headings", Key: rl.KeyH, KeyLabel: "H", Default: true})
	reg.Register(OverlayDescriptor{ID: OverlayGrid, Name: "Spatial Grid", Key: rl.KeyG, KeyLabel: "G"})
	reg.Register(OverlayDescriptor{ID: OverlayStats, Name: "Flock Stats", Key: rl.KeyT, KeyLabel: "T", Default: true})
	reg.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Performance", Key: rl.KeyF, KeyLabel: "F"})
	return reg
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on or off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.enabled[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress toggles the overlay bound to key.
// Returns the overlay ID, its new state, and whether a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}
