// Package schema models the fixed-capacity, append-only declaration buffers
// a mod's source fills in declaration order (spec §4.1). The buffers are
// walked, in that order, to derive a ModManifest (see package manifest); the
// order is observable because it determines type-address assignment (see
// package address), so registration order must be stable across rebuilds of
// the same source.
//
// The guest side backs these buffers with a const-sized arena carved out at
// compile time (one arena slot per declaration, never freed, never resized).
// That's a guest-side invariant this package's capacity constants mirror;
// the host never enforces it directly since it only ever sees the
// already-built wasm binary, not the arena itself.
package schema

import (
	"fmt"

	"github.com/harmonize-build/harmonize/schedule"
	"github.com/harmonize-build/harmonize/typesig"
)

// Capacity limits from spec §4.1. A guest's backing storage may use any
// representation that preserves insertion order and raises at capacity;
// here that's a plain Go slice with an explicit cap check.
const (
	MaxTypes     = 1024
	MaxResources = 128
	MaxSchedules = 128
)

// ResourceEntry is one declared resource: its type plus the encoded default
// value the wire format ultimately carries.
type ResourceEntry struct {
	Type    typesig.StableId
	Default []byte
}

// ScheduleEntry is one declared partial schedule, labelled by the
// schedule-label type that produced it.
type ScheduleEntry struct {
	Label    typesig.StableId
	Schedule schedule.Schedule
}

// ConstSchema accumulates a mod's declared types, resources, and schedules
// in declaration order. It is filled once at plug-in construction time and
// consumed exactly once to derive a ModManifest.
type ConstSchema struct {
	name      string
	types     []typesig.TypeSignature
	resources []ResourceEntry
	schedules []ScheduleEntry
}

// New returns an empty ConstSchema for a mod named name.
func New(name string) *ConstSchema {
	return &ConstSchema{name: name}
}

// Name is the mod's declared name.
func (s *ConstSchema) Name() string { return s.name }

// RegisterType appends a TypeSignature. Exceeding MaxTypes is a build-time
// failure, reported as an error here rather than a panic so host-side
// tooling (tests, the scaffold generator) can surface it without crashing.
func (s *ConstSchema) RegisterType(sig typesig.TypeSignature) error {
	if len(s.types) >= MaxTypes {
		return fmt.Errorf("schema: type buffer exceeds capacity %d", MaxTypes)
	}
	s.types = append(s.types, sig)
	return nil
}

// AddResource appends a resource declaration. It implicitly registers ty's
// TypeSignature, per spec §4.1 ("add_resource<R> implicitly invokes
// register_type<R>"). Exceeding MaxResources is a build-time failure.
func (s *ConstSchema) AddResource(ty typesig.TypeSignature, defaultValue []byte) error {
	if len(s.resources) >= MaxResources {
		return fmt.Errorf("schema: resource buffer exceeds capacity %d", MaxResources)
	}
	if err := s.RegisterType(ty); err != nil {
		return err
	}
	s.resources = append(s.resources, ResourceEntry{Type: ty.Id, Default: defaultValue})
	return nil
}

// AddSchedule appends a partial schedule under the given label type.
// Exceeding MaxSchedules is a build-time failure.
func (s *ConstSchema) AddSchedule(label typesig.StableId, sched schedule.Schedule) error {
	if len(s.schedules) >= MaxSchedules {
		return fmt.Errorf("schema: schedule buffer exceeds capacity %d", MaxSchedules)
	}
	s.schedules = append(s.schedules, ScheduleEntry{Label: label, Schedule: sched})
	return nil
}

// Types returns the declared types in registration order.
func (s *ConstSchema) Types() []typesig.TypeSignature { return s.types }

// Resources returns the declared resources in registration order.
func (s *ConstSchema) Resources() []ResourceEntry { return s.resources }

// Schedules returns the declared schedules in registration order.
func (s *ConstSchema) Schedules() []ScheduleEntry { return s.schedules }
