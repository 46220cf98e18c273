// Package schedule builds a mod's runtime execution order from the partial,
// possibly-overlapping schedule descriptors its features declare.
//
// It fuses the Order/Condition/Includes constraints from every feature that
// targets the same schedule label into one dependency graph, detects cycles
// with Tarjan's strongly-connected-components algorithm, and flattens the
// result into a total topological order over real systems — see §4.5 of the
// design for the full algorithm.
package schedule

import "github.com/harmonize-build/harmonize/typesig"

// Label names a schedule. Only Start and Update are accepted; the loader
// rejects anything else with InvalidSchedule.
type Label string

const (
	Start  Label = "Start"
	Update Label = "Update"
)

// ValidLabel reports whether l is one of the fixed accepted schedule labels.
func ValidLabel(l Label) bool {
	return l == Start || l == Update
}

// System is one declared, schedulable function.
type System struct {
	Id     typesig.SystemId
	Name   string
	Params []typesig.Param
}

// SetKind classifies a SystemSet.
type SetKind uint8

const (
	SetAnonymous SetKind = iota
	SetNamed
)

// SystemSet is a named or anonymous grouping of systems that constraints
// reference. Anonymous sets are identified by their multiset of member ids;
// named sets by their StableId.
type SystemSet struct {
	Kind    SetKind
	Members []typesig.SystemId // SetAnonymous
	Name    typesig.StableId    // SetNamed
}

// AnonymousSet builds an anonymous SystemSet from a member list.
func AnonymousSet(members ...typesig.SystemId) SystemSet {
	return SystemSet{Kind: SetAnonymous, Members: members}
}

// NamedSet builds a named SystemSet identified by id.
func NamedSet(id typesig.StableId) SystemSet {
	return SystemSet{Kind: SetNamed, Name: id}
}

// ConstraintKind classifies a Constraint.
type ConstraintKind uint8

const (
	ConstraintOrder ConstraintKind = iota
	ConstraintCondition
	ConstraintIncludes
)

// Constraint is one ordering, conditioning, or set-nesting rule between
// system sets.
type Constraint struct {
	Kind ConstraintKind

	// ConstraintOrder: before must run, and complete, prior to after starting.
	Before SystemSet
	After  SystemSet

	// ConstraintCondition: set only runs once Condition has run.
	Set       SystemSet
	Condition typesig.SystemId

	// ConstraintIncludes: set is nested inside the set named ParentName, i.e.
	// set's systems are a subset scheduled strictly within parent's span.
	ParentName typesig.StableId
}

// OrderConstraint builds an Order constraint.
func OrderConstraint(before, after SystemSet) Constraint {
	return Constraint{Kind: ConstraintOrder, Before: before, After: after}
}

// ConditionConstraint builds a Condition constraint.
func ConditionConstraint(set SystemSet, condition typesig.SystemId) Constraint {
	return Constraint{Kind: ConstraintCondition, Set: set, Condition: condition}
}

// IncludesConstraint builds an Includes constraint.
func IncludesConstraint(parentName typesig.StableId, set SystemSet) Constraint {
	return Constraint{Kind: ConstraintIncludes, ParentName: parentName, Set: set}
}

// Schedule is one feature's partial declaration of systems and constraints
// for a given Label. Several Schedules sharing a Label are fused together by
// Load.
type Schedule struct {
	Systems     []System
	Constraints []Constraint
}

// Descriptor pairs a Schedule with the StableId of the schedule-label type
// that produced it, matching spec §3's ScheduleDescriptor.
type Descriptor struct {
	Id       typesig.StableId
	Label    Label
	Schedule Schedule
}

// Loaded is the runtime result of fusing and ordering all Descriptors
// sharing one Label.
type Loaded struct {
	// Systems maps each system to its position in TopologicalOrder and its
	// declared parameters.
	Systems map[typesig.SystemId]LoadedSystem
	// TopologicalOrder lists every real system exactly once, consistent with
	// every edge in Dependency.
	TopologicalOrder []typesig.SystemId
	// Dependency is the flattened DAG over real systems only.
	Dependency map[typesig.SystemId][]typesig.SystemId
}

// LoadedSystem is one system's position and declared parameters within a
// Loaded schedule.
type LoadedSystem struct {
	Order  int
	Params []typesig.Param
}
