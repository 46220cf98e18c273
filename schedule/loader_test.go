package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harmonize-build/harmonize/typesig"
)

func sys(name string) System {
	return System{Id: typesig.NewSystemId(name), Name: name}
}

func TestLoad_RejectsInvalidLabel(t *testing.T) {
	_, err := Load(Label("Teardown"), nil)
	require.Error(t, err)
	require.IsType(t, &InvalidScheduleError{}, err)
}

func TestLoad_IsolatedSystemsAppearUnordered(t *testing.T) {
	a, b := sys("a"), sys("b")
	loaded, err := Load(Start, []Descriptor{{
		Label:    Start,
		Schedule: Schedule{Systems: []System{a, b}},
	}})
	require.NoError(t, err)
	require.Len(t, loaded.TopologicalOrder, 2)
	require.Contains(t, loaded.TopologicalOrder, a.Id)
	require.Contains(t, loaded.TopologicalOrder, b.Id)
	require.Empty(t, loaded.Dependency)
}

func TestLoad_OrderConstraintProducesDependencyEdge(t *testing.T) {
	a, b := sys("a"), sys("b")
	loaded, err := Load(Start, []Descriptor{{
		Label: Start,
		Schedule: Schedule{
			Systems:     []System{a, b},
			Constraints: []Constraint{OrderConstraint(AnonymousSet(a.Id), AnonymousSet(b.Id))},
		},
	}})
	require.NoError(t, err)
	require.Less(t, loaded.Systems[a.Id].Order, loaded.Systems[b.Id].Order)
	require.Equal(t, []typesig.SystemId{b.Id}, loaded.Dependency[a.Id])
}

// TestLoad_EmptyAnonymousSetRejected reproduces the EmptyAnonymousSet error
// scenario: an Order constraint referencing a zero-member anonymous set.
func TestLoad_EmptyAnonymousSetRejected(t *testing.T) {
	a := sys("a")
	_, err := Load(Start, []Descriptor{{
		Label: Start,
		Schedule: Schedule{
			Systems:     []System{a},
			Constraints: []Constraint{OrderConstraint(AnonymousSet(), AnonymousSet(a.Id))},
		},
	}})
	require.Error(t, err)
	require.IsType(t, &EmptyAnonymousSetError{}, err)
}

// TestLoad_CyclesDetected reproduces the Cycles{a,b} scenario: two systems
// ordered against each other in both directions form a 2-cycle.
func TestLoad_CyclesDetected(t *testing.T) {
	a, b := sys("a"), sys("b")
	_, err := Load(Start, []Descriptor{{
		Label: Start,
		Schedule: Schedule{
			Systems: []System{a, b},
			Constraints: []Constraint{
				OrderConstraint(AnonymousSet(a.Id), AnonymousSet(b.Id)),
				OrderConstraint(AnonymousSet(b.Id), AnonymousSet(a.Id)),
			},
		},
	}})
	require.Error(t, err)
	cyclesErr, ok := err.(*CyclesError)
	require.True(t, ok)
	require.Len(t, cyclesErr.Cycles, 1)
	require.ElementsMatch(t, []typesig.SystemId{a.Id, b.Id}, cyclesErr.Cycles[0])
}

// TestLoad_IncludesFlattensToRealSystems reproduces the w -> x / w -> y
// includes scenario: w is ordered before a named set containing x and y, and
// flattening must produce direct w -> x and w -> y edges with no pseudo-node
// in the output Dependency.
func TestLoad_IncludesFlattensToRealSystems(t *testing.T) {
	w, x, y := sys("w"), sys("x"), sys("y")
	childSetName := typesig.NewStableId("c", "Child")
	parentSetName := typesig.NewStableId("c", "Parent")

	loaded, err := Load(Start, []Descriptor{{
		Label: Start,
		Schedule: Schedule{
			Systems: []System{w, x, y},
			Constraints: []Constraint{
				IncludesConstraint(parentSetName, NamedSet(childSetName)),
				OrderConstraint(AnonymousSet(w.Id), NamedSet(parentSetName)),
				IncludesConstraint(childSetName, AnonymousSet(x.Id, y.Id)),
			},
		},
	}})
	require.NoError(t, err)

	require.ElementsMatch(t, []typesig.SystemId{x.Id, y.Id}, loaded.Dependency[w.Id])
	require.Less(t, loaded.Systems[w.Id].Order, loaded.Systems[x.Id].Order)
	require.Less(t, loaded.Systems[w.Id].Order, loaded.Systems[y.Id].Order)
}

func TestLoad_AnonymousSingletonCollapsesToSystemNode(t *testing.T) {
	a, b := sys("a"), sys("b")
	loaded, err := Load(Update, []Descriptor{{
		Label: Update,
		Schedule: Schedule{
			Systems:     []System{a, b},
			Constraints: []Constraint{OrderConstraint(AnonymousSet(a.Id), AnonymousSet(b.Id))},
		},
	}})
	require.NoError(t, err)
	require.Equal(t, []typesig.SystemId{b.Id}, loaded.Dependency[a.Id])
}

func TestLoad_ConditionConstraintGatesSet(t *testing.T) {
	cond, a := sys("cond"), sys("a")
	loaded, err := Load(Start, []Descriptor{{
		Label: Start,
		Schedule: Schedule{
			Systems:     []System{cond, a},
			Constraints: []Constraint{ConditionConstraint(AnonymousSet(a.Id), cond.Id)},
		},
	}})
	require.NoError(t, err)
	require.Less(t, loaded.Systems[cond.Id].Order, loaded.Systems[a.Id].Order)
}

func TestLoad_FusesDescriptorsSharingLabel(t *testing.T) {
	a, b := sys("a"), sys("b")
	loaded, err := Load(Start, []Descriptor{
		{Label: Start, Schedule: Schedule{Systems: []System{a}}},
		{Label: Start, Schedule: Schedule{
			Systems:     []System{b},
			Constraints: []Constraint{OrderConstraint(AnonymousSet(a.Id), AnonymousSet(b.Id))},
		}},
	})
	require.NoError(t, err)
	require.Len(t, loaded.TopologicalOrder, 2)
	require.Equal(t, []typesig.SystemId{b.Id}, loaded.Dependency[a.Id])
}
