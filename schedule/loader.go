package schedule

import "github.com/harmonize-build/harmonize/typesig"

// Load fuses every Descriptor carrying the given label into a single
// dependency graph, detects cycles, and produces a total topological order.
// See §4.5 for the full construction.
func Load(label Label, descriptors []Descriptor) (*Loaded, error) {
	if !ValidLabel(label) {
		return nil, &InvalidScheduleError{Label: label}
	}

	g := newGraph()
	params := map[typesig.SystemId][]typesig.Param{}

	// Register every declared system up front so isolated systems (no
	// constraints at all) still appear in the output.
	for _, d := range descriptors {
		for _, s := range d.Schedule.Systems {
			g.addNode(nodeKey{kind: nodeSystem, sys: s.Id})
			params[s.Id] = s.Params
		}
	}

	for _, d := range descriptors {
		for _, c := range d.Schedule.Constraints {
			if err := applyConstraint(g, c); err != nil {
				return nil, err
			}
		}
	}

	sccs := tarjanSCC(g)

	var cycles [][]typesig.SystemId
	for _, scc := range sccs {
		if len(scc) <= 1 {
			continue
		}
		var ids []typesig.SystemId
		for _, n := range scc {
			if n.kind == nodeSystem {
				ids = append(ids, n.sys)
			}
		}
		if len(ids) > 0 {
			cycles = append(cycles, ids)
		}
	}
	if len(cycles) > 0 {
		return nil, &CyclesError{Cycles: cycles}
	}

	// The reverse of the SCC completion order is the topological order;
	// every SCC is a singleton here since cycles were already rejected.
	topoNodes := make([]nodeKey, len(sccs))
	for i, scc := range sccs {
		topoNodes[len(sccs)-1-i] = scc[0]
	}

	var topoSystems []typesig.SystemId
	order := map[typesig.SystemId]int{}
	for _, n := range topoNodes {
		if n.kind == nodeSystem {
			order[n.sys] = len(topoSystems)
			topoSystems = append(topoSystems, n.sys)
		}
	}

	dependency := flattenReal(g)

	systems := make(map[typesig.SystemId]LoadedSystem, len(topoSystems))
	for id, pos := range order {
		systems[id] = LoadedSystem{Order: pos, Params: params[id]}
	}

	return &Loaded{
		Systems:          systems,
		TopologicalOrder: topoSystems,
		Dependency:       dependency,
	}, nil
}

func applyConstraint(g *graph, c Constraint) error {
	switch c.Kind {
	case ConstraintOrder:
		before, err := g.resolveSet(c.Before)
		if err != nil {
			return err
		}
		after, err := g.resolveSet(c.After)
		if err != nil {
			return err
		}
		g.addEdge(before.end, after.start)

	case ConstraintCondition:
		set, err := g.resolveSet(c.Set)
		if err != nil {
			return err
		}
		cond := nodeKey{kind: nodeSystem, sys: c.Condition}
		g.addNode(cond)
		g.addEdge(cond, set.start)

	case ConstraintIncludes:
		parent, err := g.resolveSet(NamedSet(c.ParentName))
		if err != nil {
			return err
		}
		child, err := g.resolveSet(c.Set)
		if err != nil {
			return err
		}
		g.addEdge(parent.start, child.start)
		g.addEdge(child.end, parent.end)
	}
	return nil
}

// flattenReal keeps only System nodes: for every pair (s, t) of real systems
// reachable from one another through a path whose intermediate vertices are
// all pseudo-nodes, it adds the edge s→t to the returned DAG.
func flattenReal(g *graph) map[typesig.SystemId][]typesig.SystemId {
	result := map[typesig.SystemId][]typesig.SystemId{}

	for _, n := range g.nodeOrder {
		if n.kind != nodeSystem {
			continue
		}

		visited := map[nodeKey]bool{n: true}
		seenTarget := map[typesig.SystemId]bool{}
		var targets []typesig.SystemId

		var walk func(cur nodeKey)
		walk = func(cur nodeKey) {
			for _, next := range g.edges[cur] {
				if visited[next] {
					continue
				}
				visited[next] = true
				if next.kind == nodeSystem {
					if !seenTarget[next.sys] {
						seenTarget[next.sys] = true
						targets = append(targets, next.sys)
					}
					continue // don't expand past a real system
				}
				walk(next)
			}
		}
		walk(n)

		if len(targets) > 0 {
			result[n.sys] = targets
		}
	}

	return result
}
