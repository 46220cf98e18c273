package schedule

import (
	"sort"
	"strconv"
	"strings"

	"github.com/harmonize-build/harmonize/typesig"
)

type nodeKind uint8

const (
	nodeSystem nodeKind = iota
	nodeSetStart
	nodeSetEnd
)

// nodeKey identifies one vertex of the working graph described in §4.5:
// either a declared system, or one half of a system set's paired
// start/end pseudo-node pair.
type nodeKey struct {
	kind   nodeKind
	sys    typesig.SystemId
	setKey string
}

type setNodes struct {
	start, end nodeKey
}

// graph is the working graph the loader builds constraints into before
// running cycle detection and flattening. Node and edge order is tracked
// explicitly (rather than relying on Go map iteration order) so that the
// resulting topological order is a deterministic function of the input.
type graph struct {
	nodeOrder []nodeKey
	nodeSeen  map[nodeKey]bool
	edges     map[nodeKey][]nodeKey
	edgeSeen  map[nodeKey]map[nodeKey]bool
	setCache  map[string]setNodes
}

func newGraph() *graph {
	return &graph{
		nodeSeen: map[nodeKey]bool{},
		edges:    map[nodeKey][]nodeKey{},
		edgeSeen: map[nodeKey]map[nodeKey]bool{},
		setCache: map[string]setNodes{},
	}
}

func (g *graph) addNode(n nodeKey) {
	if g.nodeSeen[n] {
		return
	}
	g.nodeSeen[n] = true
	g.nodeOrder = append(g.nodeOrder, n)
}

func (g *graph) addEdge(from, to nodeKey) {
	g.addNode(from)
	g.addNode(to)
	if g.edgeSeen[from] == nil {
		g.edgeSeen[from] = map[nodeKey]bool{}
	}
	if g.edgeSeen[from][to] {
		return
	}
	g.edgeSeen[from][to] = true
	g.edges[from] = append(g.edges[from], to)
}

// setCacheKey builds the canonical cache key for a SystemSet: anonymous sets
// are keyed by their sorted multiset of member ids, named sets by their
// StableId, per spec §4.5.
func setCacheKey(set SystemSet) string {
	switch set.Kind {
	case SetNamed:
		return "n:" + set.Name.String()
	default:
		ids := make([]string, len(set.Members))
		for i, m := range set.Members {
			ids[i] = strconv.FormatUint(uint64(m), 10)
		}
		sort.Strings(ids)
		return "a:" + strings.Join(ids, ",")
	}
}

// resolveSet creates (on first resolution) or reuses the pseudo-node pair
// for a SystemSet, wiring anonymous-set membership edges on first creation.
// An anonymous set with exactly one member collapses to that system's own
// node, with no pseudo-nodes. An empty anonymous set is rejected.
func (g *graph) resolveSet(set SystemSet) (setNodes, error) {
	key := setCacheKey(set)
	if cached, ok := g.setCache[key]; ok {
		return cached, nil
	}

	if set.Kind == SetAnonymous {
		switch len(set.Members) {
		case 0:
			return setNodes{}, &EmptyAnonymousSetError{}
		case 1:
			n := nodeKey{kind: nodeSystem, sys: set.Members[0]}
			g.addNode(n)
			sn := setNodes{start: n, end: n}
			g.setCache[key] = sn
			return sn, nil
		}
	}

	start := nodeKey{kind: nodeSetStart, setKey: key}
	end := nodeKey{kind: nodeSetEnd, setKey: key}
	g.addNode(start)
	g.addNode(end)

	if set.Kind == SetAnonymous {
		for _, m := range set.Members {
			sysNode := nodeKey{kind: nodeSystem, sys: m}
			g.addEdge(start, sysNode)
			g.addEdge(sysNode, end)
		}
	}

	sn := setNodes{start: start, end: end}
	g.setCache[key] = sn
	return sn, nil
}
