package schedule

// tarjanSCC computes the strongly-connected components of g using Tarjan's
// algorithm, visiting nodes in g's deterministic insertion order. The
// returned slice lists SCCs in completion order: the SCC popped first (a
// sink in the condensation) comes first. Per spec §4.5, when every SCC has
// size one the reverse of this order is a valid topological order.
func tarjanSCC(g *graph) [][]nodeKey {
	index := 0
	indices := map[nodeKey]int{}
	lowlink := map[nodeKey]int{}
	onStack := map[nodeKey]bool{}
	var stack []nodeKey
	var sccs [][]nodeKey

	var strongconnect func(v nodeKey)
	strongconnect = func(v nodeKey) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []nodeKey
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, v := range g.nodeOrder {
		if _, ok := indices[v]; !ok {
			strongconnect(v)
		}
	}
	return sccs
}
