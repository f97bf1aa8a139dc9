/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package graph

// Finalize computes reverse edges and transitive closures over the
// accumulated direct edges using iterative worklists (spec §4.3), then
// freezes the graph. Calling Finalize twice is a no-op.
func (g *Graph) Finalize() {
	if g.finalized {
		return
	}

	g.directSubs = reverseSingle(g.directSuper)
	g.directSubIface = reverseMulti(g.directSuperIface)

	g.superclasses = make(map[string][]string)
	g.subclasses = make(map[string][]string)
	for _, name := range g.allNames {
		if g.kind[name] != KindClass {
			continue
		}
		g.superclasses[name] = bfsSingle(name, g.directSuper)
		g.subclasses[name] = bfsMulti(name, g.directSubs)
	}

	g.superinterfaces = make(map[string][]string)
	g.subinterfaces = make(map[string][]string)
	for _, name := range g.allNames {
		if g.kind[name] != KindInterface {
			continue
		}
		g.superinterfaces[name] = bfsMulti(name, g.directSuperIface)
		g.subinterfaces[name] = bfsMulti(name, g.directSubIface)
	}

	g.annotatedBy = make(map[string][]string)
	for _, name := range g.allNames {
		for _, a := range g.annotations[name] {
			g.annotatedBy[a] = append(g.annotatedBy[a], name)
		}
	}

	g.computeImplementors()

	g.finalized = true
}

// computeImplementors derives implementors* per spec §4.3's query
// semantics: c implements i iff some class c' in {c} ∪ superclasses(c)
// directly declares an interface j such that j = i or j is a
// subinterface of i. Equivalently, for each directly-declared interface j
// reachable by walking up c's class-extension chain, c implements j and
// every ancestor of j (j's superinterfaces).
func (g *Graph) computeImplementors() {
	g.directImplementors = make(map[string][]string)
	g.implementors = make(map[string][]string)

	for _, c := range g.allNames {
		if g.kind[c] != KindClass {
			continue
		}
		for _, j := range g.directImplements[c] {
			g.directImplementors[j] = append(g.directImplementors[j], c)
		}

		ancestors := append([]string{c}, g.superclasses[c]...)
		satisfied := make(map[string]bool)
		var order []string
		for _, cPrime := range ancestors {
			for _, j := range g.directImplements[cPrime] {
				for _, target := range append([]string{j}, g.superinterfaces[j]...) {
					if !satisfied[target] {
						satisfied[target] = true
						order = append(order, target)
					}
				}
			}
		}
		for _, target := range order {
			g.implementors[target] = append(g.implementors[target], c)
		}
	}
}

// reverseSingle inverts a name->name edge map into name->[]name.
func reverseSingle(edges map[string]string) map[string][]string {
	rev := make(map[string][]string)
	for child, parent := range edges {
		rev[parent] = append(rev[parent], child)
	}
	return rev
}

// reverseMulti inverts a name->[]name edge map into name->[]name.
func reverseMulti(edges map[string][]string) map[string][]string {
	rev := make(map[string][]string)
	for child, parents := range edges {
		for _, parent := range parents {
			rev[parent] = append(rev[parent], child)
		}
	}
	return rev
}

// bfsSingle walks a single-parent edge map (class extension) from start,
// excluding start itself, in discovery order.
func bfsSingle(start string, edges map[string]string) []string {
	var result []string
	visited := map[string]bool{start: true}
	cur := start
	for {
		next, ok := edges[cur]
		if !ok || visited[next] {
			break
		}
		visited[next] = true
		result = append(result, next)
		cur = next
	}
	return result
}

// bfsMulti walks a multi-parent/child edge map from start via breadth-first
// search, excluding start itself, in discovery order.
func bfsMulti(start string, edges map[string][]string) []string {
	var result []string
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range edges[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			result = append(result, next)
			queue = append(queue, next)
		}
	}
	return result
}
