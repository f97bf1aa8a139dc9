/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package graph

// The query methods below are only meaningful after Finalize. Querying an
// unknown name returns an empty, non-nil slice rather than an error —
// spec.md does not define an error path for pull queries.

// SubclassesOf returns all descendants of c via class-extension edges,
// excluding c itself (spec §4.3).
func (g *Graph) SubclassesOf(c string) []string {
	return orEmpty(g.subclasses[c])
}

// SuperclassesOf returns all ancestors of c via class-extension edges,
// excluding c itself.
func (g *Graph) SuperclassesOf(c string) []string {
	return orEmpty(g.superclasses[c])
}

// SubinterfacesOf returns all descendants of i via interface-extension
// edges, excluding i itself.
func (g *Graph) SubinterfacesOf(i string) []string {
	return orEmpty(g.subinterfaces[i])
}

// SuperinterfacesOf returns all ancestors of i via interface-extension
// edges, excluding i itself.
func (g *Graph) SuperinterfacesOf(i string) []string {
	return orEmpty(g.superinterfaces[i])
}

// ImplementorsOf returns every class c such that some c' in {c} ∪
// superclasses(c) directly declares an interface j with j = i or j a
// subinterface of i (spec §4.3). Excludes interfaces and excludes i
// itself.
func (g *Graph) ImplementorsOf(i string) []string {
	return orEmpty(g.implementors[i])
}

// ClassesWithAnnotation returns every class whose recorded annotation set
// contains a. Not transitive over inheritance (spec §4.3).
func (g *Graph) ClassesWithAnnotation(a string) []string {
	return orEmpty(g.annotatedBy[a])
}

// AllClassNames returns the union of recorded class and interface names
// (spec §3's all_names).
func (g *Graph) AllClassNames() []string {
	return orEmpty(append([]string(nil), g.allNames...))
}

// Finalized reports whether Finalize has run since the last Reset.
func (g *Graph) Finalized() bool {
	return g.finalized
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
