/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package graph accumulates parsed class records into the three relations
// spec.md §3 defines (superclass, super-interface, implements), then
// finalizes them into transitive closures keyed by qualified name with
// forward and reverse indexes. Grounded on the struct shapes in
// other_examples/…tarczynskitomek-jacobin__src-classloader-classes.go.go
// (CPool/Klass field layout for a classfile-derived graph), adapted here
// from per-class field tables to name-keyed relation tables, per spec §9's
// "model the graph as name-keyed tables, not pointer webs."
package graph

// Graph is the accumulate-then-finalize class/interface relation graph of
// one scan. Mutation (Add*) is confined to the traversal phase; after
// Finalize it is read-only for the rest of the scan (spec §5).
type Graph struct {
	kind map[string]Kind

	directSuper      map[string]string   // class -> declared superclass
	directSuperIface map[string][]string // interface -> declared parent interfaces
	directImplements map[string][]string // class -> declared interfaces
	annotations      map[string][]string // class -> declared annotations, insertion order

	allNames   []string
	allNamesOK map[string]bool

	finalized bool

	directSubs         map[string][]string
	directSubIface     map[string][]string
	directImplementors map[string][]string

	subclasses      map[string][]string
	superclasses    map[string][]string
	subinterfaces   map[string][]string
	superinterfaces map[string][]string
	implementors    map[string][]string
	annotatedBy     map[string][]string
}

// Kind distinguishes a class name from an interface name in the graph.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
)

func (k Kind) String() string {
	if k == KindInterface {
		return "interface"
	}
	return "class"
}

// New returns an empty Graph, ready for one scan's worth of Add calls.
func New() *Graph {
	g := &Graph{}
	g.reset()
	return g
}

// Reset clears all tables, matching spec §5's "a new scan clears all
// tables before traversal" / §3's "A new scan clears all tables before
// traversal."
func (g *Graph) Reset() {
	g.reset()
}

func (g *Graph) reset() {
	g.kind = make(map[string]Kind)
	g.directSuper = make(map[string]string)
	g.directSuperIface = make(map[string][]string)
	g.directImplements = make(map[string][]string)
	g.annotations = make(map[string][]string)
	g.allNames = nil
	g.allNamesOK = make(map[string]bool)
	g.finalized = false
	g.directSubs = nil
	g.directSubIface = nil
	g.directImplementors = nil
	g.subclasses = nil
	g.superclasses = nil
	g.subinterfaces = nil
	g.superinterfaces = nil
	g.implementors = nil
	g.annotatedBy = nil
}

func (g *Graph) remember(name string) {
	if !g.allNamesOK[name] {
		g.allNamesOK[name] = true
		g.allNames = append(g.allNames, name)
	}
}

// AddClass records a parsed class's relations: its declared superclass,
// its declared interfaces, and its declared annotations. Exactly one
// record per qualified name is expected (the caller — the header parser's
// shadowing check against the scanner's encountered-name set — guarantees
// this, spec §3 invariant).
func (g *Graph) AddClass(name, superclassName string, interfaces []string, annotations []string) {
	if g.finalized {
		panic("graph: AddClass called after Finalize")
	}
	g.kind[name] = KindClass
	g.remember(name)
	if superclassName != "" {
		g.directSuper[name] = superclassName
	}
	if len(interfaces) > 0 {
		g.directImplements[name] = append([]string(nil), interfaces...)
	}
	if len(annotations) > 0 {
		g.annotations[name] = append([]string(nil), annotations...)
	}
}

// AddInterface records a parsed interface's declared parent interfaces
// (spec §4.3: "link interface to super-interfaces").
func (g *Graph) AddInterface(name string, superInterfaces []string) {
	if g.finalized {
		panic("graph: AddInterface called after Finalize")
	}
	g.kind[name] = KindInterface
	g.remember(name)
	if len(superInterfaces) > 0 {
		g.directSuperIface[name] = append([]string(nil), superInterfaces...)
	}
}

// KindOf reports the recorded kind of name, and whether it was recorded at
// all this scan.
func (g *Graph) KindOf(name string) (Kind, bool) {
	k, ok := g.kind[name]
	return k, ok
}
