/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package graph

import (
	"sort"
	"testing"
)

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func equalSets(t *testing.T, got, want []string) {
	t.Helper()
	g, w := sorted(got), sorted(want)
	if len(g) != len(w) {
		t.Fatalf("got %v, want %v", g, w)
	}
	for i := range g {
		if g[i] != w[i] {
			t.Fatalf("got %v, want %v", g, w)
		}
	}
}

// buildScenario constructs the class/interface hierarchy spec.md's
// worked scenario S3 describes: interface K extends J extends I; class X
// implements K; class Y extends X; class Z implements I.
func buildScenario(t *testing.T) *Graph {
	t.Helper()
	g := New()
	g.AddInterface("I", nil)
	g.AddInterface("J", []string{"I"})
	g.AddInterface("K", []string{"J"})
	g.AddClass("X", "java.lang.Object", []string{"K"}, nil)
	g.AddClass("Y", "X", nil, nil)
	g.AddClass("Z", "java.lang.Object", []string{"I"}, nil)
	g.Finalize()
	return g
}

func TestImplementorsOfTransitiveThroughSuperinterfaces(t *testing.T) {
	g := buildScenario(t)

	equalSets(t, g.ImplementorsOf("I"), []string{"X", "Y", "Z"})
	equalSets(t, g.ImplementorsOf("K"), []string{"X", "Y"})
	equalSets(t, g.ImplementorsOf("J"), []string{"X", "Y"})
}

func TestSubclassSuperclassSymmetry(t *testing.T) {
	g := buildScenario(t)

	for _, name := range g.AllClassNames() {
		for _, sub := range g.SubclassesOf(name) {
			if !contains(g.SuperclassesOf(sub), name) {
				t.Errorf("%s in subclasses(%s) but %s not in superclasses(%s)", sub, name, name, sub)
			}
		}
	}
}

func TestNoSelfInClosures(t *testing.T) {
	g := buildScenario(t)
	for _, name := range g.AllClassNames() {
		if contains(g.SubclassesOf(name), name) {
			t.Errorf("%s is its own subclass", name)
		}
		if contains(g.SuperclassesOf(name), name) {
			t.Errorf("%s is its own superclass", name)
		}
		if contains(g.SubinterfacesOf(name), name) {
			t.Errorf("%s is its own subinterface", name)
		}
		if contains(g.SuperinterfacesOf(name), name) {
			t.Errorf("%s is its own superinterface", name)
		}
	}
}

func TestInterfaceClosures(t *testing.T) {
	g := buildScenario(t)
	equalSets(t, g.SubinterfacesOf("I"), []string{"J", "K"})
	equalSets(t, g.SuperinterfacesOf("K"), []string{"I", "J"})
}

func TestAnnotatedBy(t *testing.T) {
	g := New()
	g.AddClass("A", "java.lang.Object", nil, []string{"Deprecated"})
	g.AddClass("B", "java.lang.Object", nil, []string{"Deprecated"})
	g.AddClass("C", "java.lang.Object", nil, nil)
	g.Finalize()

	equalSets(t, g.ClassesWithAnnotation("Deprecated"), []string{"A", "B"})
	equalSets(t, g.ClassesWithAnnotation("Missing"), nil)
}

func TestResetClearsState(t *testing.T) {
	g := buildScenario(t)
	g.Reset()
	if g.Finalized() {
		t.Error("Finalized() = true after Reset")
	}
	if len(g.AllClassNames()) != 0 {
		t.Errorf("AllClassNames() = %v after Reset, want empty", g.AllClassNames())
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	g := buildScenario(t)
	before := g.ImplementorsOf("I")
	g.Finalize() // second call should be a no-op, not panic or duplicate
	after := g.ImplementorsOf("I")
	equalSets(t, before, after)
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
