// Package targetgraph holds the directed-acyclic-graph container for the
// target dependency relation the emitter walks.
//
// The target count in one project is small, so this is a plain adjacency
// structure walked with an explicit visited set rather than a
// general-purpose graph package.
package targetgraph

import "fmt"

// Graph is a directed graph of target names; an edge from A to B means A
// depends on B: B must finish before A begins.
type Graph struct {
	nodes map[string]bool
	order []string // insertion order, since map iteration isn't deterministic
	edges map[string][]string // target -> its direct dependencies
}

// New returns an empty target graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		edges: make(map[string][]string),
	}
}

// AddTarget registers name as a node, if not already present.
func (g *Graph) AddTarget(name string) {
	if _, ok := g.nodes[name]; !ok {
		g.nodes[name] = true
		g.order = append(g.order, name)
	}
}

// AddDependency records that target depends on dependsOn: dependsOn must
// finish before target begins.
func (g *Graph) AddDependency(target, dependsOn string) {
	g.AddTarget(target)
	g.AddTarget(dependsOn)
	g.edges[target] = append(g.edges[target], dependsOn)
}

// Targets returns every registered target name. Order is insertion order,
// which is deterministic for a given sequence of AddTarget/AddDependency
// calls but carries no ordering guarantee the emitter may rely on — the
// downstream executor re-sorts.
func (g *Graph) Targets() []string {
	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}

// DependsOn returns the direct dependencies of target (the targets that
// must finish before target begins).
func (g *Graph) DependsOn(target string) []string {
	return g.edges[target]
}

// Dependents returns every target that directly depends on target.
func (g *Graph) Dependents(target string) []string {
	var out []string
	for _, name := range g.Targets() {
		for _, dep := range g.edges[name] {
			if dep == target {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// DetectCycle reports the first dependency cycle found, as the ordered list
// of target names forming it, or nil if the graph is acyclic. A cycle is
// the caller's error — the emitter itself never checks this; whatever
// assembles the TargetGraph is expected to call DetectCycle first.
func (g *Graph) DetectCycle() []string {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(name string) []string
	visit = func(name string) []string {
		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range g.edges[name] {
			switch state[dep] {
			case visiting:
				// Found the back-edge; slice the stack from dep's first
				// occurrence to reconstruct the cycle.
				for i, n := range stack {
					if n == dep {
						cycle := append([]string{}, stack[i:]...)
						return append(cycle, dep)
					}
				}
				return []string{dep}
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		state[name] = done
		stack = stack[:len(stack)-1]
		return nil
	}

	for _, name := range g.Targets() {
		if state[name] == unvisited {
			if cycle := visit(name); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// TopoOrder returns targets such that every target appears after all of
// its dependencies. It exists for diagnostics only: the emitter may
// iterate in any order because the downstream executor re-sorts the graph
// itself.
func (g *Graph) TopoOrder() ([]string, error) {
	if cycle := g.DetectCycle(); cycle != nil {
		return nil, fmt.Errorf("targetgraph: dependency cycle: %v", cycle)
	}

	visited := make(map[string]bool, len(g.nodes))
	var order []string

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, dep := range g.edges[name] {
			visit(dep)
		}
		order = append(order, name)
	}

	for _, name := range g.Targets() {
		visit(name)
	}
	return order, nil
}
