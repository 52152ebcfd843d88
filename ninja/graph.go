package ninja

import (
	"sort"
	"strings"
)

// Graph is the literal-string-only Ninja graph builder used by the build
// planner. Every method call appends one syntactic element (a comment, a
// binding, a rule, a build edge, a subninja include, or a blank-line
// separator) to an in-memory buffer; nothing is interpreted, and nothing
// touches the filesystem until Bytes is called. Equal call sequences
// produce byte-identical output.
type Graph struct {
	buf strings.Builder
	low *lowWriter
}

// NewGraph returns an empty graph ready to be written to.
func NewGraph() *Graph {
	g := &Graph{}
	g.low = newLowWriter(&g.buf)
	return g
}

// Comment emits a `# ...` comment, word-wrapped at the conventional Ninja
// line width.
func (g *Graph) Comment(text string) {
	_ = g.low.Comment(text)
}

// BlankLine emits a single blank-line separator; consecutive calls collapse
// to one blank line.
func (g *Graph) BlankLine() {
	_ = g.low.BlankLine()
}

// Binding emits a top-level `name = value` assignment.
func (g *Graph) Binding(name, value string) {
	_ = g.low.Assign(name, value)
}

// Rule emits a `rule NAME` block with a single `command` body. The build
// planner only ever needs one universal `invoke` rule, so Rule
// intentionally doesn't expose the rest of Ninja's per-rule knobs
// (depfile, pool, restat, ...) — nothing in this codebase's use of the
// Writer needs them.
func (g *Graph) Rule(name, command string) {
	_ = g.low.Rule(name)
	_ = g.low.ScopedAssign("command", command)
}

// Subninja emits a `subninja PATH` include.
func (g *Graph) Subninja(path string) {
	_ = g.low.Subninja(path)
}

// BuildEdge describes one `build` statement.
type BuildEdge struct {
	Comment string
	Rule    string

	Outputs         []string
	ImplicitOutputs []string

	Inputs            []string
	InputDependencies []string
	OrderDependencies []string

	// Bindings are the per-edge `name = value` lines written in sorted
	// key order immediately below the build statement.
	Bindings map[string]string
}

// Build emits one build edge.
func (g *Graph) Build(edge BuildEdge) {
	_ = g.low.Build(edge.Comment, edge.Rule, edge.Outputs, edge.ImplicitOutputs,
		edge.Inputs, edge.InputDependencies, edge.OrderDependencies)

	keys := make([]string, 0, len(edge.Bindings))
	for k := range edge.Bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_ = g.low.ScopedAssign(k, edge.Bindings[k])
	}
}

// Phony emits a phony build edge: no command, just a name bound to zero or
// more dependencies. Used for begin/finish target coordination nodes and
// for declaring phony inputs/outputs.
func (g *Graph) Phony(outputs, inputs, implicitDeps, orderOnlyDeps []string) {
	g.Build(BuildEdge{
		Rule:              "phony",
		Outputs:           outputs,
		Inputs:            inputs,
		InputDependencies: implicitDeps,
		OrderDependencies: orderOnlyDeps,
	})
}

// Bytes returns the serialized graph text, 8-bit clean with "\n" line
// endings, ready to be written to disk in binary mode.
func (g *Graph) Bytes() []byte {
	return []byte(g.buf.String())
}
