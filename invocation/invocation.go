// Package invocation describes a single tool execution as a value type.
//
// An Invocation is built fully-formed by upstream phase resolvers (the link
// resolver in package link, or compile-invocation builders outside this
// module's scope) and is only ever read afterward by the graph emitter.
package invocation

// AuxiliaryFile is a small generated file — a response file, a wrapper
// script — that must exist on disk before its owning Invocation can run.
type AuxiliaryFile struct {
	Path       string
	Contents   []byte
	Executable bool
}

// LegacyDependencyInfo names a dependency list an invocation's own tool will
// write in its own, non-gcc format (Apple's binary dependency-info format,
// for instance). The emitter can translate it into a gcc-style depfile for
// inspection, but does not wire it into the build edge's native `depfile`
// binding: ninja's incremental rebuild would then trust a translation this
// module never validates against the tool's real output.
type LegacyDependencyInfo struct {
	Target       string
	Dependencies []string
}

// Invocation is a single tool execution. An Invocation with an empty
// Executable but non-empty Outputs is legal: it is a coordination stub that
// the emitter wires into the graph without generating a command for it.
type Invocation struct {
	Executable       string
	Arguments        []string
	WorkingDirectory string

	Inputs            []string
	Outputs           []string
	PhonyInputs       []string
	PhonyOutputs      []string
	InputDependencies []string
	OrderDependencies []string

	AuxiliaryFiles []AuxiliaryFile

	Description string

	// LegacyDependencyInfo is non-nil when the underlying tool reports its
	// dependency list in a format the emitter must translate before it is
	// readable as a depfile. Translation only, never native tracking: see
	// LegacyDependencyInfo's doc comment.
	LegacyDependencyInfo *LegacyDependencyInfo
}

// Phony reports whether the invocation is a data-carrying coordination stub
// rather than a real command the emitter should turn into a build edge.
func (i Invocation) Phony() bool {
	return i.Executable == ""
}
