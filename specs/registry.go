// Package specs is a minimal in-memory stand-in for the full Xcode
// tool-specification loader: a lookup table from (identifier, domain) to a
// Linker definition, the shape the link resolver needs from
// "com.apple.pbx.linkers.ld", "com.apple.pbx.linkers.libtool",
// "com.apple.xcode.linkers.lipo", and "com.apple.tools.dsymutil".
package specs

// Linker describes enough of a linker/tool spec for the link resolver to
// build invocations: its identifier and the executable to run when the
// resolver doesn't already have one from the sources resolver (used for
// libtool, lipo, and dsymutil; the `ld` case instead takes its executable
// from the sources resolver).
type Linker struct {
	Identifier string
	Executable string
}

// Key identifies a spec by identifier within a search domain.
type Key struct {
	Identifier string
	Domain     string
}

// Registry is a flat (identifier, domain) -> Linker table.
type Registry struct {
	entries map[Key]Linker
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key]Linker)}
}

// Add registers spec under identifier for every domain in domains. A spec
// registered for multiple domains is visible from all of them.
func (r *Registry) Add(identifier string, domains []string, spec Linker) {
	for _, domain := range domains {
		r.entries[Key{Identifier: identifier, Domain: domain}] = spec
	}
}

// Linker looks up identifier across domains in order, returning the first
// match, or nil if none of the domains define it.
func (r *Registry) Linker(identifier string, domains []string) *Linker {
	for _, domain := range domains {
		if spec, ok := r.entries[Key{Identifier: identifier, Domain: domain}]; ok {
			return &spec
		}
	}
	return nil
}
