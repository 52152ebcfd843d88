// Package settings provides a minimal, layered build-setting environment
// standing in for a full project/workspace build-setting evaluator.
//
// Lookup is scoped: a parent-linked chain of immutable layers, searched
// nearest-first, so a target or architecture layer can shadow a setting
// without mutating the layer beneath it. It resolves plain `${VAR}` string
// interpolation, matching the pbxsetting::Environment shape used by xcbuild.
package settings

import (
	"fmt"
	"strings"
)

// maxInterpolationDepth bounds ${VAR} expansion recursion. This planner
// treats a cycle as an error rather than looping forever or silently
// truncating.
const maxInterpolationDepth = 32

// Layer is one named frame of settings, e.g. a variant level or an
// architecture level pushed by the link resolver.
type Layer struct {
	Name   string
	Values map[string]string
}

// Environment is an immutable cons-list of Layers. The zero value is a
// valid, empty environment.
type Environment struct {
	layer  *Layer
	parent *Environment
}

// NewEnvironment builds a base environment from a single layer of values.
func NewEnvironment(values map[string]string) *Environment {
	return &Environment{layer: &Layer{Name: "base", Values: values}}
}

// PushFront returns a new Environment with layer searched before e's
// existing layers. e itself is never mutated: environments are immutable
// value snapshots, not pointer graphs mutated in place.
func (e *Environment) PushFront(layer Layer) *Environment {
	return &Environment{layer: &layer, parent: e}
}

// Lookup returns the raw (unexpanded) value bound to key in the nearest
// layer that defines it, and whether it was found.
func (e *Environment) Lookup(key string) (string, bool) {
	for env := e; env != nil; env = env.parent {
		if env.layer == nil {
			continue
		}
		if v, ok := env.layer.Values[key]; ok {
			return v, true
		}
	}
	return "", false
}

// Resolve returns the value of key with every `${OTHER_VAR}` reference
// recursively expanded against this same environment. An undefined
// variable expands to the empty string, matching common build-setting
// evaluator behavior; a self-referential chain longer than
// maxInterpolationDepth makes Resolve return the empty string, with no
// other marker — ResolveErr is available when the caller wants to detect it.
func (e *Environment) Resolve(key string) string {
	v, _ := e.ResolveErr(key)
	return v
}

// ResolveErr is Resolve's explicit-error counterpart.
func (e *Environment) ResolveErr(key string) (string, error) {
	raw, _ := e.Lookup(key)
	return e.expand(raw, 0)
}

// Expand resolves every `${VAR}` reference in an arbitrary string against
// this environment — the same interpolation Resolve applies to a layer
// value, exposed for literal strings that aren't themselves setting keys
// (build-file paths, argument templates).
func (e *Environment) Expand(value string) string {
	expanded, _ := e.expand(value, 0)
	return expanded
}

func (e *Environment) expand(value string, depth int) (string, error) {
	if depth > maxInterpolationDepth {
		return "", fmt.Errorf("settings: interpolation depth exceeded while expanding %q (possible cycle)", value)
	}

	var b strings.Builder
	for {
		start := strings.Index(value, "${")
		if start == -1 {
			b.WriteString(value)
			break
		}
		end := strings.Index(value[start:], "}")
		if end == -1 {
			b.WriteString(value)
			break
		}
		end += start

		b.WriteString(value[:start])
		name := value[start+2 : end]
		raw, _ := e.Lookup(name)
		expanded, err := e.expand(raw, depth+1)
		if err != nil {
			return "", err
		}
		b.WriteString(expanded)
		value = value[end+1:]
	}
	return b.String(), nil
}
