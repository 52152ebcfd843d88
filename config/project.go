// Package config loads the YAML fixture consumed by cmd/xcninja: a toy
// project description (targets, their variants/architectures, their
// sources-phase outputs and frameworks-phase files) standing in for a full
// Xcode project/workspace reader.
//
// The schema is not part of the core planner's public contract and may
// change freely; it exists only to exercise link.Resolve and graphemit.Emit
// end to end from the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jdm7dv/xcbuild/pathtools"
)

// LinkerSpec describes one entry to register in a specs.Registry.
type LinkerSpec struct {
	Identifier string   `yaml:"identifier"`
	Domains    []string `yaml:"domains"`
	Executable string   `yaml:"executable,omitempty"`
}

// InvocationSpec is the YAML shape of one pre-resolved tool invocation, used
// for the phases this fixture format doesn't model directly (compiles,
// resource copies, script phases) so a target can still exercise the full
// emitter pipeline.
type InvocationSpec struct {
	Executable       string   `yaml:"executable,omitempty"`
	Arguments        []string `yaml:"arguments,omitempty"`
	WorkingDirectory string   `yaml:"workingDirectory,omitempty"`

	Inputs            []string `yaml:"inputs,omitempty"`
	Outputs           []string `yaml:"outputs,omitempty"`
	PhonyInputs       []string `yaml:"phonyInputs,omitempty"`
	PhonyOutputs      []string `yaml:"phonyOutputs,omitempty"`
	InputDependencies []string `yaml:"inputDependencies,omitempty"`
	OrderDependencies []string `yaml:"orderDependencies,omitempty"`

	Description string `yaml:"description,omitempty"`
}

// SourcesSpec is the fixture's stand-in for the out-of-scope sources-phase
// resolver: a linker driver/args pair plus each (variant, architecture)'s
// object-file outputs.
type SourcesSpec struct {
	LinkerDriver string                       `yaml:"linkerDriver,omitempty"`
	LinkerArgs   []string                     `yaml:"linkerArgs,omitempty"`
	Objects      map[string]map[string][]string `yaml:"objects,omitempty"` // variant -> architecture -> object paths
}

// Target is one node of the fixture's target graph.
type Target struct {
	Name      string   `yaml:"name"`
	DependsOn []string `yaml:"dependsOn,omitempty"`

	TempDir          string `yaml:"tempDir"`
	WorkingDirectory string `yaml:"workingDirectory,omitempty"`

	Variants      []string `yaml:"variants"`
	Architectures []string `yaml:"architectures"`
	Domains       []string `yaml:"domains,omitempty"`

	// Settings layers over the project's settings for this target only.
	Settings map[string]string `yaml:"settings,omitempty"`

	FrameworksPhaseFiles      []string `yaml:"frameworksPhaseFiles,omitempty"`
	FrameworksPhaseFileGlobs  []string `yaml:"frameworksPhaseFileGlobs,omitempty"`

	Sources SourcesSpec `yaml:"sources,omitempty"`

	// ExtraInvocations are additional invocations (compiles, script
	// phases, resource copies) contributed by phases this fixture format
	// doesn't otherwise model, carried through to the emitter alongside
	// whatever link.Resolve produces.
	ExtraInvocations []InvocationSpec `yaml:"extraInvocations,omitempty"`
}

// Project is the top-level fixture document.
type Project struct {
	Action        string `yaml:"action"`
	WorkspaceLine string `yaml:"workspace,omitempty"`
	ProjectLine   string `yaml:"project,omitempty"`
	Scheme        string `yaml:"scheme,omitempty"`
	Configuration string `yaml:"configuration"`
	ObjRoot       string `yaml:"objroot"`

	SearchPaths      []string `yaml:"searchPaths,omitempty"`
	SearchPathGlobs  []string `yaml:"searchPathGlobs,omitempty"`

	Settings map[string]string `yaml:"settings"`
	Linkers  []LinkerSpec       `yaml:"linkers"`
	Targets  []Target           `yaml:"targets"`

	// dir is the directory the fixture file was loaded from; glob
	// patterns in SearchPathGlobs/FrameworksPhaseFileGlobs are resolved
	// relative to it.
	dir string
}

// Load reads and parses a YAML project fixture from path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var project Project
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	project.dir = filepath.Dir(path)

	if err := project.expandGlobs(); err != nil {
		return nil, err
	}

	return &project, nil
}

// expandGlobs resolves SearchPathGlobs and each target's
// FrameworksPhaseFileGlobs against the fixture's directory
// (pathtools.GlobPatternList), and appends the results to the corresponding
// literal list.
func (p *Project) expandGlobs() error {
	if len(p.SearchPathGlobs) > 0 {
		matches, _, err := pathtools.GlobPatternList(p.SearchPathGlobs, p.dir)
		if err != nil {
			return fmt.Errorf("config: expanding searchPathGlobs: %w", err)
		}
		p.SearchPaths = append(p.SearchPaths, matches...)
	}

	for i := range p.Targets {
		target := &p.Targets[i]
		if len(target.FrameworksPhaseFileGlobs) == 0 {
			continue
		}
		matches, _, err := pathtools.GlobPatternList(target.FrameworksPhaseFileGlobs, p.dir)
		if err != nil {
			return fmt.Errorf("config: expanding frameworksPhaseFileGlobs for target %s: %w", target.Name, err)
		}
		target.FrameworksPhaseFiles = append(target.FrameworksPhaseFiles, matches...)
	}

	return nil
}
