package internal

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jdm7dv/xcbuild/config"
	"github.com/jdm7dv/xcbuild/graphemit"
	"github.com/jdm7dv/xcbuild/invocation"
	"github.com/jdm7dv/xcbuild/link"
	"github.com/jdm7dv/xcbuild/settings"
	"github.com/jdm7dv/xcbuild/specs"
	"github.com/jdm7dv/xcbuild/targetgraph"
)

// EmitOptions holds flags for the emit command.
type EmitOptions struct {
	*RootOptions
	DryRun bool
}

func newEmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "emit <fixture.yaml>",
		Short: "Resolve every target's link phase and emit the build graph",
		Args:  cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "skip writing auxiliary files (Ninja will still expect them to exist)")

	return cmd
}

func runEmit(cmd *cobra.Command, opts *EmitOptions, fixturePath string) error {
	project, err := config.Load(fixturePath)
	if err != nil {
		return err
	}

	registry := specs.NewRegistry()
	for _, l := range project.Linkers {
		registry.Add(l.Identifier, l.Domains, specs.Linker{Identifier: l.Identifier, Executable: l.Executable})
	}

	baseEnv := settings.NewEnvironment(project.Settings)

	graph := targetgraph.New()
	targetsByName := make(map[string]config.Target, len(project.Targets))
	for _, t := range project.Targets {
		graph.AddTarget(t.Name)
		targetsByName[t.Name] = t
	}
	for _, t := range project.Targets {
		for _, dep := range t.DependsOn {
			graph.AddDependency(t.Name, dep)
		}
	}
	if cycle := graph.DetectCycle(); cycle != nil {
		return fmt.Errorf("xcninja: dependency cycle among targets: %v", cycle)
	}

	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel}))

	resolver := &fixtureResolver{registry: registry, baseEnv: baseEnv, targets: targetsByName}

	objRoot := project.ObjRoot
	if objRoot == "" {
		objRoot = baseEnv.Resolve("OBJROOT")
	}

	rootPath, err := graphemit.Emit(graphemit.Options{
		Build: graphemit.BuildInfo{
			Action:        project.Action,
			WorkspaceLine: project.WorkspaceLine,
			ProjectLine:   project.ProjectLine,
			Scheme:        project.Scheme,
			Configuration: project.Configuration,
			ObjRoot:       objRoot,
		},
		Formatter:   defaultFormatter{},
		SearchPaths: project.SearchPaths,
		DryRun:      opts.DryRun,
		Logger:      logger,
	}, graph, resolver)
	if err != nil {
		return fmt.Errorf("xcninja: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), rootPath)
	return nil
}

// fixtureResolver adapts a parsed config.Project into graphemit.Resolver,
// running the link resolver over each target's fixture-described
// frameworks/sources phases to produce its invocation list.
type fixtureResolver struct {
	registry *specs.Registry
	baseEnv  *settings.Environment
	targets  map[string]config.Target
}

func (r *fixtureResolver) Resolve(name string) (graphemit.Resolution, error) {
	target, ok := r.targets[name]
	if !ok {
		return graphemit.Resolution{}, fmt.Errorf("xcninja: unknown target %q", name)
	}

	targetEnv := r.baseEnv.PushFront(settings.Layer{Name: "target:" + name, Values: target.Settings})

	te := fixtureTargetEnv{
		env:           targetEnv,
		variants:      target.Variants,
		architectures: target.Architectures,
		domains:       target.Domains,
		workdir:       target.WorkingDirectory,
	}
	sources := fixtureSourcesResolver{spec: target.Sources}

	linkInvocations, err := link.Resolve(r.registry, te, fixturePhaseContext{}, target.FrameworksPhaseFiles, sources)
	if err != nil {
		return graphemit.Resolution{}, fmt.Errorf("target %s: %w", name, err)
	}

	invocations := append([]invocation.Invocation{}, linkInvocations...)
	for _, spec := range target.ExtraInvocations {
		invocations = append(invocations, toInvocation(spec))
	}

	tempDir := target.TempDir
	if tempDir == "" {
		tempDir = targetEnv.Resolve("TARGET_TEMP_DIR")
	}

	return graphemit.Resolution{Invocations: invocations, TempDir: tempDir}, nil
}

type fixtureTargetEnv struct {
	env           *settings.Environment
	variants      []string
	architectures []string
	domains       []string
	workdir       string
}

func (f fixtureTargetEnv) Environment() *settings.Environment { return f.env }
func (f fixtureTargetEnv) Variants() []string                 { return f.variants }
func (f fixtureTargetEnv) Architectures() []string            { return f.architectures }
func (f fixtureTargetEnv) SpecDomains() []string              { return f.domains }
func (f fixtureTargetEnv) WorkingDirectory() string           { return f.workdir }

// fixtureSourcesResolver exposes a fixture target's Sources block as the
// explicit object-outputs view link.Resolve prefers: the fixture format
// already knows its final object-file lists, so there's no invocation list
// to filter by ".o" extension.
type fixtureSourcesResolver struct {
	spec config.SourcesSpec
}

func (f fixtureSourcesResolver) LinkerDriver() string { return f.spec.LinkerDriver }
func (f fixtureSourcesResolver) LinkerArgs() []string { return f.spec.LinkerArgs }
func (f fixtureSourcesResolver) VariantArchitectureInvocations() map[link.VariantArch][]invocation.Invocation {
	return nil
}
func (f fixtureSourcesResolver) ObjectOutputs(va link.VariantArch) ([]string, bool) {
	byArch, ok := f.spec.Objects[va.Variant]
	if !ok {
		return nil, false
	}
	outputs, ok := byArch[va.Architecture]
	return outputs, ok
}

// fixturePhaseContext resolves a frameworks-phase file list by expanding
// each entry's ${VAR} references against the architecture-level
// environment, matching pbxbuild's PhaseContext::resolveBuildFiles.
type fixturePhaseContext struct{}

func (fixturePhaseContext) ResolveBuildFiles(env *settings.Environment, files []string) []string {
	resolved := make([]string, len(files))
	for i, file := range files {
		resolved[i] = env.Expand(file)
	}
	return resolved
}

// defaultFormatter is a minimal Formatter: it uses the invocation's own
// Description when present and otherwise falls back to naming the
// executable, standing in for the out-of-scope Formatter that would
// otherwise produce Xcode's familiar "Ld", "Libtool", "CompileC" style
// status lines.
type defaultFormatter struct{}

func (defaultFormatter) CreateAuxiliaryDirectory(dir string) string {
	return "Create directory " + dir
}

func (defaultFormatter) BeginInvocation(inv invocation.Invocation, executable string) string {
	if inv.Description != "" {
		return inv.Description
	}
	return "Run " + executable
}

func toInvocation(spec config.InvocationSpec) invocation.Invocation {
	return invocation.Invocation{
		Executable:        spec.Executable,
		Arguments:         spec.Arguments,
		WorkingDirectory:  spec.WorkingDirectory,
		Inputs:            spec.Inputs,
		Outputs:           spec.Outputs,
		PhonyInputs:       spec.PhonyInputs,
		PhonyOutputs:      spec.PhonyOutputs,
		InputDependencies: spec.InputDependencies,
		OrderDependencies: spec.OrderDependencies,
		Description:       spec.Description,
	}
}
