// Package graphemit implements the build-graph emitter: it walks a target
// dependency graph, wires begin/finish phony coordination nodes,
// deduplicates output-directory creation edges across targets, writes
// per-invocation auxiliary files to disk, and serializes a root build.ninja
// plus one build.ninja per target.
//
// Ported from xcbuild's NinjaExecutor.cpp: Emit mirrors NinjaExecutor::build,
// buildTargetOutputDirectories, buildTargetAuxiliaryFiles, and
// buildTargetInvocations step for step, including the exact phony-output
// hashing scheme and the per-target, per-invocation mkdir-dedup ordering.
package graphemit

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/jdm7dv/xcbuild/deptools"
	"github.com/jdm7dv/xcbuild/invocation"
	"github.com/jdm7dv/xcbuild/link"
	"github.com/jdm7dv/xcbuild/ninja"
	"github.com/jdm7dv/xcbuild/pathtools"
	"github.com/jdm7dv/xcbuild/shellarg"
	"github.com/jdm7dv/xcbuild/targetgraph"
)

// ErrWriteFailed is wrapped into the error Emit returns when a filesystem
// write (auxiliary file, per-target graph, or root graph) fails. This
// class of error is fatal and aborts the whole build.
var ErrWriteFailed = fmt.Errorf("graphemit: filesystem write failed")

// Formatter supplies the human-readable status text the emitter embeds in
// generated edges. Only the first line of either return value is used,
// since Ninja status lines can't span multiple lines.
type Formatter interface {
	CreateAuxiliaryDirectory(dir string) string
	BeginInvocation(inv invocation.Invocation, executable string) string
}

// Resolution is what a Resolver produces for one target: its fully resolved
// invocation list (already including any link-phase invocations) and the
// directory its per-target build.ninja should be written into
// (TARGET_TEMP_DIR).
type Resolution struct {
	Invocations []invocation.Invocation
	TempDir     string
}

// Resolver resolves a target's environment and phase invocations. A
// non-nil error ("couldn't create target environment") is per-target and
// non-fatal to the overall build; the walk continues with the next target.
// The exception is an error wrapping link.ErrMissingTool, which Emit
// returns, aborting the whole build.
type Resolver interface {
	Resolve(target string) (Resolution, error)
}

// BuildInfo carries the root-graph header information: action name,
// workspace-or-project identity, optional scheme, configuration name, and
// the resolved OBJROOT that becomes `builddir`.
type BuildInfo struct {
	Action string

	// WorkspaceLine and ProjectLine are the workspace or project path; Emit
	// writes the header comment as "Workspace: <path>" or "Project: <path>".
	// When both are set, only the workspace line is written, matching the
	// original's if/else-if.
	WorkspaceLine string
	ProjectLine   string

	// Scheme is empty when the build has no associated scheme.
	Scheme        string
	Configuration string

	ObjRoot string
}

// Options configures a single Emit call.
type Options struct {
	Build       BuildInfo
	Formatter   Formatter
	SearchPaths []string
	DryRun      bool
	Logger      *slog.Logger
}

const ninjaRuleName = "invoke"

// Emit walks graph in its stored iteration order, resolving and emitting
// every target via resolver, and writes the root build.ninja to
// "<ObjRoot>/build.ninja". It returns that path on success.
func Emit(opts Options, graph *targetgraph.Graph, resolver Resolver) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	root := ninja.NewGraph()
	root.Comment("xcbuild ninja")
	root.Comment("Action: " + opts.Build.Action)
	if opts.Build.WorkspaceLine != "" {
		root.Comment("Workspace: " + opts.Build.WorkspaceLine)
	} else if opts.Build.ProjectLine != "" {
		root.Comment("Project: " + opts.Build.ProjectLine)
	}
	if opts.Build.Scheme != "" {
		root.Comment("Scheme: " + opts.Build.Scheme)
	}
	root.Comment("Configuation: " + opts.Build.Configuration)
	root.BlankLine()

	root.Binding("builddir", opts.Build.ObjRoot)
	root.BlankLine()

	root.Rule(ninjaRuleName, "cd $dir && $exec")

	seenDirs := make(map[string]bool)

	for _, target := range graph.Targets() {
		begin := targetBegin(target)
		finish := targetFinish(target)

		var dependenciesFinished []string
		for _, dep := range graph.DependsOn(target) {
			dependenciesFinished = append(dependenciesFinished, targetFinish(dep))
		}
		root.Phony([]string{begin}, dependenciesFinished, nil, nil)

		resolution, err := resolver.Resolve(target)
		if err != nil {
			if errors.Is(err, link.ErrMissingTool) {
				return "", err
			}
			logger.Error("couldn't create target environment", "target", target, "error", err)
			continue
		}

		emitOutputDirectories(root, begin, resolution.Invocations, seenDirs, opts.Formatter)

		targetPath, err := emitTargetGraph(target, begin, resolution, opts, logger)
		if err != nil {
			return "", err
		}
		root.Subninja(targetPath)

		var invocationOutputs []string
		var invocationOrderOnlyOutputs []string
		for _, inv := range resolution.Invocations {
			invocationOutputs = append(invocationOutputs, inv.Outputs...)
			for _, phonyOutput := range inv.PhonyOutputs {
				invocationOrderOnlyOutputs = append(invocationOrderOnlyOutputs, PhonyOutputTarget(phonyOutput))
			}
		}
		root.Phony([]string{finish}, nil, invocationOutputs, invocationOrderOnlyOutputs)
	}

	rootPath := path.Join(opts.Build.ObjRoot, "build.ninja")
	if err := writeNinjaFile(rootPath, root.Bytes()); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteFailed, rootPath, err)
	}
	logger.Info("wrote meta-ninja", "path", rootPath)

	return rootPath, nil
}

func emitOutputDirectories(root *ninja.Graph, begin string, invocations []invocation.Invocation, seenDirs map[string]bool, formatter Formatter) {
	for _, inv := range invocations {
		for _, output := range inv.Outputs {
			dir := path.Dir(output)
			if seenDirs[dir] {
				continue
			}
			seenDirs[dir] = true

			description := firstLine(formatter.CreateAuxiliaryDirectory(dir))
			command := "/bin/mkdir -p " + shellarg.Escape(dir)

			root.Build(ninja.BuildEdge{
				Rule:              ninjaRuleName,
				Outputs:           []string{dir},
				OrderDependencies: []string{begin},
				Bindings: map[string]string{
					"description": description,
					"dir":         shellarg.Escape(inv.WorkingDirectory),
					"exec":        command,
				},
			})
		}
	}
}

func emitTargetGraph(target, begin string, resolution Resolution, opts Options, logger *slog.Logger) (string, error) {
	sub := ninja.NewGraph()
	sub.Comment("xcbuild ninja")
	sub.Comment("Target: " + target)
	sub.BlankLine()

	if !opts.DryRun {
		for _, inv := range resolution.Invocations {
			for _, aux := range inv.AuxiliaryFiles {
				if err := writeAuxiliaryFile(aux); err != nil {
					return "", fmt.Errorf("%w: %s: %v", ErrWriteFailed, aux.Path, err)
				}
			}
		}
	}

	for _, inv := range resolution.Invocations {
		if inv.Phony() {
			continue
		}

		executable := shellarg.Resolve(inv.Executable, opts.SearchPaths)
		if executable == "" {
			logger.Error("unable to find executable", "executable", inv.Executable)
			continue
		}

		exec := shellarg.Command(executable, inv.Arguments)
		description := firstLine(opts.Formatter.BeginInvocation(inv, executable))

		outputs := append([]string{}, inv.Outputs...)
		for _, phonyOutput := range inv.PhonyOutputs {
			outputs = append(outputs, PhonyOutputTarget(phonyOutput))
		}

		for _, phonyInput := range inv.PhonyInputs {
			sub.Phony([]string{phonyInput}, nil, nil, nil)
		}

		orderDependencies := append([]string{}, inv.OrderDependencies...)
		orderDependencies = append(orderDependencies, outputDirectories(inv.Outputs)...)
		orderDependencies = append(orderDependencies, begin)

		if inv.LegacyDependencyInfo != nil {
			if err := writeLegacyDepFile(resolution.TempDir, inv.LegacyDependencyInfo); err != nil {
				logger.Error("couldn't translate dependency info", "target", target, "error", err)
			}
		}

		sub.Build(ninja.BuildEdge{
			Rule:              ninjaRuleName,
			Outputs:           outputs,
			Inputs:            inv.Inputs,
			InputDependencies: inv.InputDependencies,
			OrderDependencies: orderDependencies,
			Bindings: map[string]string{
				"description": description,
				"dir":         shellarg.Escape(inv.WorkingDirectory),
				"exec":        exec,
			},
		})
	}

	targetPath := path.Join(resolution.TempDir, "build.ninja")
	if err := writeNinjaFile(targetPath, sub.Bytes()); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteFailed, targetPath, err)
	}
	logger.Info("wrote target ninja", "target", target, "path", targetPath)

	return targetPath, nil
}

// outputDirectories returns the distinct directories of outputs, in sorted
// order. The original keeps these in an unordered_set; emitting them
// unsorted would make the order-dependency list (and thus the serialized
// graph) depend on map iteration order, breaking this planner's
// determinism guarantee. Sorting is this rewrite's resolution of that gap.
func outputDirectories(outputs []string) []string {
	seen := make(map[string]bool, len(outputs))
	var dirs []string
	for _, output := range outputs {
		dir := path.Dir(output)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// PhonyOutputTarget derives the synthetic output path standing in for a
// phony output: the literal string ".ninja-phony-output-" followed by the
// lowercase hex MD5 of the phony output string. Equal inputs yield equal
// paths, so two invocations declaring the same phony output produce build
// edges that share one synthetic output; the emitter does not merge them.
func PhonyOutputTarget(phonyOutput string) string {
	sum := md5.Sum([]byte(phonyOutput))
	return ".ninja-phony-output-" + hex.EncodeToString(sum[:])
}

func targetBegin(target string) string  { return "begin-target-" + target }
func targetFinish(target string) string { return "finish-target-" + target }

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i != -1 {
		return s[:i]
	}
	return s
}

func writeAuxiliaryFile(aux invocation.AuxiliaryFile) error {
	if err := os.MkdirAll(path.Dir(aux.Path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(aux.Path, aux.Contents, 0644); err != nil {
		return err
	}
	if aux.Executable {
		if err := os.Chmod(aux.Path, 0755); err != nil {
			return err
		}
	}
	return nil
}

// writeLegacyDepFile translates a tool's non-gcc dependency report into a
// gcc-style depfile alongside the target's ninja graph, for inspection
// only: it is not wired into the build edge's native `depfile` binding,
// since that would make ninja trust a translation this module never
// validates against the tool's real output.
func writeLegacyDepFile(tempDir string, info *invocation.LegacyDependencyInfo) error {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return err
	}
	depName := pathtools.ReplaceExtension(path.Base(info.Target), "d")
	depPath := path.Join(tempDir, depName)
	return deptools.WriteDepFile(depPath, info.Target, info.Dependencies)
}

func writeNinjaFile(targetPath string, contents []byte) error {
	if err := os.MkdirAll(path.Dir(targetPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(targetPath, contents, 0644)
}
