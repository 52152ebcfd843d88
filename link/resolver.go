// Package link implements the frameworks/link phase resolver: from a
// target's frameworks-phase file list and the outputs of its sources
// phase, it produces per-variant/per-architecture link invocations, an
// optional universal-binary lipo merge, and an optional dsymutil
// extraction.
//
// Ported from xcbuild's FrameworksResolver.cpp: the control flow below —
// four tool-spec lookups, the staticlib/executable linker branch, the
// per-variant/per-architecture double loop, the universal-binary fan-out,
// and the dsym branch — mirrors FrameworksResolver::Create step for step.
package link

import (
	"fmt"
	"path"

	"github.com/jdm7dv/xcbuild/invocation"
	"github.com/jdm7dv/xcbuild/settings"
	"github.com/jdm7dv/xcbuild/specs"
)

const (
	identifierLD       = "com.apple.pbx.linkers.ld"
	identifierLibtool  = "com.apple.pbx.linkers.libtool"
	identifierLipo     = "com.apple.xcode.linkers.lipo"
	identifierDsymutil = "com.apple.tools.dsymutil"
)

// ErrMissingTool is wrapped into the error Resolve returns when any of the
// four required tool specs (ld, libtool, lipo, dsymutil) can't be found.
// This is fatal to the whole resolve.
var ErrMissingTool = fmt.Errorf("link: missing required linker tool spec")

// BuildEnvironment is the subset of the out-of-scope build environment this
// resolver needs: linker/tool spec lookup by identifier and search domain.
type BuildEnvironment interface {
	Linker(identifier string, domains []string) *specs.Linker
}

// TargetEnvironment is the subset of the out-of-scope per-target
// environment this resolver needs.
type TargetEnvironment interface {
	Environment() *settings.Environment
	Variants() []string
	Architectures() []string
	SpecDomains() []string
	WorkingDirectory() string
}

// VariantArch keys the sources resolver's per-(variant, architecture)
// invocation map.
type VariantArch struct {
	Variant      string
	Architecture string
}

// SourcesResolver is the subset of the out-of-scope sources-phase resolver
// this resolver needs.
type SourcesResolver interface {
	LinkerDriver() string
	LinkerArgs() []string
	VariantArchitectureInvocations() map[VariantArch][]invocation.Invocation

	// ObjectOutputs optionally provides an explicit, pre-filtered view of
	// a (variant, architecture)'s object-file outputs. When ok is false,
	// Resolve falls back to filtering VariantArchitectureInvocations by
	// ".o" extension, matching FrameworksResolver.cpp's approximation
	// (flagged there as "TODO(grp): Is this the right set of source
	// outputs to link?").
	ObjectOutputs(va VariantArch) (outputs []string, ok bool)
}

// PhaseContext is the subset of the out-of-scope phase context this
// resolver needs: resolving a frameworks-phase file list against an
// environment.
type PhaseContext interface {
	ResolveBuildFiles(env *settings.Environment, files []string) []string
}

// Resolve builds the link invocations for one target.
func Resolve(
	buildEnv BuildEnvironment,
	targetEnv TargetEnvironment,
	phaseCtx PhaseContext,
	frameworksPhaseFiles []string,
	sourcesResolver SourcesResolver,
) ([]invocation.Invocation, error) {
	domains := targetEnv.SpecDomains()

	ld := buildEnv.Linker(identifierLD, domains)
	libtool := buildEnv.Linker(identifierLibtool, domains)
	lipo := buildEnv.Linker(identifierLipo, domains)
	dsymutil := buildEnv.Linker(identifierDsymutil, domains)
	if ld == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingTool, identifierLD)
	}
	if libtool == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingTool, identifierLibtool)
	}
	if lipo == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingTool, identifierLipo)
	}
	if dsymutil == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingTool, identifierDsymutil)
	}

	targetEnvironment := targetEnv.Environment()
	machOType := targetEnvironment.Resolve("MACH_O_TYPE")

	var linkerExecutable string
	var linkerArgs []string
	if machOType == "staticlib" {
		linkerExecutable = libtool.Executable
	} else {
		_ = ld // looked up for its required-tool check only; ld's executable comes from the sources resolver
		linkerExecutable = sourcesResolver.LinkerDriver()
		linkerArgs = append(linkerArgs, sourcesResolver.LinkerArgs()...)
	}

	workingDirectory := targetEnv.WorkingDirectory()
	productsDirectory := targetEnvironment.Resolve("BUILT_PRODUCTS_DIR")

	var invocations []invocation.Invocation

	for _, variant := range targetEnv.Variants() {
		variantEnv := targetEnvironment.PushFront(variantLevel(variant))

		variantIntermediatesName := variantEnv.Resolve("EXECUTABLE_NAME") + variantEnv.Resolve("EXECUTABLE_VARIANT_SUFFIX")
		variantIntermediatesDirectory := variantEnv.Resolve("OBJECT_FILE_DIR_" + variant)

		variantProductsPath := variantEnv.Resolve("EXECUTABLE_PATH") + variantEnv.Resolve("EXECUTABLE_VARIANT_SUFFIX")
		variantProductsOutput := path.Join(productsDirectory, variantProductsPath)

		architectures := targetEnv.Architectures()
		createUniversalBinary := len(architectures) > 1
		var universalInputs []string

		for _, arch := range architectures {
			archEnv := variantEnv.PushFront(architectureLevel(arch))

			resolvedFiles := phaseCtx.ResolveBuildFiles(archEnv, frameworksPhaseFiles)

			va := VariantArch{Variant: variant, Architecture: arch}
			objectOutputs := resolveObjectOutputs(sourcesResolver, va)

			if createUniversalBinary {
				archDir := path.Join(variantIntermediatesDirectory, arch)
				archOutput := path.Join(archDir, variantIntermediatesName)

				inv := buildLinkInvocation(linkerExecutable, linkerArgs, objectOutputs, resolvedFiles, archOutput, workingDirectory)
				invocations = append(invocations, inv)
				universalInputs = append(universalInputs, archOutput)
			} else {
				inv := buildLinkInvocation(linkerExecutable, linkerArgs, objectOutputs, resolvedFiles, variantProductsOutput, workingDirectory)
				invocations = append(invocations, inv)
			}
		}

		if createUniversalBinary {
			invocations = append(invocations, buildLipoInvocation(lipo.Executable, universalInputs, variantProductsOutput, workingDirectory))
		}

		if variantEnv.Resolve("DEBUG_INFORMATION_FORMAT") == "dwarf-with-dsym" && machOType != "staticlib" && machOType != "mh_object" {
			dsymFile := path.Join(variantEnv.Resolve("DWARF_DSYM_FOLDER_PATH"), variantEnv.Resolve("DWARF_DSYM_FILE_NAME"))
			invocations = append(invocations, buildDsymutilInvocation(dsymutil.Executable, variantProductsOutput, dsymFile, workingDirectory))
		}
	}

	return invocations, nil
}

func resolveObjectOutputs(sourcesResolver SourcesResolver, va VariantArch) []string {
	if outputs, ok := sourcesResolver.ObjectOutputs(va); ok {
		return outputs
	}

	var objectOutputs []string
	for _, inv := range sourcesResolver.VariantArchitectureInvocations()[va] {
		for _, output := range inv.Outputs {
			if path.Ext(output) == ".o" {
				objectOutputs = append(objectOutputs, output)
			}
		}
	}
	return objectOutputs
}

func buildLinkInvocation(executable string, linkerArgs, objectOutputs, frameworkFiles []string, output, workingDirectory string) invocation.Invocation {
	args := append([]string{}, linkerArgs...)
	args = append(args, "-o", output)
	args = append(args, objectOutputs...)
	args = append(args, frameworkFiles...)

	inputs := append([]string{}, objectOutputs...)
	inputs = append(inputs, frameworkFiles...)

	return invocation.Invocation{
		Executable:       executable,
		Arguments:        args,
		WorkingDirectory: workingDirectory,
		Inputs:           inputs,
		Outputs:          []string{output},
		Description:      "Link " + output,
	}
}

func buildLipoInvocation(executable string, inputs []string, output, workingDirectory string) invocation.Invocation {
	args := []string{"-create", "-output", output}
	args = append(args, inputs...)

	return invocation.Invocation{
		Executable:       executable,
		Arguments:        args,
		WorkingDirectory: workingDirectory,
		Inputs:           append([]string{}, inputs...),
		Outputs:          []string{output},
		Description:      "Generate universal binary for " + output,
	}
}

func buildDsymutilInvocation(executable, input, output, workingDirectory string) invocation.Invocation {
	return invocation.Invocation{
		Executable:       executable,
		Arguments:        []string{"-o", output, input},
		WorkingDirectory: workingDirectory,
		Inputs:           []string{input},
		Outputs:          []string{output},
		Description:      "Generate dSYM file for " + output,
	}
}

func variantLevel(variant string) settings.Layer {
	return settings.Layer{
		Name: "variant",
		Values: map[string]string{
			"CURRENT_VARIANT": variant,
		},
	}
}

func architectureLevel(arch string) settings.Layer {
	return settings.Layer{
		Name: "architecture",
		Values: map[string]string{
			"CURRENT_ARCH": arch,
		},
	}
}
