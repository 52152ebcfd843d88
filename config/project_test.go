package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, contents string) string {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(full, []byte(contents), 0644))
	return full
}

func TestLoadParsesProject(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "fixture.yaml", `
action: build
configuration: Debug
objroot: /build
settings:
  MACH_O_TYPE: staticlib
  BUILT_PRODUCTS_DIR: /build/products
linkers:
  - identifier: com.apple.pbx.linkers.libtool
    domains: [default]
    executable: /usr/bin/libtool
targets:
  - name: Foo
    tempDir: /build/Foo.build
    variants: [normal]
    architectures: [x86_64]
    domains: [default]
    sources:
      objects:
        normal:
          x86_64: [/build/obj/a.o, /build/obj/b.o]
`)

	project, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "build", project.Action)
	assert.Equal(t, "/build", project.ObjRoot)
	require.Len(t, project.Targets, 1)
	assert.Equal(t, "Foo", project.Targets[0].Name)
	assert.Equal(t, []string{"/build/obj/a.o", "/build/obj/b.o"}, project.Targets[0].Sources.Objects["normal"]["x86_64"])
	require.Len(t, project.Linkers, 1)
	assert.Equal(t, "/usr/bin/libtool", project.Linkers[0].Executable)
}

func TestLoadExpandsSearchPathGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "toolchains", "a"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "toolchains", "b"), 0755))

	path := writeFixture(t, dir, "fixture.yaml", `
action: build
configuration: Debug
objroot: /build
searchPathGlobs:
  - "toolchains/*"
targets: []
`)

	project, err := Load(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "toolchains", "a"),
		filepath.Join(dir, "toolchains", "b"),
	}, project.SearchPaths)
}

func TestLoadExpandsFrameworksPhaseFileGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Frameworks"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Frameworks", "Foo.framework"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Frameworks", "Bar.framework"), []byte(""), 0644))

	path := writeFixture(t, dir, "fixture.yaml", `
action: build
configuration: Debug
objroot: /build
targets:
  - name: App
    tempDir: /build/App.build
    variants: [normal]
    architectures: [x86_64]
    frameworksPhaseFileGlobs:
      - "Frameworks/*.framework"
`)

	project, err := Load(path)
	require.NoError(t, err)
	require.Len(t, project.Targets, 1)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "Frameworks", "Foo.framework"),
		filepath.Join(dir, "Frameworks", "Bar.framework"),
	}, project.Targets[0].FrameworksPhaseFiles)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	require.Error(t, err)
}
