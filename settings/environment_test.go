package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSimple(t *testing.T) {
	env := NewEnvironment(map[string]string{
		"EXECUTABLE_NAME": "App",
	})
	assert.Equal(t, "App", env.Resolve("EXECUTABLE_NAME"))
}

func TestResolveInterpolation(t *testing.T) {
	env := NewEnvironment(map[string]string{
		"BUILT_PRODUCTS_DIR": "/build/products",
		"EXECUTABLE_PATH":    "App.app/App",
		"FULL_PATH":          "${BUILT_PRODUCTS_DIR}/${EXECUTABLE_PATH}",
	})
	assert.Equal(t, "/build/products/App.app/App", env.Resolve("FULL_PATH"))
}

func TestPushFrontShadowsWithoutMutating(t *testing.T) {
	base := NewEnvironment(map[string]string{"VARIANT": "normal"})
	pushed := base.PushFront(Layer{Name: "variant", Values: map[string]string{"VARIANT": "profile"}})

	assert.Equal(t, "normal", base.Resolve("VARIANT"), "base must be unaffected by PushFront")
	assert.Equal(t, "profile", pushed.Resolve("VARIANT"))
}

func TestResolveMissingVariableIsEmpty(t *testing.T) {
	env := NewEnvironment(map[string]string{"A": "${B}"})
	assert.Equal(t, "", env.Resolve("A"))
}

func TestResolveErrCycleIsError(t *testing.T) {
	env := NewEnvironment(map[string]string{
		"A": "${B}",
		"B": "${A}",
	})
	_, err := env.ResolveErr("A")
	require.Error(t, err)
}

func TestExpandArbitraryString(t *testing.T) {
	env := NewEnvironment(map[string]string{
		"SDKROOT": "/sdk",
	})
	assert.Equal(t, "/sdk/Frameworks/Foo.framework", env.Expand("${SDKROOT}/Frameworks/Foo.framework"))
}
