package targetgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependsOnAndDependents(t *testing.T) {
	g := New()
	g.AddDependency("B", "A")

	assert.Equal(t, []string{"A"}, g.DependsOn("B"))
	assert.Equal(t, []string{"B"}, g.Dependents("A"))
	assert.ElementsMatch(t, []string{"A", "B"}, g.Targets())
}

func TestDetectCycleNone(t *testing.T) {
	g := New()
	g.AddDependency("B", "A")
	g.AddDependency("C", "B")
	assert.Nil(t, g.DetectCycle())
}

func TestDetectCycleFound(t *testing.T) {
	g := New()
	g.AddDependency("A", "B")
	g.AddDependency("B", "C")
	g.AddDependency("C", "A")

	cycle := g.DetectCycle()
	assert.NotNil(t, cycle)
}

func TestTopoOrderRespectsDependencies(t *testing.T) {
	g := New()
	g.AddDependency("B", "A")
	g.AddDependency("C", "B")

	order, err := g.TopoOrder()
	assert.NoError(t, err)

	pos := make(map[string]int)
	for i, name := range order {
		pos[name] = i
	}
	assert.Less(t, pos["A"], pos["B"])
	assert.Less(t, pos["B"], pos["C"])
}

func TestTopoOrderErrorsOnCycle(t *testing.T) {
	g := New()
	g.AddDependency("A", "B")
	g.AddDependency("B", "A")

	_, err := g.TopoOrder()
	assert.Error(t, err)
}
