package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColoringInvariants(t *testing.T) {
	for _, n := range []int{1, 2, 3, 8, 16} {
		var (
			m  = NewUnitSquareMesh(n)
			cm = NewMeshColorMap(m)
		)
		assert.NoError(t, ValidateColoring(m, cm), "n = %d", n)
		// Partition: member counts sum to the element count
		total := 0
		for c := 0; c < cm.ColorCount(); c++ {
			assert.Equal(t, cm.MemberCount(c), len(cm.ColorRegions(c)))
			assert.Equal(t, cm.MemberCount(c), len(cm.ColorIDs(c)))
			total += cm.MemberCount(c)
		}
		assert.Equal(t, m.RegionCount(), total)
	}
}

func TestColoringSingleElement(t *testing.T) {
	m := &Mesh{
		Points:  []Point{{0, 0}, {1, 0}, {0, 1}},
		Regions: []Region{{0, 1, 2}},
	}
	m.MarkBoundaryPoints()
	cm := NewMeshColorMap(m)
	assert.Equal(t, 1, cm.ColorCount())
	assert.Equal(t, 1, cm.MemberCount(0))
	assert.Equal(t, Region{0, 1, 2}, cm.ColorRegions(0)[0])
	assert.Equal(t, 0, cm.ColorIDs(0)[0])
}

// Any two elements sharing the same cell diagonal must differ in color; a fan
// of triangles around one point must use as many colors as triangles.
func TestColoringFan(t *testing.T) {
	// 4 triangles all sharing point 0
	m := &Mesh{
		Points: []Point{
			{0, 0}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0},
		},
		Regions: []Region{
			{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 5},
		},
	}
	m.MarkBoundaryPoints()
	cm := NewMeshColorMap(m)
	assert.NoError(t, ValidateColoring(m, cm))
	assert.Equal(t, 4, cm.ColorCount())
	for c := 0; c < 4; c++ {
		assert.Equal(t, 1, cm.MemberCount(c))
	}
}

// The greedy assignment is deterministic for a given mesh: rebuilt color maps
// put the same elements in the same colors.
func TestColoringDeterministic(t *testing.T) {
	var (
		m   = NewUnitSquareMesh(8)
		cm1 = NewMeshColorMap(m)
		cm2 = NewMeshColorMap(m)
	)
	assert.Equal(t, cm1.ColorCount(), cm2.ColorCount())
	for c := 0; c < cm1.ColorCount(); c++ {
		// Member order within a color is not specified (parallel scatter);
		// compare as sets of element IDs
		set1 := make(map[int]bool)
		for _, id := range cm1.ColorIDs(c) {
			set1[id] = true
		}
		assert.Equal(t, cm1.MemberCount(c), cm2.MemberCount(c))
		for _, id := range cm2.ColorIDs(c) {
			assert.True(t, set1[id])
		}
	}
}
