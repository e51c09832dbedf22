package readfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/heatfem/mesh"
	"github.com/notargets/heatfem/types"
)

var squareGrd = `npnt: 4 nseg: 4 ntri: 2
0: 0.0 0.0
1: 1.0 0.0
2: 1.0 1.0
3: 0.0 1.0
0: 0 1
1: 1 2
2: 2 3
3: 3 0
0: 0 1 2
1: 0 2 3
nebd: 2
idnum: 0
number: 2
0: 0
1: 1
idnum: 1
number: 2
0: 2
1: 3
`

func writeGrd(t *testing.T, contents string) (fname string) {
	fname = filepath.Join(t.TempDir(), "mesh.grd")
	assert.NoError(t, os.WriteFile(fname, []byte(contents), 0644))
	return
}

func TestReadGrd2D(t *testing.T) {
	m := ReadGrd2D(writeGrd(t, squareGrd), false)
	assert.Equal(t, 4, m.PointCount())
	assert.Equal(t, 4, m.EdgeCount())
	assert.Equal(t, 2, m.RegionCount())
	assert.Equal(t, mesh.Point{X: 1, Y: 1}, m.Points[2])
	assert.Equal(t, mesh.Region{0, 2, 3}, m.Regions[1])
	// Two boundary segments of two edges each
	assert.Equal(t, 2, m.SegmentCount())
	assert.Equal(t, []int{2, 3}, m.SegmentEdges(1))
	// Every point of the square sits on an edge of a boundary segment
	assert.Equal(t, 4, m.NBoundaryPoints)
	for p := 0; p < 4; p++ {
		assert.True(t, m.IsBoundaryPoint[p])
	}
	assert.Equal(t, mesh.Edge{types.PointID(3), types.PointID(0)}, m.Edges[3])
}

func TestReadGrdOutOfOrderIDs(t *testing.T) {
	var reordered = `npnt: 4 nseg: 4 ntri: 2
0: 0.0 0.0
2: 1.0 0.0
1: 1.0 1.0
3: 0.0 1.0
`
	assert.Panics(t, func() {
		ReadGrd2D(writeGrd(t, reordered), false)
	})
}

func TestReadGrdTruncated(t *testing.T) {
	var truncated = `npnt: 4 nseg: 4 ntri: 2
0: 0.0 0.0
1: 1.0 0.0
`
	assert.Panics(t, func() {
		ReadGrd2D(writeGrd(t, truncated), false)
	})
}
