package mesh

import (
	"math/rand"

	"github.com/notargets/heatfem/types"
)

// NewRectangleMesh triangulates the rectangle [x0,x0+w] x [y0,y0+h] into a
// regular nx x ny grid of cells, two triangles per cell. The generated edge
// list covers the boundary only, grouped into four segments in the order
// bottom, right, top, left. Used for verification runs against the
// closed-form solution and for tests.
func NewRectangleMesh(nx, ny int, x0, y0, w, h float64) (m *Mesh) {
	var (
		npx, npy = nx + 1, ny + 1
		dx, dy   = w / float64(nx), h / float64(ny)
	)
	m = &Mesh{
		Points:  make([]Point, npx*npy),
		Regions: make([]Region, 0, 2*nx*ny),
	}
	pid := func(i, j int) types.PointID { return types.PointID(j*npx + i) }
	for j := 0; j < npy; j++ {
		for i := 0; i < npx; i++ {
			m.Points[pid(i, j)] = Point{X: x0 + float64(i)*dx, Y: y0 + float64(j)*dy}
		}
	}
	// Split each cell along the diagonal from its lower-left corner, both
	// triangles counterclockwise
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			p00, p10 := pid(i, j), pid(i+1, j)
			p01, p11 := pid(i, j+1), pid(i+1, j+1)
			m.Regions = append(m.Regions, Region{p00, p10, p11}, Region{p00, p11, p01})
		}
	}
	// Boundary edges, one segment per side
	m.SegmentIndex = []int{0}
	addSegment := func(edges []Edge) {
		for _, e := range edges {
			m.BoundaryEdges = append(m.BoundaryEdges, len(m.Edges))
			m.Edges = append(m.Edges, e)
		}
		m.SegmentIndex = append(m.SegmentIndex, len(m.BoundaryEdges))
	}
	var side []Edge
	for i := 0; i < nx; i++ { // bottom
		side = append(side, Edge{pid(i, 0), pid(i+1, 0)})
	}
	addSegment(side)
	side = side[:0]
	for j := 0; j < ny; j++ { // right
		side = append(side, Edge{pid(nx, j), pid(nx, j+1)})
	}
	addSegment(side)
	side = side[:0]
	for i := nx; i > 0; i-- { // top
		side = append(side, Edge{pid(i, ny), pid(i-1, ny)})
	}
	addSegment(side)
	side = side[:0]
	for j := ny; j > 0; j-- { // left
		side = append(side, Edge{pid(0, j), pid(0, j-1)})
	}
	addSegment(side)
	m.MarkBoundaryPoints()
	return
}

// NewUnitSquareMesh triangulates the unit square into an n x n grid.
func NewUnitSquareMesh(n int) *Mesh {
	return NewRectangleMesh(n, n, 0, 0, 1, 1)
}

// JitterInteriorPoints perturbs every interior point by a uniform random
// offset in [-amplitude, amplitude] per coordinate. Part of mesh loading, for
// exercising the solver on irregular geometry; the mesh is immutable once
// loading completes. The generator is passed in explicitly so runs are
// reproducible from a seed.
func (m *Mesh) JitterInteriorPoints(rnd *rand.Rand, amplitude float64) {
	if len(m.IsBoundaryPoint) != m.PointCount() {
		m.MarkBoundaryPoints()
	}
	for p := range m.Points {
		if m.IsBoundaryPoint[p] {
			continue
		}
		m.Points[p].X += amplitude * (2*rnd.Float64() - 1)
		m.Points[p].Y += amplitude * (2*rnd.Float64() - 1)
	}
}
