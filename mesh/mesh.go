package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/heatfem/types"
)

// Point is a 2-D real space coordinate.
type Point struct {
	X, Y float64
}

// Edge is an ordered pair of point IDs. Edges exist to define the boundary
// segments; interior stiffness computation works from Regions alone.
type Edge [2]types.PointID

// Region is a triangular element, stored as the IDs of its three vertices.
// Geometry is fixed at load time and never mutated afterwards.
type Region [3]types.PointID

// Mesh is the geometric and topological description of a triangulated 2-D
// domain: points, edges, triangular regions, plus the boundary structure.
// Boundary edges are grouped into segments CSR-style: segment s owns
// BoundaryEdges[SegmentIndex[s]:SegmentIndex[s+1]]. A Mesh is immutable once
// loaded and may be read-shared across goroutines.
type Mesh struct {
	Points  []Point
	Edges   []Edge
	Regions []Region

	BoundaryEdges []int // edge IDs composing the boundary, segment grouped
	SegmentIndex  []int // len SegmentCount()+1, offsets into BoundaryEdges

	IsBoundaryPoint []bool // per point, true iff endpoint of a boundary edge
	NBoundaryPoints int
}

func (m *Mesh) PointCount() int        { return len(m.Points) }
func (m *Mesh) EdgeCount() int         { return len(m.Edges) }
func (m *Mesh) RegionCount() int       { return len(m.Regions) }
func (m *Mesh) BoundaryEdgeCount() int { return len(m.BoundaryEdges) }

func (m *Mesh) SegmentCount() int {
	if len(m.SegmentIndex) == 0 {
		return 0
	}
	return len(m.SegmentIndex) - 1
}

// SegmentEdges returns the edge IDs composing boundary segment s, in order.
func (m *Mesh) SegmentEdges(s int) []int {
	return m.BoundaryEdges[m.SegmentIndex[s]:m.SegmentIndex[s+1]]
}

// MarkBoundaryPoints derives the per-point boundary indicator and the boundary
// point count from the boundary edge list. Called once at load time.
func (m *Mesh) MarkBoundaryPoints() {
	m.IsBoundaryPoint = make([]bool, m.PointCount())
	m.NBoundaryPoints = 0
	for _, eid := range m.BoundaryEdges {
		for _, p := range m.Edges[eid] {
			if !m.IsBoundaryPoint[p] {
				m.IsBoundaryPoint[p] = true
				m.NBoundaryPoints++
			}
		}
	}
}

// SignedAreaX2 returns twice the signed area of the region: the Jacobian
// determinant of the map from the reference triangle, using the two edge
// vectors from vertex 0. Positive for counterclockwise vertex ordering.
func (m *Mesh) SignedAreaX2(r Region) (det float64) {
	var (
		p0, p1, p2 = m.Points[r[0]], m.Points[r[1]], m.Points[r[2]]
	)
	det = (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
	return
}

// Area returns the unsigned area of the region.
func (m *Mesh) Area(r Region) float64 {
	return 0.5 * math.Abs(m.SignedAreaX2(r))
}

// Validate checks structural soundness: every referenced ID is in range and no
// region is degenerate (zero or near-zero area). Loaders treat a failure here
// as fatal; the solver assumes a validated mesh.
func (m *Mesh) Validate() (err error) {
	var (
		np = types.PointID(m.PointCount())
		ne = m.EdgeCount()
	)
	for i, e := range m.Edges {
		for _, p := range e {
			if p < 0 || p >= np {
				return fmt.Errorf("edge %d references point %d, outside [0,%d)", i, p, np)
			}
		}
	}
	for i, r := range m.Regions {
		for _, p := range r {
			if p < 0 || p >= np {
				return fmt.Errorf("region %d references point %d, outside [0,%d)", i, p, np)
			}
		}
		if m.Area(r) < 1.e-14 {
			return fmt.Errorf("region %d is degenerate: area = %v", i, m.Area(r))
		}
	}
	for _, eid := range m.BoundaryEdges {
		if eid < 0 || eid >= ne {
			return fmt.Errorf("boundary edge ID %d outside [0,%d)", eid, ne)
		}
	}
	if len(m.IsBoundaryPoint) != m.PointCount() {
		return fmt.Errorf("boundary point indicator not derived, call MarkBoundaryPoints")
	}
	return nil
}
