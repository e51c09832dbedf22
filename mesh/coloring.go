package mesh

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/james-bowman/sparse"

	"github.com/notargets/heatfem/utils"
)

// MeshColorMap partitions the mesh elements into color classes so that no two
// elements of the same color share a point. All elements of one color can
// therefore accumulate into shared point storage concurrently with plain adds.
// The coloring is computed once per mesh and is immutable afterwards; elements
// are copied into color-contiguous storage along with their original IDs, so a
// color's members are a contiguous subslice.
type MeshColorMap struct {
	colorIndex []int // per-color start offsets, len nColors+1
	members    []Region
	memberIDs  []int // original element IDs, parallel to members
	nColors    int
}

// NewMeshColorMap colors the element side of the element-point bipartite
// incidence graph (a distance-2 coloring: two elements conflict iff they share
// a point) and regroups the elements color-contiguously via a counting sort.
// The coloring is greedy, not minimal; it only guarantees conflict freedom.
// Construction always succeeds on a validated mesh.
func NewMeshColorMap(m *Mesh) (cm *MeshColorMap) {
	var (
		K               = m.RegionCount()
		colors, nColors = colorRegions(m)
	)
	cm = &MeshColorMap{
		colorIndex: make([]int, nColors+1),
		members:    make([]Region, K),
		memberIDs:  make([]int, K),
		nColors:    nColors,
	}
	// Counting sort into color-contiguous storage:
	// (1) count members per color
	counts := make([]int32, nColors)
	for _, c := range colors {
		counts[c]++
	}
	// (2) prefix-sum into per-color start offsets
	for c := 0; c < nColors; c++ {
		cm.colorIndex[c+1] = cm.colorIndex[c] + int(counts[c])
	}
	// (3) scatter each element into its color, reserving slots with a
	// fetch-and-increment so the pass runs in parallel
	var (
		slots = make([]int32, nColors)
		pm    = utils.NewPartitionMap(runtime.NumCPU(), K)
		wg    = sync.WaitGroup{}
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				c := colors[k]
				place := cm.colorIndex[c] + int(atomic.AddInt32(&slots[c], 1)) - 1
				cm.members[place] = m.Regions[k]
				cm.memberIDs[place] = k
			}
		}(np)
	}
	wg.Wait()
	return
}

// colorRegions assigns one color per element such that elements sharing a
// point get different colors. The conflict graph is built the same way the
// face connectivity matrices are: incidence DOK -> CSR, then
// conflict = EToV * EToVt, whose off-diagonal nonzeros are exactly the pairs
// of elements with a common point. Colors are assigned greedily in element ID
// order, so the assignment is deterministic for a given mesh.
func colorRegions(m *Mesh) (colors []int, nColors int) {
	var (
		K  = m.RegionCount()
		Np = m.PointCount()
	)
	eToV := sparse.NewDOK(K, Np)
	for k, r := range m.Regions {
		for i := 0; i < 3; i++ {
			eToV.Set(k, int(r[i]), 1)
		}
	}
	eToVCSR := eToV.ToCSR()
	conflict := sparse.NewCSR(K, K, nil, nil, nil)
	conflict.Mul(eToVCSR, eToVCSR.T())
	adj := make([][]int, K)
	conflict.DoNonZero(func(i, j int, v float64) {
		if i != j {
			adj[i] = append(adj[i], j)
		}
	})
	colors = make([]int, K)
	for k := range colors {
		colors[k] = -1
	}
	mark := make([]int, 0, 16) // mark[c] == k means color c is taken near k
	for k := 0; k < K; k++ {
		for _, j := range adj[k] {
			if c := colors[j]; c >= 0 {
				for c >= len(mark) {
					mark = append(mark, -1)
				}
				mark[c] = k
			}
		}
		c := 0
		for c < len(mark) && mark[c] == k {
			c++
		}
		colors[k] = c
		if c+1 > nColors {
			nColors = c + 1
		}
	}
	return
}

// ColorCount returns the number of colors used.
func (cm *MeshColorMap) ColorCount() int {
	return cm.nColors
}

// MemberCount returns the number of elements in the given color.
func (cm *MeshColorMap) MemberCount(color int) int {
	return cm.colorIndex[color+1] - cm.colorIndex[color]
}

// ColorRegions returns the contiguous view of the elements in the given color.
func (cm *MeshColorMap) ColorRegions(color int) []Region {
	return cm.members[cm.colorIndex[color]:cm.colorIndex[color+1]]
}

// ColorIDs returns the original mesh element IDs of the given color's members,
// parallel to ColorRegions.
func (cm *MeshColorMap) ColorIDs(color int) []int {
	return cm.memberIDs[cm.colorIndex[color]:cm.colorIndex[color+1]]
}

// ValidateColoring independently re-derives the coloring invariants: within
// every color no two elements share a point, and every element received
// exactly one color. Not run on the hot path - tests and assertions only.
func ValidateColoring(m *Mesh, cm *MeshColorMap) (err error) {
	seen := make([]int, m.RegionCount())
	pointOwner := make([]int, m.PointCount())
	for color := 0; color < cm.ColorCount(); color++ {
		for p := range pointOwner {
			pointOwner[p] = -1
		}
		var (
			regions = cm.ColorRegions(color)
			ids     = cm.ColorIDs(color)
		)
		for i, r := range regions {
			id := ids[i]
			seen[id]++
			for _, p := range r {
				if other := pointOwner[p]; other >= 0 {
					return fmt.Errorf(
						"color %d: elements %d and %d share point %d",
						color, other, id, p)
				}
				pointOwner[p] = id
			}
		}
	}
	for id, n := range seen {
		if n != 1 {
			return fmt.Errorf("element %d received %d colors, want exactly 1", id, n)
		}
	}
	return nil
}
