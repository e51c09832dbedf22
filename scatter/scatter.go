/*
Package scatter abstracts the "scatter-add" hazard of finite element assembly:
many elements accumulate contributions into shared per-point storage, and
naive parallel accumulation races. A Pattern bundles a work dispatch
discipline with a matching contribution operation so that one set of
per-element equations runs correctly under coloring, atomics, or serial
execution. The three implementations are interchangeable at the call site;
the difference is purely a parallelism trade-off:

  - ColoredScatterAdd: color classes dispatched phase by phase with a full
    barrier between phases; plain adds, since no two same-colored elements
    touch the same point.
  - AtomicScatterAdd: one unordered parallel pass over all elements; adds are
    atomic, since any two elements may run concurrently.
  - SerialScatterAdd: one goroutine, plain adds, no hazard.

Kernels must route every write to shared point storage through Contribute and
must not retain the destination pointer past the call.
*/
package scatter

import (
	"fmt"

	"github.com/notargets/heatfem/mesh"
	"github.com/notargets/heatfem/types"
)

// PerElementFunc is the unit of work dispatched by a Pattern: it is invoked
// exactly once per mesh element. elemID is the element's original mesh ID.
// Implementations call it from multiple goroutines; it must only write to
// shared storage via the Pattern's Contribute.
type PerElementFunc func(elemID int, e mesh.Region)

// Pattern is the scatter-add strategy interface.
type Pattern interface {
	// DistributeWork invokes f once for every element in the mesh, under a
	// dispatch discipline that makes Contribute safe. It returns only after
	// all per-element work is complete and visible (full barrier).
	DistributeWork(f PerElementFunc)
	// Contribute adds contribution into a shared point-indexed slot, safely
	// under the dispatch discipline of this Pattern.
	Contribute(dest *float64, contribution float64)
}

// NewPattern constructs the Pattern selected by flag. The coloring is only
// required for Scatter_Colored and may be nil otherwise. parallelDegree <= 0
// selects one worker per CPU.
func NewPattern(flag types.ScatterFlag, m *mesh.Mesh, cm *mesh.MeshColorMap,
	parallelDegree int) (sp Pattern) {
	switch flag {
	case types.Scatter_Colored:
		if cm == nil {
			cm = mesh.NewMeshColorMap(m)
		}
		sp = NewColoredScatterAdd(cm, parallelDegree)
	case types.Scatter_Atomic:
		sp = NewAtomicScatterAdd(m, parallelDegree)
	case types.Scatter_Serial:
		sp = NewSerialScatterAdd(m)
	default:
		panic(fmt.Errorf("unknown scatter strategy: %v", flag))
	}
	return
}
