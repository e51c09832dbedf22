package scatter

import (
	"github.com/notargets/heatfem/mesh"
)

// SerialScatterAdd dispatches all elements one at a time on the calling
// goroutine. Correctness follows from the absence of concurrency; useful as a
// reference for the parallel strategies and for debugging.
type SerialScatterAdd struct {
	Mesh *mesh.Mesh
}

func NewSerialScatterAdd(m *mesh.Mesh) (sp *SerialScatterAdd) {
	sp = &SerialScatterAdd{Mesh: m}
	return
}

func (sp *SerialScatterAdd) DistributeWork(f PerElementFunc) {
	for k, r := range sp.Mesh.Regions {
		f(k, r)
	}
}

func (sp *SerialScatterAdd) Contribute(dest *float64, contribution float64) {
	*dest += contribution
}
