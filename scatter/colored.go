package scatter

import (
	"runtime"
	"sync"

	"github.com/notargets/heatfem/mesh"
	"github.com/notargets/heatfem/utils"
)

// ColoredScatterAdd dispatches one color class at a time. Within a class all
// elements run in unordered parallel fashion; a full synchronization barrier
// separates classes, so writes of one phase are visible before the next
// begins. Because same-colored elements never share a point, Contribute is a
// plain add.
type ColoredScatterAdd struct {
	Coloring       *mesh.MeshColorMap
	ParallelDegree int
}

func NewColoredScatterAdd(cm *mesh.MeshColorMap, parallelDegree int) (sp *ColoredScatterAdd) {
	if parallelDegree <= 0 {
		parallelDegree = runtime.NumCPU()
	}
	sp = &ColoredScatterAdd{
		Coloring:       cm,
		ParallelDegree: parallelDegree,
	}
	return
}

func (sp *ColoredScatterAdd) DistributeWork(f PerElementFunc) {
	for color := 0; color < sp.Coloring.ColorCount(); color++ {
		var (
			regions = sp.Coloring.ColorRegions(color)
			ids     = sp.Coloring.ColorIDs(color)
			pm      = utils.NewPartitionMap(sp.ParallelDegree, len(regions))
			wg      = sync.WaitGroup{}
		)
		for np := 0; np < pm.ParallelDegree; np++ {
			wg.Add(1)
			go func(np int) {
				defer wg.Done()
				kMin, kMax := pm.GetBucketRange(np)
				for i := kMin; i < kMax; i++ {
					f(ids[i], regions[i])
				}
			}(np)
		}
		wg.Wait() // barrier between color phases
	}
}

// Contribute is a plain add: within one color phase two concurrent elements
// can never target the same destination.
func (sp *ColoredScatterAdd) Contribute(dest *float64, contribution float64) {
	*dest += contribution
}
