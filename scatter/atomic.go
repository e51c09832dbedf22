package scatter

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/notargets/heatfem/mesh"
	"github.com/notargets/heatfem/utils"
)

// AtomicScatterAdd dispatches all elements in a single unordered parallel
// pass. Any two elements, in particular any pair sharing a point, may execute
// concurrently, so Contribute must be an atomic add.
type AtomicScatterAdd struct {
	Mesh           *mesh.Mesh
	ParallelDegree int
}

func NewAtomicScatterAdd(m *mesh.Mesh, parallelDegree int) (sp *AtomicScatterAdd) {
	if parallelDegree <= 0 {
		parallelDegree = runtime.NumCPU()
	}
	sp = &AtomicScatterAdd{
		Mesh:           m,
		ParallelDegree: parallelDegree,
	}
	return
}

func (sp *AtomicScatterAdd) DistributeWork(f PerElementFunc) {
	var (
		m  = sp.Mesh
		pm = utils.NewPartitionMap(sp.ParallelDegree, m.RegionCount())
		wg = sync.WaitGroup{}
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				f(k, m.Regions[k])
			}
		}(np)
	}
	wg.Wait()
}

// Contribute performs an atomic float64 add via a CAS loop on the bit
// pattern. Go exposes no hardware float add, so this is the portable
// equivalent; the loop terminates because a failed CAS means another writer
// made progress.
func (sp *AtomicScatterAdd) Contribute(dest *float64, contribution float64) {
	addr := (*uint64)(unsafe.Pointer(dest))
	for {
		old := atomic.LoadUint64(addr)
		upd := math.Float64bits(math.Float64frombits(old) + contribution)
		if atomic.CompareAndSwapUint64(addr, old, upd) {
			return
		}
	}
}
