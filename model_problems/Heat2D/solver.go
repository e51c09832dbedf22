package Heat2D

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/heatfem/mesh"
	"github.com/notargets/heatfem/scatter"
	"github.com/notargets/heatfem/utils"
)

/*
Solver advances the heat equation

	dU/dt - k div(grad U) = 0

over a triangulated 2-D domain with linear (P1) elements, a lumped mass
matrix and explicit Euler time stepping. All shared mutable state - the
current/previous point weight buffers and the inverse mass buffer - is owned
exclusively by the Solver; element kernels receive them as explicit slices
through the configured scatter Pattern, never through the receiver.

Construction runs the state machine exactly once:
 1. allocate zeroed buffers,
 2. assemble the lumped mass matrix through the Pattern and invert it in
    place after the scatter pass has fully completed,
 3. set initial conditions from the analytical reference at t = 0.

Each step then snapshots current into previous, scatter-adds every element's
stiffness action into current, clamps the boundary points to zero, and
advances the step counter.
*/
type Solver struct {
	Mesh     *mesh.Mesh
	Pattern  scatter.Pattern
	Boundary *ZeroBoundary

	// Parameters
	Dt, K       float64
	NTotalSteps int

	// Point weight buffers. Prev is a frozen snapshot of Current taken at the
	// top of each step; element kernels read only Prev and write only Current.
	CurrentPointWeights []float64
	PrevPointWeights    []float64
	// 1/diagonal of the lumped mass matrix, fixed after construction
	PointMassInv []float64

	pointParts *utils.PartitionMap
}

func NewSolver(m *mesh.Mesh, sp scatter.Pattern, zb *ZeroBoundary,
	timestep, k float64) (s *Solver) {
	s = &Solver{
		Mesh:                m,
		Pattern:             sp,
		Boundary:            zb,
		Dt:                  timestep,
		K:                   k,
		CurrentPointWeights: make([]float64, m.PointCount()),
		PrevPointWeights:    make([]float64, m.PointCount()),
		PointMassInv:        make([]float64, m.PointCount()),
		pointParts:          utils.NewPartitionMap(runtime.NumCPU(), m.PointCount()),
	}
	s.setupMassMatrix()
	s.setupInitialConditions()
	return
}

// Time is the current simulated time, step count times Dt.
func (s *Solver) Time() float64 {
	return s.Dt * float64(s.NTotalSteps)
}

// SimulateSteps runs the next n steps, modifying CurrentPointWeights in place.
func (s *Solver) SimulateSteps(n int) {
	for i := 0; i < n; i++ {
		s.prepareNextStep()
		s.computeStep()
		s.fixBoundary()
		s.NTotalSteps++
	}
}

// Run advances nSteps with periodic progress reporting.
func (s *Solver) Run(nSteps, logFrequency int) {
	fmt.Printf("Dt = %10.3e, NSteps = %d, k = %8.4f, NPoints = %d, NElements = %d\n",
		s.Dt, nSteps, s.K, s.Mesh.PointCount(), s.Mesh.RegionCount())
	for step := 0; step < nSteps; step++ {
		s.SimulateSteps(1)
		if logFrequency > 0 && (step+1)%logFrequency == 0 {
			fmt.Printf("Time = %10.6f, step %6d, MSE = %12.6e\n",
				s.Time(), s.NTotalSteps, s.MeasureError())
		}
	}
}

// MeasureError returns the mean squared pointwise difference between the
// current weights and the analytical reference at the current time, over
// interior points only. Boundary points are clamped exactly and would bias
// the metric toward zero.
func (s *Solver) MeasureError() (mse float64) {
	var (
		m    = s.Mesh
		t    = s.Time()
		pm   = s.pointParts
		sums = make([]float64, pm.ParallelDegree)
		wg   = sync.WaitGroup{}
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			pMin, pMax := pm.GetBucketRange(np)
			for p := pMin; p < pMax; p++ {
				if m.IsBoundaryPoint[p] {
					continue
				}
				d := s.CurrentPointWeights[p] -
					s.Boundary.At(m.Points[p].X, m.Points[p].Y, t)
				sums[np] += d * d
			}
		}(np)
	}
	wg.Wait()
	mse = floats.Sum(sums) / float64(m.PointCount()-m.NBoundaryPoints)
	return
}

// setupMassMatrix assembles the diagonal lumped mass matrix through the
// scatter Pattern, then inverts every entry in place. DistributeWork returns
// only after a full barrier, so the inversion never observes a partial sum.
func (s *Solver) setupMassMatrix() {
	mass := s.PointMassInv // accumulated in place, inverted below
	s.Pattern.DistributeWork(massKernel(s.Mesh, s.Pattern, mass))
	s.forEachPoint(func(p int) {
		if mass[p] <= 0 {
			panic(fmt.Errorf("point %d has non-positive lumped mass %v", p, mass[p]))
		}
		mass[p] = 1 / mass[p]
	})
}

// setupInitialConditions assigns the analytical reference at t = 0 as the
// initial current weights. Prev may be left as garbage; the first
// prepareNextStep overwrites it.
func (s *Solver) setupInitialConditions() {
	var (
		m  = s.Mesh
		zb = s.Boundary
	)
	s.forEachPoint(func(p int) {
		s.CurrentPointWeights[p] = zb.At(m.Points[p].X, m.Points[p].Y, 0)
	})
}

// prepareNextStep freezes the completed step as the read-only snapshot for
// this step's element math. Current keeps the prior values in place - that is
// the identity term of the update - and only receives increments. The copy is
// synchronous, so it is fully visible before any element work is dispatched.
func (s *Solver) prepareNextStep() {
	copy(s.PrevPointWeights, s.CurrentPointWeights)
}

func (s *Solver) computeStep() {
	s.Pattern.DistributeWork(elementKernel(s.Mesh, s.Pattern,
		s.CurrentPointWeights, s.PrevPointWeights, s.PointMassInv, s.K, s.Dt))
}

// fixBoundary clamps every boundary point to the Dirichlet value of zero.
// The element pass is allowed to write whatever it likes at boundary points;
// overwriting afterwards is idempotent and keeps the element kernel free of
// boundary tests.
func (s *Solver) fixBoundary() {
	m := s.Mesh
	s.forEachPoint(func(p int) {
		if m.IsBoundaryPoint[p] {
			s.CurrentPointWeights[p] = 0
		}
	})
}

// forEachPoint runs f over every point ID in a fork-join parallel loop.
func (s *Solver) forEachPoint(f func(p int)) {
	var (
		pm = s.pointParts
		wg = sync.WaitGroup{}
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			pMin, pMax := pm.GetBucketRange(np)
			for p := pMin; p < pMax; p++ {
				f(p)
			}
		}(np)
	}
	wg.Wait()
}

// Per-element kernels are free functions returning value closures over
// explicit buffers: captures stay visible at the construction site and no
// receiver pointer leaks into parallel work.

// massKernel scatter-adds each element's lumped mass contribution, one third
// of its area per vertex, into the per-point mass accumulator.
func massKernel(m *mesh.Mesh, pattern scatter.Pattern,
	mass []float64) scatter.PerElementFunc {
	return func(elemID int, e mesh.Region) {
		third := m.Area(e) / 3
		for i := 0; i < 3; i++ {
			pattern.Contribute(&mass[e[i]], third)
		}
	}
}

// elementKernel computes the discretized diffusion operator's local
// contribution and scatter-adds -k dt invMass[p] S_p into current at each of
// the element's vertices, reading only prev and the element geometry.
//
// The P1 basis gradients are constant on the element. With det the Jacobian
// determinant of the reference-triangle map (twice the signed area, built
// from the two edge vectors off vertex 0):
//
//	grad phi_0 = (y1-y2, x2-x1)/det
//	grad phi_1 = (y2-y0, x0-x2)/det
//	grad phi_2 = (y0-y1, x1-x0)/det
//
// and S_j = |A| (grad phi_j . grad u), u interpolated from prev. The products
// scale as 1/det^2 against an area weight |det|/2, so the result is
// independent of vertex orientation and consistent with the unsigned-area
// mass assembly.
func elementKernel(m *mesh.Mesh, pattern scatter.Pattern,
	current, prev, invMass []float64, k, dt float64) scatter.PerElementFunc {
	return func(elemID int, e mesh.Region) {
		var (
			p0, p1, p2 = m.Points[e[0]], m.Points[e[1]], m.Points[e[2]]
			det        = (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
			area       = 0.5 * math.Abs(det)
			u0, u1, u2 = prev[e[0]], prev[e[1]], prev[e[2]]
			gradX      = [3]float64{
				(p1.Y - p2.Y) / det, (p2.Y - p0.Y) / det, (p0.Y - p1.Y) / det}
			gradY = [3]float64{
				(p2.X - p1.X) / det, (p0.X - p2.X) / det, (p1.X - p0.X) / det}
			ux = u0*gradX[0] + u1*gradX[1] + u2*gradX[2]
			uy = u0*gradY[0] + u1*gradY[1] + u2*gradY[2]
		)
		for j := 0; j < 3; j++ {
			var (
				sj = area * (gradX[j]*ux + gradY[j]*uy)
				p  = e[j]
			)
			pattern.Contribute(&current[p], -k*dt*invMass[p]*sj)
		}
	}
}
