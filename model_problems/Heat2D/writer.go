package Heat2D

import (
	"bufio"
	"fmt"
	"os"

	"github.com/notargets/heatfem/mesh"
)

// SolutionWriter appends per-point solution slices to a persisted sequence:
//
//	{"points": [[x, y], ...],
//	"slices":[
//	[v0, v1, ...],
//	...]}
//
// The point coordinate list is written once at construction; every AddSlice
// appends one value per point. Close writes the end cap; the file is not a
// valid document until then.
type SolutionWriter struct {
	f          *os.File
	w          *bufio.Writer
	mesh       *mesh.Mesh
	sliceCount int
}

func NewSolutionWriter(fname string, m *mesh.Mesh) (sw *SolutionWriter, err error) {
	sw = &SolutionWriter{mesh: m}
	if sw.f, err = os.Create(fname); err != nil {
		return nil, err
	}
	sw.w = bufio.NewWriter(sw.f)
	fmt.Fprintf(sw.w, "{\"points\": [")
	for p, pt := range m.Points {
		if p > 0 {
			fmt.Fprintf(sw.w, ", ")
		}
		fmt.Fprintf(sw.w, "[%g, %g]", pt.X, pt.Y)
	}
	fmt.Fprintf(sw.w, "],\n\"slices\":[")
	return
}

// AddSlice appends one value per point to the slice sequence.
func (sw *SolutionWriter) AddSlice(weights []float64) {
	if len(weights) != sw.mesh.PointCount() {
		panic(fmt.Errorf("slice has %d values, mesh has %d points",
			len(weights), sw.mesh.PointCount()))
	}
	if sw.sliceCount > 0 {
		fmt.Fprintf(sw.w, ",")
	}
	sw.sliceCount++
	fmt.Fprintf(sw.w, "\n[")
	for p, v := range weights {
		if p > 0 {
			fmt.Fprintf(sw.w, ", ")
		}
		fmt.Fprintf(sw.w, "%g", v)
	}
	fmt.Fprintf(sw.w, "]")
}

func (sw *SolutionWriter) Close() (err error) {
	fmt.Fprintf(sw.w, "]}")
	if err = sw.w.Flush(); err != nil {
		sw.f.Close()
		return
	}
	return sw.f.Close()
}
