package Heat2D

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/heatfem/mesh"
)

func TestSolutionWriter(t *testing.T) {
	var (
		m     = mesh.NewUnitSquareMesh(2)
		fname = filepath.Join(t.TempDir(), "solution.json")
	)
	sw, err := NewSolutionWriter(fname, m)
	assert.NoError(t, err)
	slice1 := make([]float64, m.PointCount())
	slice2 := make([]float64, m.PointCount())
	for p := range slice1 {
		slice1[p] = float64(p)
		slice2[p] = 0.5 * float64(p)
	}
	sw.AddSlice(slice1)
	sw.AddSlice(slice2)
	assert.NoError(t, sw.Close())

	data, err := os.ReadFile(fname)
	assert.NoError(t, err)
	var doc struct {
		Points [][2]float64 `json:"points"`
		Slices [][]float64  `json:"slices"`
	}
	assert.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, m.PointCount(), len(doc.Points))
	assert.Equal(t, 2, len(doc.Slices))
	assert.Equal(t, slice1, doc.Slices[0])
	assert.Equal(t, slice2, doc.Slices[1])

	assert.Panics(t, func() {
		sw2, _ := NewSolutionWriter(filepath.Join(t.TempDir(), "x.json"), m)
		sw2.AddSlice(make([]float64, 1))
	})
}
