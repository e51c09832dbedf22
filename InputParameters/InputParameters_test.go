package InputParameters

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/heatfem/types"
)

func TestParseHeatParameters(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Case
K: 1.
Dt: 2.e-5
NSteps: 500
Strategy: atomic # Can be colored, atomic or serial
GridDim: 16
Terms:
  - Coef: 1.
    Nx: 1
    Ny: 1
  - Coef: 0.25
    Nx: 3
    Ny: 2
`)
	var input HeatParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, input.Dt, 2.e-5)
	assert.Equal(t, input.NSteps, 500)
	assert.Equal(t, input.ScatterFlag(), types.Scatter_Atomic)
	// Second term overrides the defaulted single (1,1) mode
	assert.Equal(t, len(input.Terms), 2)
	assert.Equal(t, input.Terms[1], SolutionTerm{Coef: 0.25, Nx: 3, Ny: 2})
	input.Print()
	// Defaults survive an empty document
	var defaulted HeatParameters
	if err = defaulted.Parse([]byte("Title: Defaults\n")); err != nil {
		panic(err)
	}
	assert.Equal(t, defaulted.Strategy, "colored")
	assert.Equal(t, defaulted.GridDim, 32)
}

func TestParseRejectsBadStrategy(t *testing.T) {
	var input HeatParameters
	err := input.Parse([]byte("Strategy: lockfree\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
}
