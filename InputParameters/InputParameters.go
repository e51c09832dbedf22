package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/heatfem/types"
)

// SolutionTerm is one separable sine mode of the initial / reference solution.
type SolutionTerm struct {
	Coef float64 `yaml:"Coef"`
	Nx   int     `yaml:"Nx"`
	Ny   int     `yaml:"Ny"`
}

// Parameters obtained from the YAML input file
type HeatParameters struct {
	Title           string         `yaml:"Title"`
	K               float64        `yaml:"K"`  // Thermal diffusivity
	Dt              float64        `yaml:"Dt"` // Explicit Euler time step
	NSteps          int            `yaml:"NSteps"`
	PlotSteps       int            `yaml:"PlotSteps"` // Steps between solution slices, 0 disables
	Strategy        string         `yaml:"Strategy"`  // colored | atomic | serial
	GridFile        string         `yaml:"GridFile"`  // .grd mesh, empty generates a square grid
	OutputFile      string         `yaml:"OutputFile"`
	GridDim         int            `yaml:"GridDim"` // Cells per side of the generated grid
	OriginX         float64        `yaml:"OriginX"`
	OriginY         float64        `yaml:"OriginY"`
	Width           float64        `yaml:"Width"`
	Height          float64        `yaml:"Height"`
	JitterSeed      int64          `yaml:"JitterSeed"`
	JitterAmplitude float64        `yaml:"JitterAmplitude"`
	Terms           []SolutionTerm `yaml:"Terms"`
}

func (hp *HeatParameters) Parse(data []byte) (err error) {
	hp.setDefaults()
	if err = yaml.Unmarshal(data, hp); err != nil {
		return
	}
	return hp.validate()
}

func (hp *HeatParameters) setDefaults() {
	hp.K = 1
	hp.Dt = 1.e-5
	hp.NSteps = 1000
	hp.Strategy = "colored"
	hp.GridDim = 32
	hp.Width, hp.Height = 1, 1
	hp.Terms = []SolutionTerm{{Coef: 1, Nx: 1, Ny: 1}}
}

func (hp *HeatParameters) validate() (err error) {
	if _, ok := types.ScatterNameMap[hp.Strategy]; !ok {
		return fmt.Errorf("unknown scatter strategy: %s", hp.Strategy)
	}
	if hp.Dt <= 0 || hp.K <= 0 {
		return fmt.Errorf("Dt and K must be positive, have Dt = %v, K = %v", hp.Dt, hp.K)
	}
	if hp.GridFile == "" && hp.GridDim < 1 {
		return fmt.Errorf("generated grid needs GridDim >= 1, have %d", hp.GridDim)
	}
	if len(hp.Terms) == 0 {
		return fmt.Errorf("at least one solution term is required")
	}
	return
}

// ScatterFlag maps the Strategy field to its flag. Call after Parse.
func (hp *HeatParameters) ScatterFlag() types.ScatterFlag {
	return types.ScatterNameMap[hp.Strategy]
}

func (hp *HeatParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", hp.Title)
	fmt.Printf("%8.5f\t\t= K\n", hp.K)
	fmt.Printf("%10.3e\t\t= Dt\n", hp.Dt)
	fmt.Printf("[%d]\t\t\t= NSteps\n", hp.NSteps)
	fmt.Printf("[%s]\t\t= Strategy\n", hp.Strategy)
	if hp.GridFile != "" {
		fmt.Printf("[%s]\t\t= GridFile\n", hp.GridFile)
	} else {
		fmt.Printf("[%d x %d]\t\t= Generated grid\n", hp.GridDim, hp.GridDim)
	}
	for i, term := range hp.Terms {
		fmt.Printf("Terms[%d] = %+v\n", i, term)
	}
}
