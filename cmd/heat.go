/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math/rand"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/heatfem/InputParameters"
	"github.com/notargets/heatfem/mesh"
	"github.com/notargets/heatfem/model_problems/Heat2D"
	"github.com/notargets/heatfem/readfiles"
	"github.com/notargets/heatfem/scatter"
	"github.com/notargets/heatfem/types"
)

type ModelHeat struct {
	ICFile    string
	GridFile  string
	Strategy  string
	Graph     bool
	PlotSteps int
	Delay     time.Duration
	Profile   bool
}

// HeatCmd represents the heat command
var HeatCmd = &cobra.Command{
	Use:   "heat",
	Short: "Two dimensional heat equation solver on a triangle mesh",
	Long: `
Advances the heat equation with linear finite elements, a lumped mass matrix
and explicit Euler stepping, measuring solution error against the analytical
reference on a square domain with zero boundary values.

heatfem heat `,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("heat called")
		mh := &ModelHeat{}
		if mh.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		if mh.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			panic(err)
		}
		mh.Strategy, _ = cmd.Flags().GetString("strategy")
		mh.Graph, _ = cmd.Flags().GetBool("graph")
		ps, _ := cmd.Flags().GetInt("plotSteps")
		mh.PlotSteps = ps
		dr, _ := cmd.Flags().GetInt("delay")
		mh.Delay = time.Duration(time.Duration(dr) * time.Millisecond)
		mh.Profile, _ = cmd.Flags().GetBool("profile")
		hp := processHeatInput(mh)
		RunHeat(mh, hp)
	},
}

func init() {
	rootCmd.AddCommand(HeatCmd)
	HeatCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in .grd format, overrides the generated grid")
	HeatCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- K (diffusivity)\n\t- Dt (time step)")
	HeatCmd.Flags().StringP("strategy", "z", "", "scatter add strategy: colored, atomic or serial")
	HeatCmd.Flags().BoolP("graph", "g", false, "display the mesh before computing the solution")
	HeatCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	HeatCmd.Flags().IntP("plotSteps", "s", 0, "number of steps between output solution slices")
	HeatCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the run")
}

func processHeatInput(mh *ModelHeat) (hp *InputParameters.HeatParameters) {
	var (
		err  error
		data []byte
	)
	if len(mh.ICFile) == 0 {
		exampleFile := `
########################################
Title: "Test Case"
K: 1.
Dt: 2.e-5
NSteps: 1000
Strategy: colored
GridDim: 32
Terms:
  - Coef: 1.
    Nx: 1
    Ny: 1
########################################
`
		fmt.Printf("No input parameters file (-I, --inputConditionsFile), using defaults\n")
		fmt.Printf("Example File:%s\n", exampleFile)
	} else {
		if data, err = ioutil.ReadFile(mh.ICFile); err != nil {
			panic(err)
		}
	}
	hp = &InputParameters.HeatParameters{}
	if err = hp.Parse(data); err != nil {
		panic(err)
	}
	// Command line overrides
	if len(mh.GridFile) != 0 {
		hp.GridFile = mh.GridFile
	}
	if len(mh.Strategy) != 0 {
		if _, ok := types.ScatterNameMap[mh.Strategy]; !ok {
			panic(fmt.Errorf("unknown scatter strategy: %s", mh.Strategy))
		}
		hp.Strategy = mh.Strategy
	}
	if mh.PlotSteps > 0 {
		hp.PlotSteps = mh.PlotSteps
	}
	return
}

func RunHeat(mh *ModelHeat, hp *InputParameters.HeatParameters) {
	var (
		err error
		m   *mesh.Mesh
		sw  *Heat2D.SolutionWriter
	)
	if mh.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	hp.Print()
	if len(hp.GridFile) != 0 {
		m = readfiles.ReadGrd2D(hp.GridFile, true)
	} else {
		m = mesh.NewRectangleMesh(hp.GridDim, hp.GridDim,
			hp.OriginX, hp.OriginY, hp.Width, hp.Height)
		if hp.JitterAmplitude > 0 {
			m.JitterInteriorPoints(rand.New(rand.NewSource(hp.JitterSeed)),
				hp.JitterAmplitude)
		}
	}
	if mh.Graph {
		readfiles.PlotMesh(m, true)
		time.Sleep(mh.Delay)
	}
	sp := scatter.NewPattern(hp.ScatterFlag(), m, nil, runtime.NumCPU())
	terms := make([]Heat2D.Term, len(hp.Terms))
	for i, st := range hp.Terms {
		terms[i] = Heat2D.Term{Coef: st.Coef, Nx: st.Nx, Ny: st.Ny}
	}
	zb := Heat2D.NewZeroBoundary(hp.K, hp.OriginX, hp.Width, hp.OriginY, hp.Height, terms)
	s := Heat2D.NewSolver(m, sp, zb, hp.Dt, hp.K)
	if len(hp.OutputFile) != 0 {
		if sw, err = Heat2D.NewSolutionWriter(hp.OutputFile, m); err != nil {
			panic(err)
		}
		sw.AddSlice(s.CurrentPointWeights)
	}
	logFrequency := hp.NSteps / 10
	if sw != nil && hp.PlotSteps > 0 {
		fmt.Printf("Dt = %10.3e, NSteps = %d, k = %8.4f, NPoints = %d, NElements = %d\n",
			hp.Dt, hp.NSteps, hp.K, m.PointCount(), m.RegionCount())
		for done := 0; done < hp.NSteps; {
			n := hp.PlotSteps
			if done+n > hp.NSteps {
				n = hp.NSteps - done
			}
			s.SimulateSteps(n)
			done += n
			sw.AddSlice(s.CurrentPointWeights)
			fmt.Printf("Time = %10.6f, step %6d, MSE = %12.6e\n",
				s.Time(), s.NTotalSteps, s.MeasureError())
		}
	} else {
		s.Run(hp.NSteps, logFrequency)
		if sw != nil {
			sw.AddSlice(s.CurrentPointWeights)
		}
	}
	fmt.Printf("Final Time = %10.6f, MSE = %12.6e\n", s.Time(), s.MeasureError())
	if sw != nil {
		if err = sw.Close(); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %s\n", hp.OutputFile)
	}
}
