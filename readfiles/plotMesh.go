package readfiles

import (
	"image/color"

	"github.com/notargets/avs/chart2d"
	graphics2D "github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/heatfem/mesh"
)

// PlotMesh opens an interactive chart of the triangulation, coloring boundary
// edges by their segment attribute. Mesh points are overlaid as glyphs when
// plotPoints is set.
func PlotMesh(m *mesh.Mesh, plotPoints bool) (chart *chart2d.Chart2D) {
	var (
		points  []graphics2D.Point
		trimesh graphics2D.TriMesh
		K       = m.RegionCount()
		Np      = m.PointCount()
	)
	points = make([]graphics2D.Point, Np)
	xD, yD := make([]float64, Np), make([]float64, Np)
	for i, pt := range m.Points {
		points[i].X[0] = float32(pt.X)
		points[i].X[1] = float32(pt.Y)
		xD[i], yD[i] = pt.X, pt.Y
	}
	trimesh.Triangles = make([]graphics2D.Triangle, K)
	colorMap := utils2.NewColorMap(0, float32(m.SegmentCount()), 1)
	trimesh.Attributes = make([][]float32, K) // One segment attribute per vertex
	for k := 0; k < K; k++ {
		trimesh.Attributes[k] = make([]float32, 3)
		for i := 0; i < 3; i++ {
			trimesh.Triangles[k].Nodes[i] = int32(m.Regions[k][i])
		}
	}
	trimesh.Geometry = points
	box := graphics2D.NewBoundingBox(trimesh.GetGeometry())
	box = box.Scale(1.5)
	chart = chart2d.NewChart2D(1920, 1920, box.XMin[0], box.XMax[0], box.XMin[1], box.XMax[1])
	chart.AddColorMap(colorMap)
	go chart.Plot()
	white := color.RGBA{
		R: 255,
		G: 255,
		B: 255,
		A: 0,
	}
	black := color.RGBA{
		R: 0,
		G: 0,
		B: 0,
		A: 0,
	}
	if err := chart.AddTriMesh("TriMesh", trimesh,
		chart2d.CrossGlyph, chart2d.Solid, white); err != nil {
		panic("unable to add graph series")
	}
	var ptsGlyph chart2d.GlyphType
	ptsGlyph = chart2d.NoGlyph
	if plotPoints {
		ptsGlyph = chart2d.CircleGlyph
	}
	if err := chart.AddSeries("Points", xD, yD,
		ptsGlyph, chart2d.NoLine, black); err != nil {
		panic(err)
	}

	return
}
