package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/notargets/heatfem/mesh"
	"github.com/notargets/heatfem/types"
)

/*
ReadGrd2D reads a .grd triangular mesh description:

	npnt: <np> nseg: <ne> ntri: <nr>

followed by np lines of "<pt_id>: <x> <y>", ne lines of
"<edge_id>: <p1> <p2>", nr lines of "<reg_id>: <p1> <p2> <p3>", then the
boundary section:

	nebd: <num_segments>

and per segment "idnum: <segment_id>", "number: <n_edges>" followed by
n_edges lines of "<index>: <edge_id>". Left-hand side IDs must appear in
strictly ascending order from zero; a violation is fatal. The returned mesh
has boundary point flags derived and has passed structural validation.
*/
func ReadGrd2D(filename string, verbose bool) (m *mesh.Mesh) {
	var (
		file *os.File
		err  error
	)
	if verbose {
		fmt.Printf("Reading grd mesh file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		panic(fmt.Errorf("unable to open file %s\n %s", filename, err))
	}
	defer file.Close()
	m = ReadGrd(bufio.NewReader(file), verbose)
	return
}

func ReadGrd(reader *bufio.Reader, verbose bool) (m *mesh.Mesh) {
	var (
		nPoints, nEdges, nRegions int
		lineNo                    int
		n                         int
		err                       error
	)
	line := getLine(reader, &lineNo)
	if n, err = fmt.Sscanf(line, "npnt: %d nseg: %d ntri: %d",
		&nPoints, &nEdges, &nRegions); err != nil || n < 3 {
		panic(fmt.Errorf("malformed header at line %d: %s", lineNo, line))
	}
	m = &mesh.Mesh{
		Points:  make([]mesh.Point, nPoints),
		Edges:   make([]mesh.Edge, nEdges),
		Regions: make([]mesh.Region, nRegions),
	}
	for i := 0; i < nPoints; i++ {
		var (
			id   int
			x, y float64
		)
		line = getLine(reader, &lineNo)
		if n, err = fmt.Sscanf(line, "%d: %f %f", &id, &x, &y); err != nil || n < 3 {
			panic(fmt.Errorf("malformed point at line %d: %s", lineNo, line))
		}
		checkID(id, i, lineNo)
		m.Points[i] = mesh.Point{X: x, Y: y}
	}
	for i := 0; i < nEdges; i++ {
		var id, p1, p2 int
		line = getLine(reader, &lineNo)
		if n, err = fmt.Sscanf(line, "%d: %d %d", &id, &p1, &p2); err != nil || n < 3 {
			panic(fmt.Errorf("malformed edge at line %d: %s", lineNo, line))
		}
		checkID(id, i, lineNo)
		m.Edges[i] = mesh.Edge{types.PointID(p1), types.PointID(p2)}
	}
	for i := 0; i < nRegions; i++ {
		var id, p1, p2, p3 int
		line = getLine(reader, &lineNo)
		if n, err = fmt.Sscanf(line, "%d: %d %d %d", &id, &p1, &p2, &p3); err != nil || n < 4 {
			panic(fmt.Errorf("malformed region at line %d: %s", lineNo, line))
		}
		checkID(id, i, lineNo)
		m.Regions[i] = mesh.Region{
			types.PointID(p1), types.PointID(p2), types.PointID(p3)}
	}
	// Boundary segments
	var nSegments int
	line = getLine(reader, &lineNo)
	if n, err = fmt.Sscanf(line, "nebd: %d", &nSegments); err != nil || n < 1 {
		panic(fmt.Errorf("malformed boundary header at line %d: %s", lineNo, line))
	}
	m.SegmentIndex = append(m.SegmentIndex, 0)
	for s := 0; s < nSegments; s++ {
		var segID, nSegEdges int
		line = getLine(reader, &lineNo)
		if n, err = fmt.Sscanf(line, "idnum: %d", &segID); err != nil || n < 1 {
			panic(fmt.Errorf("malformed segment ID at line %d: %s", lineNo, line))
		}
		line = getLine(reader, &lineNo)
		if n, err = fmt.Sscanf(line, "number: %d", &nSegEdges); err != nil || n < 1 {
			panic(fmt.Errorf("malformed segment count at line %d: %s", lineNo, line))
		}
		for j := 0; j < nSegEdges; j++ {
			var idx, edgeID int
			line = getLine(reader, &lineNo)
			if n, err = fmt.Sscanf(line, "%d: %d", &idx, &edgeID); err != nil || n < 2 {
				panic(fmt.Errorf("malformed segment edge at line %d: %s", lineNo, line))
			}
			checkID(idx, j, lineNo)
			m.BoundaryEdges = append(m.BoundaryEdges, edgeID)
		}
		m.SegmentIndex = append(m.SegmentIndex, len(m.BoundaryEdges))
	}
	m.MarkBoundaryPoints()
	if err = m.Validate(); err != nil {
		panic(err)
	}
	if verbose {
		fmt.Printf("Np = %d, Nedges = %d, K = %d\n", nPoints, nEdges, nRegions)
		fmt.Printf("Nsegments = %d, NboundaryEdges = %d, NboundaryPoints = %d\n",
			nSegments, m.BoundaryEdgeCount(), m.NBoundaryPoints)
	}
	return
}

func checkID(id, want, lineNo int) {
	if id != want {
		panic(fmt.Errorf("found unexpected / out-of-order ID at line %d: %d", lineNo, id))
	}
}

func getLine(reader *bufio.Reader, lineNo *int) (line string) {
	var (
		err error
	)
	line, err = reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("early end of file")
		}
		panic(err)
	}
	*lineNo++
	line = line[:len(line)-1] // Strip away the newline
	return
}
