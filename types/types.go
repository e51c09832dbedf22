package types

//go:generate stringer -type=ScatterFlag

// PointID indexes a mesh point. IDs are dense in [0, PointCount).
type PointID int32

// ScatterFlag selects the conflict resolution strategy used when many
// elements accumulate into shared point storage.
type ScatterFlag uint8

const (
	Scatter_None ScatterFlag = iota
	Scatter_Colored
	Scatter_Atomic
	Scatter_Serial
)

var ScatterNameMap = map[string]ScatterFlag{
	"colored": Scatter_Colored,
	"color":   Scatter_Colored,
	"atomic":  Scatter_Atomic,
	"serial":  Scatter_Serial,
}

func (sf ScatterFlag) String() string {
	switch sf {
	case Scatter_Colored:
		return "colored"
	case Scatter_Atomic:
		return "atomic"
	case Scatter_Serial:
		return "serial"
	default:
		return "none"
	}
}
