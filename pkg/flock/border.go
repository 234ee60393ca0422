package flock

import "github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"

// BorderLocation tells which side of the arena a border closes.
type BorderLocation int

const (
	BorderLeft BorderLocation = iota
	BorderRight
	BorderBottom
	BorderTop
)

func (l BorderLocation) String() string {
	switch l {
	case BorderLeft:
		return "left"
	case BorderRight:
		return "right"
	case BorderBottom:
		return "bottom"
	case BorderTop:
		return "top"
	}
	return "unknown"
}

// Border is a static wall just outside one arena edge.
// Its inner face is flush with the visible boundary.
type Border struct {
	Location   BorderLocation
	Center     geometry.Vector2D
	HalfExtent geometry.Vector2D
}

// NewBorder places a border of the given thickness against one edge of a
// width x height arena centered on the origin.
func NewBorder(loc BorderLocation, width, height, thickness float64) Border {
	half := thickness / 2
	b := Border{Location: loc}
	switch loc {
	case BorderLeft:
		b.Center = geometry.Vector2D{X: -width/2 - half}
		b.HalfExtent = geometry.Vector2D{X: half, Y: height / 2}
	case BorderRight:
		b.Center = geometry.Vector2D{X: width/2 + half}
		b.HalfExtent = geometry.Vector2D{X: half, Y: height / 2}
	case BorderBottom:
		b.Center = geometry.Vector2D{Y: -height/2 - half}
		b.HalfExtent = geometry.Vector2D{X: width / 2, Y: half}
	case BorderTop:
		b.Center = geometry.Vector2D{Y: height/2 + half}
		b.HalfExtent = geometry.Vector2D{X: width / 2, Y: half}
	}
	return b
}

// Box is the collision geometry of the border.
func (b Border) Box() geometry.AABB {
	return geometry.NewAABB(b.Center, b.HalfExtent)
}

// arenaBorders builds the four walls around the arena.
func arenaBorders(width, height, thickness float64) [4]Border {
	return [4]Border{
		NewBorder(BorderLeft, width, height, thickness),
		NewBorder(BorderRight, width, height, thickness),
		NewBorder(BorderBottom, width, height, thickness),
		NewBorder(BorderTop, width, height, thickness),
	}
}
