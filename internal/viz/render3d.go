package viz

import (
	"math"
	"sort"

	"github.com/san-kum/particles/internal/dynamo"
)

// Camera orbits a target point and projects world coordinates onto the
// canvas with a simple perspective divide.
type Camera struct {
	Target     dynamo.Vector3
	Distance   float64
	Extent     float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Extent: 10, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Fit centers the camera on the bounding box of flat xyz triples.
func (c *Camera) Fit(positions []float64) {
	if len(positions) < 3 {
		return
	}
	lo := dynamo.VectorFromSlice(positions[:3])
	hi := lo
	for i := 3; i+2 < len(positions); i += 3 {
		p := dynamo.VectorFromSlice(positions[i : i+3])
		lo = dynamo.Vec3(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = dynamo.Vec3(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
	}
	c.Target = lo.Add(hi).Scale(0.5)
	c.Extent = math.Max(hi.Sub(lo).Length()*0.75, 4)
	c.Distance = c.Extent * 5
}

func (c *Camera) rotate(p dynamo.Vector3) dynamo.Vector3 {
	p = p.Sub(c.Target)
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project maps p to sub-pixel coordinates on an sw x sh surface. It returns
// the screen position, depth, pixels per world unit at that depth, and
// whether the point lands on screen.
func (c *Camera) Project(p dynamo.Vector3, sw, sh int) (x, y int, depth, scale float64, visible bool) {
	rot := c.rotate(p)
	if rot.Z >= c.Distance {
		return 0, 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	unit := float64(min(sw, sh)) / (2 * c.Extent) * c.Zoom
	scale = persp * unit
	x = int(math.Round(rot.X*scale)) + sw/2
	y = int(math.Round(-rot.Y*scale)) + sh/2
	return x, y, rot.Z, scale, x >= 0 && x < sw && y >= 0 && y < sh
}

// Scene is one frame of renderable geometry.
type Scene struct {
	Positions []float64
	Radii     []float64
	Bodies    [][]float64
}

type projected struct {
	x, y, r int
	depth   float64
}

// Render draws body outlines, then particles back to front.
func Render(c *Canvas, cam *Camera, s Scene) {
	if c == nil || cam == nil {
		return
	}
	sw, sh := c.PixelSize()

	for _, body := range s.Bodies {
		var px, py int
		first := true
		for i := 0; i+2 < len(body); i += 3 {
			x, y, _, _, _ := cam.Project(dynamo.VectorFromSlice(body[i:i+3]), sw, sh)
			if !first {
				c.DrawLine(px, py, x, y)
			}
			px, py, first = x, y, false
		}
	}

	proj := make([]projected, 0, len(s.Positions)/3)
	for i := 0; i+2 < len(s.Positions); i += 3 {
		x, y, depth, scale, ok := cam.Project(dynamo.VectorFromSlice(s.Positions[i:i+3]), sw, sh)
		if !ok {
			continue
		}
		r := 0
		if n := i / 3; n < len(s.Radii) {
			r = int(s.Radii[n] * scale)
		}
		proj = append(proj, projected{x, y, r, depth})
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, p := range proj {
		c.Disc(p.x, p.y, p.r)
	}
}
