package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/viz"
)

const background = "#0a0a0a"

var palette = []string{"#00ffff", "#ff00ff", "#ffff00", "#00ff88", "#ff8800", "#8888ff"}

// view maps the x-y plane of world space onto an SVG viewport, y up.
type view struct {
	minX, minY, scale float64
	height            float64
}

func newView(xs, ys, pad []float64, width, height int) view {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range xs {
		r := 0.0
		if i < len(pad) {
			r = pad[i]
		}
		minX, maxX = math.Min(minX, xs[i]-r), math.Max(maxX, xs[i]+r)
		minY, maxY = math.Min(minY, ys[i]-r), math.Max(maxY, ys[i]+r)
	}
	if len(xs) == 0 {
		minX, maxX, minY, maxY = -1, 1, -1, 1
	}

	rangeX := math.Max(maxX-minX, 1)
	rangeY := math.Max(maxY-minY, 1)
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
	return view{minX: minX, minY: minY, scale: scale, height: float64(height)}
}

func (v view) point(x, y float64) (float64, float64) {
	return (x - v.minX) * v.scale, v.height - (y-v.minY)*v.scale
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func splitXY(positions []float64) (xs, ys []float64) {
	n := len(positions) / 3
	xs, ys = make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i] = positions[3*i], positions[3*i+1]
	}
	return xs, ys
}

// FrameToSVG draws one frame in the x-y plane: bodies as polylines through
// their members, particles as circles of radius sqrt(mass).
func FrameToSVG(positions, radii []float64, bodies [][]float64, width, height int) string {
	xs, ys := splitXY(positions)
	v := newView(xs, ys, radii, width, height)

	var sb strings.Builder
	header(&sb, width, height)

	for b, body := range bodies {
		bx, by := splitXY(body)
		if len(bx) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1" stroke-dasharray="4 2" points="`, palette[b%len(palette)]))
		for i := range bx {
			x, y := v.point(bx[i], by[i])
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(`<g fill="#ffffff" fill-opacity="0.8">` + "\n")
	for i := range xs {
		x, y := v.point(xs[i], ys[i])
		r := 0.0
		if i < len(radii) {
			r = radii[i] * v.scale
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", x, y, r))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WorldToSVG renders the current state of w.
func WorldToSVG(w *dynamo.World, width, height int) string {
	radii := make([]float64, w.Len())
	for i, p := range w.Particles() {
		radii[i] = p.Radius()
	}
	return FrameToSVG(w.Positions(), radii, w.AllBodyPositions(), width, height)
}

// TrajectoryToSVG draws one path per particle through the recorded frames.
func TrajectoryToSVG(frames []dynamo.Frame, width, height int) string {
	if len(frames) < 2 {
		return ""
	}

	var allX, allY []float64
	for _, f := range frames {
		xs, ys := splitXY(f.Positions)
		allX = append(allX, xs...)
		allY = append(allY, ys...)
	}
	v := newView(allX, allY, nil, width, height)

	var sb strings.Builder
	header(&sb, width, height)

	n := len(frames[0].Positions) / 3
	for p := 0; p < n; p++ {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, palette[p%len(palette)]))
		for i, f := range frames {
			if 3*p+1 >= len(f.Positions) {
				break
			}
			x, y := v.point(f.Positions[3*p], f.Positions[3*p+1])
			if i == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to dots, scale pixels per sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	sw, sh := canvas.PixelSize()
	width, height := int(float64(sw)*scale), int(float64(sh)*scale)

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
