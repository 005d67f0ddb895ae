package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/render"
	"github.com/san-kum/softbody/internal/viz"
)

const (
	background   = "#0a0a0a"
	neutralColor = "#00ff00"
	stretchColor = "#ff5a4a"
	squashColor  = "#4aa3ff"
	groundColor  = "#444444"
	groundMargin = 0.1

	// strains below this read as unloaded
	strainTolerance = 1e-3
)

func svgHeader(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// CanvasToSVG converts a Braille canvas to SVG format, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	dotsW, dotsH := canvas.Dots()
	var sb strings.Builder
	svgHeader(&sb, float64(dotsW)*scale, float64(dotsH)*scale)
	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", neutralColor))

	r := scale * 0.4
	for y := 0; y < dotsH; y++ {
		for x := 0; x < dotsW; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func strainColor(strain float64) string {
	switch {
	case strain > strainTolerance:
		return stretchColor
	case strain < -strainTolerance:
		return squashColor
	}
	return neutralColor
}

// BodyToSVG projects every spring of v through cam into a width×height
// image. Stretched springs are drawn red and compressed ones blue. Springs
// with an endpoint off screen are left out.
func BodyToSVG(v dynamo.View, cam *viz.Camera, width, height int) string {
	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height))

	// floor line under the body, in the plane of the camera target
	lo, hi := render.Bounds(v)
	a := mgl64.Vec3{lo.X() - groundMargin, 0, cam.Target.Z()}
	b := mgl64.Vec3{hi.X() + groundMargin, 0, cam.Target.Z()}
	if x0, y0, _, ok := cam.Project(a, width, height); ok {
		if x1, y1, _, ok := cam.Project(b, width, height); ok {
			sb.WriteString(fmt.Sprintf("<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"%s\" stroke-dasharray=\"4 4\"/>\n",
				x0, y0, x1, y1, groundColor))
		}
	}

	sb.WriteString("<g stroke-width=\"1.5\" stroke-linecap=\"round\">\n")
	for _, seg := range render.Segments(v, nil) {
		x0, y0, _, ok0 := cam.Project(seg.Start(), width, height)
		x1, y1, _, ok1 := cam.Project(seg.End(), width, height)
		if !ok0 || !ok1 {
			continue
		}
		sb.WriteString(fmt.Sprintf("<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"%s\"/>\n",
			x0, y0, x1, y1, strainColor(seg.Strain)))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceToSVG plots ys against xs as a single polyline, padded by a tenth of
// the range on every side.
func TraceToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}

	minX, maxX := bounds(xs[:n])
	minY, maxY := bounds(ys[:n])
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i := 0; i < n; i++ {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
