// Package detector tags points that fall inside the unit disk.
package detector

import "github.com/verte-zerg/mcpi/internal/model"

// Radius of the reference circle centered at the origin.
const Radius = 1.0

// Inside reports whether (x, y) lies in the closed unit disk.
func Inside(x, y float64) bool {
	return x*x+y*y <= Radius*Radius
}

// Detect tags every point, preserving order and count.
func Detect(points []model.Point) []model.Detection {
	out := make([]model.Detection, len(points))
	for i, p := range points {
		out[i] = model.Detection{Point: p, Detected: Inside(p.X, p.Y)}
	}
	return out
}
