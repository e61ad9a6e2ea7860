// README: Plane point value object shared by demands, stops and segments.
package types

import "github.com/golang/geo/r2"

// Point is a position in the simulation plane.
type Point struct {
	X float64
	Y float64
}

func (p Point) vec() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return q.vec().Sub(p.vec()).Norm()
}
