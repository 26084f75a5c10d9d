package cluster

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Projector is the external collaborator the engine consumes to move between
// geographic positions and the flat projected plane the cluster tree is
// built in, and to read the current camera scale. The engine never projects
// coordinates itself; it only calls these three methods. A real map widget
// supplies its own implementation (projection math, tile loading, and the
// GUI event loop are all out of scope for this package).
type Projector interface {
	GeoToProj(pos GeoCoordinates) r2.Vec
	ProjToGeo(p r2.Vec) GeoCoordinates
	CurrentScale() float64
}

// MercatorProjector is the default Projector: spherical (web) Mercator
// projection into the [0,1]x[0,1] unit square, with a caller-supplied
// current scale (typically owned by the map widget's camera).
type MercatorProjector struct {
	scale func() float64
}

// NewMercatorProjector builds a MercatorProjector whose CurrentScale reads
// from scaleFunc on every call, so it always reflects the live camera.
func NewMercatorProjector(scaleFunc func() float64) *MercatorProjector {
	return &MercatorProjector{scale: scaleFunc}
}

// GeoToProj converts a geographic position to spherical Mercator coordinates
// in the [0,1]x[0,1] range.
func (m *MercatorProjector) GeoToProj(pos GeoCoordinates) r2.Vec {
	x := pos.Lon/360.0 + 0.5
	sin := math.Sin(pos.Lat * math.Pi / 180.0)
	y := 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	if y < 0 {
		y = 0
	}
	if y > 1 {
		y = 1
	}
	return r2.Vec{X: x, Y: y}
}

// ProjToGeo is the inverse of GeoToProj.
func (m *MercatorProjector) ProjToGeo(p r2.Vec) GeoCoordinates {
	lon := (p.X - 0.5) * 360
	y2 := (180 - p.Y*360) * math.Pi / 180.0
	lat := 360*math.Atan(math.Exp(y2))/math.Pi - 90
	return GeoCoordinates{Lat: lat, Lon: lon}
}

// CurrentScale reports the live camera scale.
func (m *MercatorProjector) CurrentScale() float64 {
	if m.scale == nil {
		return 1
	}
	return m.scale()
}

// FixedScaleProjector is an identity-like Projector for tests: it treats
// GeoCoordinates.Lon/Lat as already-projected X/Y and reports a fixed
// scale, so test coordinates read directly as tree coordinates.
type FixedScaleProjector struct {
	Scale float64
}

// NewFixedScaleProjector builds a FixedScaleProjector with the given scale.
func NewFixedScaleProjector(scale float64) *FixedScaleProjector {
	return &FixedScaleProjector{Scale: scale}
}

func (f *FixedScaleProjector) GeoToProj(pos GeoCoordinates) r2.Vec {
	return r2.Vec{X: pos.Lon, Y: pos.Lat}
}

func (f *FixedScaleProjector) ProjToGeo(p r2.Vec) GeoCoordinates {
	return GeoCoordinates{Lat: p.Y, Lon: p.X}
}

func (f *FixedScaleProjector) CurrentScale() float64 {
	if f.Scale == 0 {
		return 1
	}
	return f.Scale
}
