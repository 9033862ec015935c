package transform

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/slamlog/spatialmath"
)

// DefaultSightlineLength is how far, in world units, a sightline extends from the camera center.
const DefaultSightlineLength = 100.

// Sightline is the world-frame segment a pixel observation back-projects to.
type Sightline struct {
	Pixel     r2.Point  `json:"pixel"`
	Origin    r3.Vector `json:"origin"`
	Direction r3.Vector `json:"direction"`
	End       r3.Vector `json:"end"`
}

// Backprojector turns pixels into sightlines for a fixed calibration.
type Backprojector struct {
	kInv   IntrinsicMatrix
	length float64
}

// NewBackprojector inverts k once and returns a Backprojector drawing sightlines of the given
// length. A non-positive length uses DefaultSightlineLength.
func NewBackprojector(k IntrinsicMatrix, length float64) (*Backprojector, error) {
	kInv, err := k.Inverse()
	if err != nil {
		return nil, err
	}
	if length <= 0 {
		length = DefaultSightlineLength
	}
	return &Backprojector{kInv: kInv, length: length}, nil
}

// Ray returns the camera-frame direction K⁻¹ [u v 1]ᵀ for a pixel.
func (b *Backprojector) Ray(pixel r2.Point) r3.Vector {
	return b.kInv.Mul(r3.Vector{X: pixel.X, Y: pixel.Y, Z: 1})
}

// Sightlines back-projects every pixel through a camera whose camera-to-world pose is given.
// The origin of each sightline is the camera center in the world frame.
func (b *Backprojector) Sightlines(cameraToWorld spatialmath.Pose, pixels []r2.Point) []Sightline {
	return lo.Map(pixels, func(pixel r2.Point, _ int) Sightline {
		ray := b.Ray(pixel)
		return Sightline{
			Pixel:     pixel,
			Origin:    cameraToWorld.Translation,
			Direction: cameraToWorld.Rotation.Mul(ray),
			End:       cameraToWorld.Transform(ray.Mul(b.length)),
		}
	})
}
