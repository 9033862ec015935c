// Package transform holds the camera model math: the intrinsic calibration matrix, pinhole
// parameters, and back-projection of pixel observations into world-frame sightlines.
package transform

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrSingularIntrinsics is returned when an intrinsic matrix cannot be inverted.
var ErrSingularIntrinsics = errors.New("intrinsic matrix is singular")

// IntrinsicMatrix is a 3x3 camera calibration matrix K in row major order.
type IntrinsicMatrix [3][3]float64

// IdentityIntrinsics is the calibration used when a log carries no intrinsic block.
func IdentityIntrinsics() IntrinsicMatrix {
	return IntrinsicMatrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Dense returns K as a gonum matrix.
func (k IntrinsicMatrix) Dense() *mat.Dense {
	data := make([]float64, 0, 9)
	for _, row := range k {
		data = append(data, row[:]...)
	}
	return mat.NewDense(3, 3, data)
}

// IsIdentity reports whether K is exactly the identity, i.e. no calibration was provided.
func (k IntrinsicMatrix) IsIdentity() bool {
	return k == IdentityIntrinsics()
}

// Inverse returns K⁻¹. An ill-conditioned or singular K is reported as ErrSingularIntrinsics.
func (k IntrinsicMatrix) Inverse() (IntrinsicMatrix, error) {
	var inv mat.Dense
	if err := inv.Inverse(k.Dense()); err != nil {
		return IntrinsicMatrix{}, errors.Wrap(ErrSingularIntrinsics, err.Error())
	}
	var out IntrinsicMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}

// Mul returns K*v.
func (k IntrinsicMatrix) Mul(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: k[0][0]*v.X + k[0][1]*v.Y + k[0][2]*v.Z,
		Y: k[1][0]*v.X + k[1][1]*v.Y + k[1][2]*v.Z,
		Z: k[2][0]*v.X + k[2][1]*v.Y + k[2][2]*v.Z,
	}
}

// Pinhole extracts focal lengths, skew and principal point. The bottom row is expected to be
// (0, 0, 1); callers with a scaled K should normalize first.
func (k IntrinsicMatrix) Pinhole() *PinholeCameraIntrinsics {
	return &PinholeCameraIntrinsics{
		Fx:   k[0][0],
		Fy:   k[1][1],
		Ppx:  k[0][2],
		Ppy:  k[1][2],
		Skew: k[0][1],
	}
}
