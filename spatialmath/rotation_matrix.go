// Package spatialmath holds the rotation and pose math used by slamlog datasets.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 matrix in row major order. It is not checked for orthonormality on
// construction; camera logs sometimes carry slightly drifted rotations and callers decide how to
// treat them through IsOrthonormal.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates a rotation matrix from 9 values in row major order.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, errors.Errorf("input slice has %d elements, need exactly 9", len(m))
	}
	var mat [9]float64
	copy(mat[:], m)
	return &RotationMatrix{mat}, nil
}

// NewRotationMatrixFromRows creates a rotation matrix from its three rows.
func NewRotationMatrixFromRows(rows [3][3]float64) *RotationMatrix {
	var rm RotationMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rm.mat[3*i+j] = rows[i][j]
		}
	}
	return &rm
}

// IdentityRotationMatrix returns the rotation matrix representing no rotation.
func IdentityRotationMatrix() *RotationMatrix {
	return &RotationMatrix{[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// At returns the value at row, col.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[row*3+col]
}

// Row returns the 3 elements in the indicated row as an r3.Vector.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[row*3], Y: rm.mat[row*3+1], Z: rm.mat[row*3+2]}
}

// Rows returns a copy of the matrix as three rows.
func (rm *RotationMatrix) Rows() [3][3]float64 {
	var rows [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rows[i][j] = rm.mat[3*i+j]
		}
	}
	return rows
}

// Transpose returns the transpose, which is the inverse for an orthonormal matrix.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	var t RotationMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.mat[3*j+i] = rm.mat[3*i+j]
		}
	}
	return &t
}

// Mul returns the product of this matrix and the column vector v.
func (rm *RotationMatrix) Mul(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: rm.Row(0).Dot(v),
		Y: rm.Row(1).Dot(v),
		Z: rm.Row(2).Dot(v),
	}
}

// Determinant returns the determinant of the matrix.
func (rm *RotationMatrix) Determinant() float64 {
	return rm.Row(0).Dot(rm.Row(1).Cross(rm.Row(2)))
}

// IsOrthonormal reports whether R*Rᵀ is the identity within tol and the determinant is +1 within
// tol, i.e. whether the matrix is a proper rotation.
func (rm *RotationMatrix) IsOrthonormal(tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			expected := 0.
			if i == j {
				expected = 1.
			}
			if math.Abs(rm.Row(i).Dot(rm.Row(j))-expected) > tol {
				return false
			}
		}
	}
	return math.Abs(rm.Determinant()-1) <= tol
}

// Quaternion returns the unit quaternion for this rotation. The result is only meaningful when
// the matrix is orthonormal.
func (rm *RotationMatrix) Quaternion() quat.Number {
	m := rm.mat
	trace := m[0] + m[4] + m[8]
	var q quat.Number
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{
			Real: 0.25 / s,
			Imag: (m[7] - m[5]) * s,
			Jmag: (m[2] - m[6]) * s,
			Kmag: (m[3] - m[1]) * s,
		}
	case m[0] > m[4] && m[0] > m[8]:
		s := 2 * math.Sqrt(1+m[0]-m[4]-m[8])
		q = quat.Number{
			Real: (m[7] - m[5]) / s,
			Imag: 0.25 * s,
			Jmag: (m[1] + m[3]) / s,
			Kmag: (m[2] + m[6]) / s,
		}
	case m[4] > m[8]:
		s := 2 * math.Sqrt(1+m[4]-m[0]-m[8])
		q = quat.Number{
			Real: (m[2] - m[6]) / s,
			Imag: (m[1] + m[3]) / s,
			Jmag: 0.25 * s,
			Kmag: (m[5] + m[7]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m[8]-m[0]-m[4])
		q = quat.Number{
			Real: (m[3] - m[1]) / s,
			Imag: (m[2] + m[6]) / s,
			Jmag: (m[5] + m[7]) / s,
			Kmag: 0.25 * s,
		}
	}
	// Keep the scalar part non-negative so equal rotations compare equal.
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return q
}

// EulerAngles are three angles (in radians) used to represent the rotation of an object in 3D
// Euclidean space. The Tait–Bryan angle formalism is used, with rotations around three distinct
// axes in the z-y′-x″ sequence.
type EulerAngles struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// EulerAngles returns the roll, pitch and yaw of the rotation.
func (rm *RotationMatrix) EulerAngles() *EulerAngles {
	q := rm.Quaternion()
	angles := EulerAngles{}

	// roll (x-axis rotation)
	sinrCosp := 2 * (q.Real*q.Imag + q.Jmag*q.Kmag)
	cosrCosp := 1 - 2*(q.Imag*q.Imag+q.Jmag*q.Jmag)
	angles.Roll = math.Atan2(sinrCosp, cosrCosp)

	// pitch (y-axis rotation)
	sinp := 2 * (q.Real*q.Jmag - q.Kmag*q.Imag)
	if math.Abs(sinp) >= 1 {
		angles.Pitch = math.Copysign(math.Pi/2., sinp) // use 90 degrees if out of range
	} else {
		angles.Pitch = math.Asin(sinp)
	}

	// yaw (z-axis rotation)
	sinyCosp := 2 * (q.Real*q.Kmag + q.Imag*q.Jmag)
	cosyCosp := 1 - 2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag)
	angles.Yaw = math.Atan2(sinyCosp, cosyCosp)

	return &angles
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
