package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

// 90 degrees around z.
var rz90 = NewRotationMatrixFromRows([3][3]float64{
	{0, -1, 0},
	{1, 0, 0},
	{0, 0, 1},
})

func TestRotationMatrixAccessors(t *testing.T) {
	rm, err := NewRotationMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rm.At(1, 2), test.ShouldEqual, 6.)
	test.That(t, rm.Row(2), test.ShouldResemble, r3.Vector{X: 7, Y: 8, Z: 9})
	test.That(t, rm.Transpose().Row(0), test.ShouldResemble, r3.Vector{X: 1, Y: 4, Z: 7})
	test.That(t, rm.Rows(), test.ShouldResemble, [3][3]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	_, err = NewRotationMatrix([]float64{1, 2})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldEqual, "input slice has 2 elements, need exactly 9")
}

func TestRotationMatrixMul(t *testing.T) {
	v := rz90.Mul(r3.Vector{X: 1})
	test.That(t, v.X, test.ShouldAlmostEqual, 0.)
	test.That(t, v.Y, test.ShouldAlmostEqual, 1.)
	test.That(t, v.Z, test.ShouldAlmostEqual, 0.)

	back := rz90.Transpose().Mul(v)
	test.That(t, back.X, test.ShouldAlmostEqual, 1.)
	test.That(t, back.Y, test.ShouldAlmostEqual, 0.)
}

func TestIsOrthonormal(t *testing.T) {
	test.That(t, IdentityRotationMatrix().IsOrthonormal(1e-9), test.ShouldBeTrue)
	test.That(t, rz90.IsOrthonormal(1e-9), test.ShouldBeTrue)

	scaled := NewRotationMatrixFromRows([3][3]float64{{2, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	test.That(t, scaled.IsOrthonormal(1e-6), test.ShouldBeFalse)

	reflection := NewRotationMatrixFromRows([3][3]float64{{-1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	test.That(t, reflection.IsOrthonormal(1e-6), test.ShouldBeFalse)
}

func TestQuaternion(t *testing.T) {
	test.That(t, IdentityRotationMatrix().Quaternion(), test.ShouldResemble, quat.Number{Real: 1})

	q := rz90.Quaternion()
	test.That(t, q.Real, test.ShouldAlmostEqual, math.Sqrt2/2)
	test.That(t, q.Imag, test.ShouldAlmostEqual, 0.)
	test.That(t, q.Jmag, test.ShouldAlmostEqual, 0.)
	test.That(t, q.Kmag, test.ShouldAlmostEqual, math.Sqrt2/2)

	// 180 degrees around x exercises the non-positive trace branch.
	rx180 := NewRotationMatrixFromRows([3][3]float64{{1, 0, 0}, {0, -1, 0}, {0, 0, -1}})
	q = rx180.Quaternion()
	test.That(t, q.Real, test.ShouldAlmostEqual, 0.)
	test.That(t, math.Abs(q.Imag), test.ShouldAlmostEqual, 1.)

	ea := rz90.EulerAngles()
	test.That(t, ea.Roll, test.ShouldAlmostEqual, 0.)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, 0.)
	test.That(t, RadToDeg(ea.Yaw), test.ShouldAlmostEqual, 90.)
}

func TestPoseInvert(t *testing.T) {
	p := NewPose(rz90, r3.Vector{X: 1, Y: 2, Z: 3})
	pt := r3.Vector{X: 4, Y: -1, Z: 0.5}

	roundTrip := p.Invert().Transform(p.Transform(pt))
	test.That(t, roundTrip.X, test.ShouldAlmostEqual, pt.X)
	test.That(t, roundTrip.Y, test.ShouldAlmostEqual, pt.Y)
	test.That(t, roundTrip.Z, test.ShouldAlmostEqual, pt.Z)

	identity := NewPose(nil, r3.Vector{})
	test.That(t, identity.Transform(pt), test.ShouldResemble, pt)
}
