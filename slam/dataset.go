package slam

import (
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/slamlog/pointcloud"
	"go.viam.com/slamlog/rimage/transform"
	"go.viam.com/slamlog/spatialmath"
)

// Convention says which way a logged pose maps points.
type Convention int

const (
	// WorldToCamera poses map world points into the camera frame (R_cw, t_cw).
	WorldToCamera Convention = iota
	// CameraToWorld poses map camera-frame points into the world (R_wc, t_wc).
	CameraToWorld
)

// ConventionFromString parses "world_to_camera" or "camera_to_world".
func ConventionFromString(s string) (Convention, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "world_to_camera", "":
		return WorldToCamera, nil
	case "camera_to_world":
		return CameraToWorld, nil
	}
	return WorldToCamera, errors.Errorf("unknown pose convention %q", s)
}

func (c Convention) String() string {
	if c == CameraToWorld {
		return "camera_to_world"
	}
	return "world_to_camera"
}

// CameraRecord is one committed pose with the pixels observed from it.
type CameraRecord struct {
	Rotation    *spatialmath.RotationMatrix
	Translation r3.Vector
	Pixels      []r2.Point
	// Label is the text of the CAMERA_ID line preceding the pose, nil if there was none.
	Label      *string
	Convention Convention
}

// Pose returns the pose as logged.
func (c *CameraRecord) Pose() spatialmath.Pose {
	return spatialmath.NewPose(c.Rotation, c.Translation)
}

// CameraToWorld returns the pose mapping camera-frame points into the world; its translation is
// the camera center.
func (c *CameraRecord) CameraToWorld() spatialmath.Pose {
	if c.Convention == CameraToWorld {
		return c.Pose()
	}
	return c.Pose().Invert()
}

// LabelOr returns the label, or def when the camera has none.
func (c *CameraRecord) LabelOr(def string) string {
	if c.Label == nil {
		return def
	}
	return *c.Label
}

// Dataset is the result of a parse. Once returned by Parse it is not modified again and may be
// shared between readers.
type Dataset struct {
	Cameras    []*CameraRecord
	Points     []r3.Vector
	Intrinsics transform.IntrinsicMatrix
}

func newDataset() *Dataset {
	return &Dataset{Intrinsics: transform.IdentityIntrinsics()}
}

// PointCloud returns the points as an ordered point cloud.
func (d *Dataset) PointCloud() pointcloud.PointCloud {
	return pointcloud.NewFromPoints(d.Points)
}

// NumPixels is the number of pixel observations across all cameras.
func (d *Dataset) NumPixels() int {
	n := 0
	for _, c := range d.Cameras {
		n += len(c.Pixels)
	}
	return n
}

// aggregator owns the growing dataset and the pending camera label. It is only mutated by
// successful transitions.
type aggregator struct {
	dataset      *Dataset
	pendingLabel *string
	convention   Convention
}

func newAggregator(convention Convention) *aggregator {
	return &aggregator{dataset: newDataset(), convention: convention}
}

func (a *aggregator) setPendingLabel(label string) {
	a.pendingLabel = &label
}

// commitPose turns three pose rows into a camera. The first three columns are the rotation and
// the fourth column the translation. The pending label is consumed.
func (a *aggregator) commitPose(rows [3][4]float64) {
	var rot [3][3]float64
	var t [3]float64
	for i, row := range rows {
		copy(rot[i][:], row[:3])
		t[i] = row[3]
	}
	a.dataset.Cameras = append(a.dataset.Cameras, &CameraRecord{
		Rotation:    spatialmath.NewRotationMatrixFromRows(rot),
		Translation: r3.Vector{X: t[0], Y: t[1], Z: t[2]},
		Label:       a.pendingLabel,
		Convention:  a.convention,
	})
	a.pendingLabel = nil
}

func (a *aggregator) commitPoint(xyz [3]float64) {
	a.dataset.Points = append(a.dataset.Points, r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]})
}

// commitIntrinsic overwrites any earlier intrinsic matrix.
func (a *aggregator) commitIntrinsic(rows [3][3]float64) {
	a.dataset.Intrinsics = transform.IntrinsicMatrix(rows)
}

func (a *aggregator) appendPixel(px r2.Point) error {
	n := len(a.dataset.Cameras)
	if n == 0 {
		return ErrMissingCamera
	}
	last := a.dataset.Cameras[n-1]
	last.Pixels = append(last.Pixels, px)
	return nil
}
