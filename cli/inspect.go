package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"go.viam.com/slamlog/slam"
	"go.viam.com/slamlog/spatialmath"
)

// orthonormalTolerance is the largest deviation of RᵀR from the identity that inspect accepts
// without a warning.
const orthonormalTolerance = 1e-3

// InspectAction is the corresponding Action for 'inspect'.
func InspectAction(c *cli.Context) error {
	env, err := getEnvironment(c)
	if err != nil {
		return err
	}
	path, err := logArg(c)
	if err != nil {
		return err
	}
	ds, err := env.parse(path)
	if err != nil {
		return err
	}
	printSummary(c.App.Writer, path, ds)
	printf(c.App.Writer, "%s", cameraTable(ds))
	for i, cam := range ds.Cameras {
		if !cam.Rotation.IsOrthonormal(orthonormalTolerance) {
			warningf(c.App.ErrWriter, "camera %d (%s) has a non-orthonormal rotation, det=%.4f",
				i, cam.LabelOr("unlabeled"), cam.Rotation.Determinant())
		}
	}
	return nil
}

func printSummary(w io.Writer, path string, ds *slam.Dataset) {
	printf(w, "%s: %d cameras, %d points, %d pixel observations", path, len(ds.Cameras), len(ds.Points), ds.NumPixels())
	if ds.Intrinsics.IsIdentity() {
		printf(w, "intrinsics: none (identity)")
	} else {
		k := ds.Intrinsics.Pinhole()
		printf(w, "intrinsics: fx=%.3f fy=%.3f ppx=%.3f ppy=%.3f skew=%.3f", k.Fx, k.Fy, k.Ppx, k.Ppy, k.Skew)
	}
	if len(ds.Points) > 0 {
		meta := ds.PointCloud().MetaData()
		center := meta.Center()
		printf(w, "points: min=(%.3f, %.3f, %.3f) max=(%.3f, %.3f, %.3f) center=(%.3f, %.3f, %.3f)",
			meta.MinX, meta.MinY, meta.MinZ, meta.MaxX, meta.MaxY, meta.MaxZ, center.X, center.Y, center.Z)
	}
}

// cameraTable lists each camera with its world-frame center and orientation.
func cameraTable(ds *slam.Dataset) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Label", "Center", "Orientation", "Pixels"})
	for i, cam := range ds.Cameras {
		pose := cam.CameraToWorld()
		tra := pose.Translation
		ori := pose.Rotation.EulerAngles()
		t.AppendRow(table.Row{
			i,
			cam.LabelOr("-"),
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf(
				"Roll:%.2f, Pitch:%.2f, Yaw:%.2f",
				spatialmath.RadToDeg(ori.Roll),
				spatialmath.RadToDeg(ori.Pitch),
				spatialmath.RadToDeg(ori.Yaw),
			),
			len(cam.Pixels),
		})
	}
	return t.Render()
}
