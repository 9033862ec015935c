package cli

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/slamlog/pointcloud"
)

// ExportPCDAction is the corresponding Action for 'export-pcd'.
func ExportPCDAction(c *cli.Context) (err error) {
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
	pcdType := pointcloud.PCDAscii
	if c.Bool(binaryFlag) {
		pcdType = pointcloud.PCDBinary
	}

	vp := pointcloud.DefaultViewpoint
	if idx := c.Int(viewpointFlag); idx >= 0 {
		if idx >= len(ds.Cameras) {
			return errors.Errorf("viewpoint camera %d out of range, the log has %d cameras", idx, len(ds.Cameras))
		}
		pose := ds.Cameras[idx].CameraToWorld()
		vp = pointcloud.Viewpoint{Translation: pose.Translation, Orientation: pose.Rotation.Quaternion()}
	}

	out := c.App.Writer
	if dest := c.Path(outFlag); dest != "" {
		//nolint:gosec
		f, createErr := os.Create(dest)
		if createErr != nil {
			return errors.Wrapf(createErr, "could not create %q", dest)
		}
		defer func() {
			err = multierr.Combine(err, f.Close())
		}()
		out = f
	}
	buf := bufio.NewWriter(out)
	if err := pointcloud.ToPCDWithViewpoint(ds.PointCloud(), buf, pcdType, vp); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	env.logger.Infow("exported points", "source", path, "points", len(ds.Points), "format", pcdType.String())
	return nil
}
