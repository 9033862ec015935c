package cli

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/slamlog/rimage/transform"
	"go.viam.com/slamlog/slam"
)

// cameraSightlines groups the sightlines of one camera.
type cameraSightlines struct {
	Camera     int                   `json:"camera"`
	Label      *string               `json:"label,omitempty"`
	Sightlines []transform.Sightline `json:"sightlines"`
}

// SightlinesAction is the corresponding Action for 'sightlines'.
func SightlinesAction(c *cli.Context) error {
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

	k := env.cfg.Intrinsics(ds.Intrinsics)
	if file := c.Path(intrinsicsFlag); file != "" && ds.Intrinsics.IsIdentity() {
		pinhole, err := transform.NewPinholeCameraIntrinsicsFromJSONFile(file)
		if err != nil {
			return err
		}
		k = pinhole.Matrix()
	}
	if k.IsIdentity() {
		env.logger.Warnw("no intrinsic calibration available, sightlines use the identity matrix", "source", path)
	}
	length := env.cfg.SightlineLength
	if c.IsSet(lengthFlag) {
		length = c.Float64(lengthFlag)
		if length <= 0 {
			return errors.Errorf("--%s must be positive, got %v", lengthFlag, length)
		}
	}

	all, err := computeSightlines(ds, k, length)
	if err != nil {
		return err
	}
	if c.Bool(jsonFlag) {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}
	for _, cs := range all {
		for _, s := range cs.Sightlines {
			printf(c.App.Writer, "%d\t(%.2f, %.2f)\t(%.4f, %.4f, %.4f)\t(%.4f, %.4f, %.4f)",
				cs.Camera, s.Pixel.X, s.Pixel.Y,
				s.Origin.X, s.Origin.Y, s.Origin.Z,
				s.End.X, s.End.Y, s.End.Z)
		}
	}
	return nil
}

// computeSightlines back-projects the pixels of every camera that observed any.
func computeSightlines(ds *slam.Dataset, k transform.IntrinsicMatrix, length float64) ([]cameraSightlines, error) {
	bp, err := transform.NewBackprojector(k, length)
	if err != nil {
		return nil, err
	}
	observing := lo.Filter(ds.Cameras, func(cam *slam.CameraRecord, _ int) bool {
		return len(cam.Pixels) > 0
	})
	return lo.Map(observing, func(cam *slam.CameraRecord, _ int) cameraSightlines {
		return cameraSightlines{
			Camera:     lo.IndexOf(ds.Cameras, cam),
			Label:      cam.Label,
			Sightlines: bp.Sightlines(cam.CameraToWorld(), cam.Pixels),
		}
	}), nil
}
