package pointcloud

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// PCDType is the format of a pcd file.
type PCDType int

const (
	// PCDAscii ascii format for pcd.
	PCDAscii PCDType = 0
	// PCDBinary binary format for pcd.
	PCDBinary PCDType = 1
)

// PCDTypeFromString parses "ascii" or "binary".
func PCDTypeFromString(s string) (PCDType, error) {
	switch strings.ToLower(s) {
	case "ascii", "":
		return PCDAscii, nil
	case "binary":
		return PCDBinary, nil
	default:
		return PCDAscii, errors.Errorf("unsupported pcd data type %q", s)
	}
}

func (t PCDType) String() string {
	if t == PCDBinary {
		return "binary"
	}
	return "ascii"
}

// Viewpoint is the acquisition pose stored in a PCD header.
type Viewpoint struct {
	Translation r3.Vector
	Orientation quat.Number
}

// DefaultViewpoint is the identity viewpoint.
var DefaultViewpoint = Viewpoint{Orientation: quat.Number{Real: 1}}

// ToPCD writes the cloud out as a PCD v0.7 file with x y z float fields. Coordinates are written
// in the units they were logged in.
func ToPCD(cloud PointCloud, out io.Writer, outputType PCDType) error {
	return ToPCDWithViewpoint(cloud, out, outputType, DefaultViewpoint)
}

// ToPCDWithViewpoint is ToPCD with an explicit VIEWPOINT header line.
func ToPCDWithViewpoint(cloud PointCloud, out io.Writer, outputType PCDType, vp Viewpoint) error {
	if outputType != PCDAscii && outputType != PCDBinary {
		return errors.Errorf("unsupported pcd data type %d", outputType)
	}
	_, err := fmt.Fprintf(out, "VERSION .7\n"+
		"FIELDS x y z\n"+
		"SIZE 4 4 4\n"+
		"TYPE F F F\n"+
		"COUNT 1 1 1\n"+
		"WIDTH %d\n"+
		"HEIGHT %d\n"+
		"VIEWPOINT %g %g %g %g %g %g %g\n"+
		"POINTS %d\n"+
		"DATA %s\n",
		cloud.Size(),
		1,
		vp.Translation.X, vp.Translation.Y, vp.Translation.Z,
		vp.Orientation.Real, vp.Orientation.Imag, vp.Orientation.Jmag, vp.Orientation.Kmag,
		cloud.Size(),
		outputType)
	if err != nil {
		return err
	}
	return writePCDData(cloud, out, outputType)
}

func writePCDData(cloud PointCloud, out io.Writer, pcdtype PCDType) error {
	var err error
	buf := make([]byte, 12)
	cloud.Iterate(func(_ int, pos r3.Vector) bool {
		switch pcdtype {
		case PCDBinary:
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(pos.X)))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(pos.Y)))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(pos.Z)))
			_, err = out.Write(buf)
		case PCDAscii:
			_, err = fmt.Fprintf(out, "%f %f %f\n", pos.X, pos.Y, pos.Z)
		}
		return err == nil
	})
	return err
}
