package slam

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/slamlog/logging"
	"go.viam.com/slamlog/rimage/transform"
)

func TestParseFileExample(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	d, err := ParseFile(filepath.Join("data", "example.txt"), WithLogger(logger))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, d.Intrinsics, test.ShouldResemble, transform.IntrinsicMatrix{
		{517.013, 0, 323.256},
		{0, 517.516, 251.825},
		{0, 0, 1},
	})
	test.That(t, len(d.Cameras), test.ShouldEqual, 2)
	test.That(t, d.Cameras[0].LabelOr(""), test.ShouldEqual, "frame_000")
	test.That(t, d.Cameras[0].Pixels, test.ShouldResemble, []r2.Point{{X: 100, Y: 200}, {X: 101.5, Y: 202.25}})
	test.That(t, d.Cameras[1].LabelOr(""), test.ShouldEqual, "frame_001")
	test.That(t, d.Cameras[1].Translation, test.ShouldResemble, r3.Vector{X: 0.5, Y: -0.25, Z: 1})
	test.That(t, d.Cameras[1].Pixels, test.ShouldResemble, []r2.Point{{X: 320, Y: 240}})
	test.That(t, d.Points, test.ShouldResemble, []r3.Vector{{X: 5, Y: 6, Z: 7}, {X: -1.5, Y: 0.25, Z: 3}})
	test.That(t, d.NumPixels(), test.ShouldEqual, 3)
	test.That(t, d.PointCloud().Size(), test.ShouldEqual, 2)

	summary := logs.FilterMessage("parsed trajectory log").All()
	test.That(t, len(summary), test.ShouldEqual, 1)
	test.That(t, summary[0].ContextMap()["cameras"], test.ShouldEqual, int64(2))
}

func TestParseCRLF(t *testing.T) {
	d, err := ParseFile(filepath.Join("data", "crlf.txt"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(d.Cameras), test.ShouldEqual, 1)
	test.That(t, d.Cameras[0].LabelOr(""), test.ShouldEqual, "cam0")
	test.That(t, d.Cameras[0].Pixels, test.ShouldResemble, []r2.Point{{X: 100, Y: 200}})
}

func TestParseTruncated(t *testing.T) {
	d, err := ParseFile(filepath.Join("data", "truncated.txt"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(d.Cameras), test.ShouldEqual, 1)

	_, err = ParseFile(filepath.Join("data", "truncated.txt"), WithStrictEnd(true))
	test.That(t, errors.Is(err, ErrIncompletePose), test.ShouldBeTrue)
	var perr *ParseError
	test.That(t, errors.As(err, &perr), test.ShouldBeTrue)
	test.That(t, perr.Line, test.ShouldEqual, 5)
}

func TestParseEmpty(t *testing.T) {
	d, err := Parse(strings.NewReader(""))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(d.Cameras), test.ShouldEqual, 0)
	test.That(t, len(d.Points), test.ShouldEqual, 0)
	test.That(t, d.Intrinsics.IsIdentity(), test.ShouldBeTrue)
}

func TestParseReturnsNoPartialDataset(t *testing.T) {
	d, err := Parse(strings.NewReader("1 0 0 0\n0 1 0 0\n0 0 1 0\n1 2 3\n4 5\n"))
	test.That(t, d, test.ShouldBeNil)
	test.That(t, errors.Is(err, ErrUnexpectedPixel), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "line 5")
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt"))
	test.That(t, errors.Is(err, ErrSourceUnavailable), test.ShouldBeTrue)
	kind, ok := KindOf(err)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, kind, test.ShouldEqual, SourceUnavailable)
	var perr *ParseError
	test.That(t, errors.As(err, &perr), test.ShouldBeTrue)
	test.That(t, perr.Err, test.ShouldNotBeNil)
}

func TestParseInvalidUTF8(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte("1 0 0 0\n\xff\xfe 2\n")))
	test.That(t, errors.Is(err, ErrLineReadFailure), test.ShouldBeTrue)
	var perr *ParseError
	test.That(t, errors.As(err, &perr), test.ShouldBeTrue)
	test.That(t, perr.Line, test.ShouldEqual, 2)
}

func TestParseLineTooLong(t *testing.T) {
	long := strings.Repeat("1", maxLineLength+1)
	_, err := Parse(strings.NewReader("# ok\n" + long + "\n"))
	test.That(t, errors.Is(err, ErrLineReadFailure), test.ShouldBeTrue)
	var perr *ParseError
	test.That(t, errors.As(err, &perr), test.ShouldBeTrue)
	test.That(t, perr.Line, test.ShouldEqual, 2)
	test.That(t, perr.Err, test.ShouldNotBeNil)
}

func TestParseConvention(t *testing.T) {
	d, err := ParseFile(filepath.Join("data", "example.txt"), WithConvention(CameraToWorld))
	test.That(t, err, test.ShouldBeNil)
	for _, c := range d.Cameras {
		test.That(t, c.Convention, test.ShouldEqual, CameraToWorld)
	}
	test.That(t, d.Cameras[1].CameraToWorld().Translation, test.ShouldResemble, r3.Vector{X: 0.5, Y: -0.25, Z: 1})
}
