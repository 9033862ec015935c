package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/slamlog/logging"
	"go.viam.com/slamlog/rimage/transform"
	"go.viam.com/slamlog/slam"
)

func TestFromReaderDefaults(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := FromReader("", strings.NewReader("{}"), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.LogLevel, test.ShouldEqual, logging.INFO)
	test.That(t, cfg.PoseConvention(), test.ShouldEqual, slam.WorldToCamera)
	test.That(t, cfg.SightlineLength, test.ShouldEqual, transform.DefaultSightlineLength)
	test.That(t, cfg.StrictEndOfInput, test.ShouldBeFalse)
	test.That(t, cfg.IntrinsicsOverride, test.ShouldBeNil)
}

func TestFromReaderFull(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := FromReader("mem", strings.NewReader(`{
		"log_level": "debug",
		"log_file": "/tmp/slamlog.log",
		"convention": "camera_to_world",
		"sightline_length": 2.5,
		"strict_end_of_input": true,
		"intrinsics_override": [[500, 0, 320], [0, 500, 240], [0, 0, 1]]
	}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, "mem")
	test.That(t, cfg.LogLevel, test.ShouldEqual, logging.DEBUG)
	test.That(t, cfg.LogFile, test.ShouldEqual, "/tmp/slamlog.log")
	test.That(t, cfg.PoseConvention(), test.ShouldEqual, slam.CameraToWorld)
	test.That(t, cfg.SightlineLength, test.ShouldEqual, 2.5)
	test.That(t, cfg.StrictEndOfInput, test.ShouldBeTrue)
	test.That(t, *cfg.IntrinsicsOverride, test.ShouldResemble, transform.IntrinsicMatrix{
		{500, 0, 320}, {0, 500, 240}, {0, 0, 1},
	})
	test.That(t, len(cfg.ParserOptions(logger)), test.ShouldEqual, 3)
}

func TestFromReaderInvalid(t *testing.T) {
	logger := logging.NewTestLogger(t)
	for _, tc := range []struct {
		body     string
		expected string
	}{
		{`{"convention": "sideways"}`, `error validating "convention"`},
		{`{"sightline_length": -1}`, `error validating "sightline_length"`},
		{`{"intrinsics_override": [[1, 2, 3], [2, 4, 6], [0, 0, 1]]}`, `error validating "intrinsics_override"`},
		{`{"log_level": "loud"}`, "failed to decode"},
		{`{"unknown": 1}`, "failed to decode"},
		{`not json`, "failed to decode"},
	} {
		_, err := FromReader("", strings.NewReader(tc.body), logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, tc.expected)
	}
}

func TestFromReaderJSON5(t *testing.T) {
	cfg, err := FromReader("", strings.NewReader(`{
		// Poses come from the odometry node.
		convention: "camera_to_world",
		"intrinsics_override": [
			[500, 0, 320],
			[0, 500, 240],
			[0, 0, 1],
		],
	}`), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.PoseConvention(), test.ShouldEqual, slam.CameraToWorld)
	test.That(t, cfg.IntrinsicsOverride, test.ShouldNotBeNil)
	test.That(t, (*cfg.IntrinsicsOverride)[1][2], test.ShouldEqual, 240.)

	_, err = FromReader("", strings.NewReader(`{"convention": "world_to_camera", "sightline_lenght": 3}`),
		logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown fields ["sightline_lenght"]`)
}

func TestReadSubstitutesEnvironment(t *testing.T) {
	t.Setenv("SLAMLOG_TEST_LOG", "/var/log/slamlog.log")
	path := filepath.Join(t.TempDir(), "slamlog.json")
	test.That(t, os.WriteFile(path, []byte(`{"log_file": "${SLAMLOG_TEST_LOG}"}`), 0o600), test.ShouldBeNil)

	cfg, err := Read(path, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.LogFile, test.ShouldEqual, "/var/log/slamlog.log")
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestIntrinsicsOverride(t *testing.T) {
	k := transform.IntrinsicMatrix{{500, 0, 320}, {0, 500, 240}, {0, 0, 1}}
	cfg := Default()
	test.That(t, cfg.Intrinsics(transform.IdentityIntrinsics()), test.ShouldResemble, transform.IdentityIntrinsics())

	cfg.IntrinsicsOverride = &k
	test.That(t, cfg.Intrinsics(transform.IdentityIntrinsics()), test.ShouldResemble, k)
	logK := transform.IntrinsicMatrix{{1, 0, 2}, {0, 1, 3}, {0, 0, 1}}
	test.That(t, cfg.Intrinsics(logK), test.ShouldResemble, logK)
}
