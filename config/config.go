// Package config defines the JSON configuration read by the slamlog command line tool.
package config

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/slamlog/logging"
	"go.viam.com/slamlog/rimage/transform"
	"go.viam.com/slamlog/slam"
)

// Default rotation settings for the log file appender.
const (
	DefaultLogFileMaxSizeMB  = 10
	DefaultLogFileMaxBackups = 3
)

// Config describes how trajectory logs are read and how the tool logs.
type Config struct {
	// ConfigFilePath is the file the config was read from, if any.
	ConfigFilePath string `json:"-"`

	LogLevel logging.Level `json:"log_level"`
	// LogFile, when set, adds a rotating file appender next to the console output.
	LogFile string `json:"log_file,omitempty"`

	Convention       string  `json:"convention,omitempty"`
	SightlineLength  float64 `json:"sightline_length,omitempty"`
	StrictEndOfInput bool    `json:"strict_end_of_input,omitempty"`
	// IntrinsicsOverride is used for sightlines when the log carries no MATRIX K block.
	IntrinsicsOverride *transform.IntrinsicMatrix `json:"intrinsics_override,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:        logging.INFO,
		Convention:      slam.WorldToCamera.String(),
		SightlineLength: transform.DefaultSightlineLength,
	}
}

// Validate checks the config and fills in defaults.
func (c *Config) Validate() error {
	if _, err := slam.ConventionFromString(c.Convention); err != nil {
		return newValidationError("convention", err)
	}
	if c.SightlineLength < 0 {
		return newValidationError("sightline_length", errors.Errorf("must be positive, got %v", c.SightlineLength))
	}
	if c.SightlineLength == 0 {
		c.SightlineLength = transform.DefaultSightlineLength
	}
	if c.IntrinsicsOverride != nil {
		if _, err := c.IntrinsicsOverride.Inverse(); err != nil {
			return newValidationError("intrinsics_override", err)
		}
	}
	return nil
}

// PoseConvention returns the parsed convention. Validate must have succeeded.
func (c *Config) PoseConvention() slam.Convention {
	conv, _ := slam.ConventionFromString(c.Convention)
	return conv
}

// ParserOptions returns the slam options matching the config.
func (c *Config) ParserOptions(logger logging.Logger) []slam.Option {
	return []slam.Option{
		slam.WithLogger(logger),
		slam.WithConvention(c.PoseConvention()),
		slam.WithStrictEnd(c.StrictEndOfInput),
	}
}

// Intrinsics returns the calibration to back-project with: the log's own K unless it is the
// identity and an override is configured.
func (c *Config) Intrinsics(fromLog transform.IntrinsicMatrix) transform.IntrinsicMatrix {
	if fromLog.IsIdentity() && c.IntrinsicsOverride != nil {
		return *c.IntrinsicsOverride
	}
	return fromLog
}

func newValidationError(path string, err error) error {
	return errors.Wrap(err, fmt.Sprintf("error validating %q", path))
}
