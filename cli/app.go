// Package cli contains the slamlog command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	configFlag     = "config"
	debugFlag      = "debug"
	logFileFlag    = "log-file"
	conventionFlag = "convention"
	strictEndFlag  = "strict-end"

	// Command flags.
	outFlag        = "out"
	binaryFlag     = "binary"
	jsonFlag       = "json"
	intrinsicsFlag = "intrinsics"
	lengthFlag     = "length"
	viewpointFlag  = "viewpoint"
)

// NewApp returns the slamlog application writing regular output to out and diagnostics to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "slamlog",
		Usage:           "inspect and convert plain-text SLAM trajectory logs",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging, including a trace of every parsed line",
			},
			&cli.PathFlag{
				Name:  logFileFlag,
				Usage: "also write logs to a rotating `FILE`",
			},
			&cli.StringFlag{
				Name:  conventionFlag,
				Usage: "pose convention of the log: world_to_camera or camera_to_world",
			},
			&cli.BoolFlag{
				Name:  strictEndFlag,
				Usage: "fail when the log ends inside a pose or intrinsic block",
			},
		},
		Before: setupAction,
		After:  teardownAction,
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "print a summary of the cameras, points and calibration in a log",
				ArgsUsage: "<log file>",
				Action:    InspectAction,
			},
			{
				Name:      "export-pcd",
				Usage:     "write the points of a log as a PCD file",
				ArgsUsage: "<log file>",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:    outFlag,
						Aliases: []string{"o"},
						Usage:   "output `FILE`, stdout if unset",
					},
					&cli.BoolFlag{
						Name:  binaryFlag,
						Usage: "write binary instead of ascii point data",
					},
					&cli.IntFlag{
						Name:  viewpointFlag,
						Value: -1,
						Usage: "use the pose of camera `N` as the PCD viewpoint",
					},
				},
				Action: ExportPCDAction,
			},
			{
				Name:      "sightlines",
				Usage:     "back-project every pixel observation into a world-frame sightline",
				ArgsUsage: "<log file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  jsonFlag,
						Usage: "print sightlines as json",
					},
					&cli.PathFlag{
						Name:  intrinsicsFlag,
						Usage: "pinhole intrinsics json `FILE` used when the log has no MATRIX K block",
					},
					&cli.Float64Flag{
						Name:  lengthFlag,
						Usage: "sightline length in world units, overrides the config",
					},
				},
				Action: SightlinesAction,
			},
			{
				Name:      "watch",
				Usage:     "reparse a log every time it changes until interrupted",
				ArgsUsage: "<log file>",
				Action:    WatchAction,
			},
			{
				Name:   "version",
				Usage:  "print version info for this program",
				Action: VersionAction,
			},
		},
	}
}
