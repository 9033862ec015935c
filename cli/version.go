package cli

import (
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/slamlog/config"
)

// VersionAction is the corresponding Action for 'version'.
func VersionAction(c *cli.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("error reading build info")
	}
	if c.Bool(debugFlag) {
		printf(c.App.Writer, "%s", info.String())
	}
	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}
	revision := config.GitRevision
	if rev, ok := settings["vcs.revision"]; ok && revision == "" {
		revision = rev
		if len(revision) > 8 {
			revision = revision[:8]
		}
		if settings["vcs.modified"] == "true" {
			revision += "+"
		}
	}
	if revision == "" {
		revision = "?"
	}
	appVersion := config.Version
	if appVersion == "" {
		appVersion = "(dev)"
	}
	printf(c.App.Writer, "Version %s Git=%s Go=%s", appVersion, revision, info.GoVersion)
	return nil
}
