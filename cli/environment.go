package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/slamlog/config"
	"go.viam.com/slamlog/logging"
	"go.viam.com/slamlog/slam"
)

const environmentKey = "slamlog.environment"

// environment is what every command needs: the merged config and a logger.
type environment struct {
	cfg     *config.Config
	logger  logging.Logger
	logFile *logging.FileAppender
}

// setupAction loads the config file, applies flag overrides and builds the logger.
func setupAction(c *cli.Context) error {
	bootLogger := logging.NewBlankLogger("slamlog")
	bootLogger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	bootLogger.SetLevel(logging.WARN)

	cfg := config.Default()
	if path := c.Path(configFlag); path != "" {
		var err error
		if cfg, err = config.Read(path, bootLogger); err != nil {
			return err
		}
	}
	if c.IsSet(conventionFlag) {
		cfg.Convention = c.String(conventionFlag)
	}
	if c.IsSet(strictEndFlag) {
		cfg.StrictEndOfInput = c.Bool(strictEndFlag)
	}
	if c.IsSet(logFileFlag) {
		cfg.LogFile = c.Path(logFileFlag)
	}
	if c.Bool(debugFlag) {
		cfg.LogLevel = logging.DEBUG
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewBlankLogger("slamlog")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(cfg.LogLevel)
	env := &environment{cfg: cfg, logger: logger}
	if cfg.LogFile != "" {
		env.logFile = logging.NewFileAppender(cfg.LogFile, config.DefaultLogFileMaxSizeMB, config.DefaultLogFileMaxBackups)
		logger.AddAppender(env.logFile)
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[environmentKey] = env
	logging.ReplaceGlobal(logger)
	return nil
}

func teardownAction(c *cli.Context) error {
	env, ok := c.App.Metadata[environmentKey].(*environment)
	if !ok {
		return nil
	}
	err := env.logger.Sync()
	if env.logFile != nil {
		err = multierr.Combine(err, env.logFile.Close())
	}
	return err
}

func getEnvironment(c *cli.Context) (*environment, error) {
	env, ok := c.App.Metadata[environmentKey].(*environment)
	if !ok {
		return nil, errors.New("slamlog environment was not initialized")
	}
	return env, nil
}

// logArg returns the single positional log file argument.
func logArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errors.Errorf("%s expects exactly one log file argument, got %d", c.Command.Name, c.NArg())
	}
	return c.Args().First(), nil
}

func (env *environment) parse(path string) (*slam.Dataset, error) {
	return slam.ParseFile(path, env.cfg.ParserOptions(env.logger.Sublogger("parser"))...)
}

// printf prints a message with a newline.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	printf(w, format, a...)
}
