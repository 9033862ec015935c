package config

import (
	"bytes"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"go.viam.com/slamlog/logging"
)

// Version and GitRevision are replaced by LD flags.
var (
	Version     = ""
	GitRevision = ""
)

// Read reads a config from the given file. ${VAR} references are expanded from the environment
// before decoding.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %q", filePath)
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from. The body is JSON5, so comments,
// unquoted keys and trailing commas are allowed.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	if err := checkFields(body); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}
	cfg := Default()
	if err := json5.Unmarshal(body, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}
	cfg.ConfigFilePath = originalPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debugw("config loaded", "path", originalPath, "convention", cfg.Convention, "log_level", cfg.LogLevel)
	return cfg, nil
}

// configFields are the keys a config file may hold.
var configFields = func() map[string]bool {
	fields := map[string]bool{}
	typ := reflect.TypeOf(Config{})
	for i := 0; i < typ.NumField(); i++ {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			fields[name] = true
		}
	}
	return fields
}()

// checkFields rejects keys that are not config fields, so a misspelled option is not silently
// ignored.
func checkFields(body []byte) error {
	var raw map[string]interface{}
	if err := json5.Unmarshal(body, &raw); err != nil {
		return err
	}
	unknown := lo.Filter(lo.Keys(raw), func(key string, _ int) bool {
		return !configFields[key]
	})
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.Errorf("unknown fields %q", unknown)
}
