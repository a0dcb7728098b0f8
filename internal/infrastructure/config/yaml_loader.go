// Package config implements ports.ConfigLoader: a YAML file merged onto the
// daemon's built-in defaults, mirroring the original's _DEFAULT_CONFIG dict.
package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wazoplugind/wazo-plugind/internal/ports"
	apperrors "github.com/wazoplugind/wazo-plugind/pkg/errors"
)

// YAMLLoader implements ports.ConfigLoader by reading a YAML file from disk
// and merging it onto ports.DefaultConfig().
type YAMLLoader struct {
	logger ports.Logger
}

func NewYAMLLoader(logger ports.Logger) *YAMLLoader {
	return &YAMLLoader{logger: logger}
}

func (l *YAMLLoader) Load(ctx context.Context, path string) (*ports.Config, error) {
	cfg := ports.DefaultConfig()

	if path == "" {
		l.logDebug(ctx, "no configuration path supplied, using defaults")
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logWarn(ctx, "configuration file not found, using defaults", "path", path)
			return cfg, nil
		}
		l.logError(ctx, "failed to read configuration file", err, "path", path)
		return nil, apperrors.NewInvalidDataError(fmt.Sprintf("reading configuration at %s", path), err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		l.logError(ctx, "failed to parse configuration file", err, "path", path)
		return nil, apperrors.NewInvalidDataError(fmt.Sprintf("parsing configuration at %s", path), err)
	}

	l.logInfo(ctx, "configuration loaded", "path", path)
	return cfg, nil
}

var _ ports.ConfigLoader = (*YAMLLoader)(nil)

func (l *YAMLLoader) logDebug(ctx context.Context, msg string, fields ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Debug(ctx, msg, fields...)
}

func (l *YAMLLoader) logInfo(ctx context.Context, msg string, fields ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Info(ctx, msg, fields...)
}

func (l *YAMLLoader) logWarn(ctx context.Context, msg string, fields ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Warn(ctx, msg, fields...)
}

func (l *YAMLLoader) logError(ctx context.Context, msg string, err error, fields ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Error(ctx, msg, append(fields, "error", err)...)
}
