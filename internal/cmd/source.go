package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kinfolk/kinctl/internal/cmd/common"
	"github.com/kinfolk/kinctl/internal/config"
	"github.com/kinfolk/kinctl/internal/people/source"
)

// PeopleSourceFactory builds the people source for a command run.
type PeopleSourceFactory func(cfg config.Hook, logger *slog.Logger) (source.Source, error)

// Empty type to represent the _type_ PeopleSourceFactory. Genesis is to support a key in a Context
type PeopleSourceFactoryKeyType struct{}

// PeopleSourceFactoryKey is a global instance of the PeopleSourceFactoryKeyType type
var PeopleSourceFactoryKey = PeopleSourceFactoryKeyType{}

// DefaultPeopleSourceFactory reads the people.* configuration.
func DefaultPeopleSourceFactory(cfg config.Hook, logger *slog.Logger) (source.Source, error) {
	timeout, err := durationConfig(cfg, common.PeopleTimeoutConfigPath)
	if err != nil {
		return nil, err
	}
	delay, err := durationConfig(cfg, common.PeopleDelayConfigPath)
	if err != nil {
		return nil, err
	}

	return source.New(source.Options{
		Location: cfg.GetString(common.PeopleURLConfigPath),
		Timeout:  timeout,
		Delay:    delay,
		Logger:   logger,
	}), nil
}

func durationConfig(cfg config.Hook, key string) (time.Duration, error) {
	raw := cfg.GetString(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q for config path %s: %w", raw, key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config path %s must not be negative", key)
	}
	return d, nil
}
