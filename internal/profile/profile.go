// Package profile lists the named configuration profiles stored in the
// config file.
package profile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultProfile = "default"
)

type Manager interface {
	GetProfiles() []string
	GetProfile(name string) (map[string]any, error)
}

type profileManager struct {
	config *viper.Viper
}

// Empty type to represent the _type_ Manager. Genesis is to support a key in a Context
type Key struct{}

// Global instance of the ProfileManagerKey type
var ProfileManagerKey = Key{}

// GetProfiles returns the sorted names of the top level sections of the config.
func (v *profileManager) GetProfiles() []string {
	names := make([]string, 0)
	for _, key := range v.config.AllKeys() {
		top, _, _ := strings.Cut(key, ".")
		if !slices.Contains(names, top) {
			names = append(names, top)
		}
	}
	slices.Sort(names)
	return names
}

func (v *profileManager) GetProfile(name string) (map[string]any, error) {
	if name == "" {
		return nil, fmt.Errorf("invalid profile name (empty)")
	}
	if !v.config.IsSet(name) {
		return nil, fmt.Errorf("profile %q does not exist", name)
	}
	return v.config.GetStringMap(name), nil
}

func NewManager(config *viper.Viper) Manager {
	return &profileManager{
		config: config,
	}
}
