package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kinfolk/kinctl/internal/cmd/common"
	"github.com/kinfolk/kinctl/internal/people/source"
	utilviper "github.com/kinfolk/kinctl/internal/util/viper"
	"github.com/stretchr/testify/require"
)

func TestBuildProfiledConfig_ProfileEnvWithDashes(t *testing.T) {
	t.Setenv("KINCTL_TEAM_A_B_C_PEOPLE_URL", "https://example.com/people.json")

	profile := "team-a-b-c"
	mainv := utilviper.NewViper("nonexistent.yaml")
	mainv.Set(profile, map[string]any{})

	cfg := BuildProfiledConfig(profile, "nonexistent.yaml", mainv)

	require.Equal(t, "https://example.com/people.json", cfg.GetString(common.PeopleURLConfigPath))
}

func TestBuildProfiledConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default:\n  output: yaml\n  people:\n    timeout: 5s\n"), 0o600))
	t.Setenv("KINCTL_DEFAULT_PEOPLE_TIMEOUT", "9s")

	cfg, err := GetConfig(path, "default", "")
	require.NoError(t, err)
	require.Equal(t, "yaml", cfg.GetString(common.OutputConfigPath))
	require.Equal(t, "9s", cfg.GetString(common.PeopleTimeoutConfigPath))
	require.Equal(t, "default", cfg.GetProfile())
	require.Equal(t, path, cfg.GetPath())
}

func TestGetConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinctl", "config.yaml")

	cfg, err := GetConfig(path, "default", path)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.Equal(t, common.DefaultOutputFormat, cfg.GetString(common.OutputConfigPath))
	require.Equal(t, source.DefaultURL, cfg.GetString(common.PeopleURLConfigPath))
	require.Equal(t, common.DefaultServeAddr, cfg.GetString(common.ServeAddrConfigPath))
	require.Equal(t, filepath.Join(filepath.Dir(path), "logs", "kinctl.log"),
		cfg.GetString(common.LogFileConfigPath))
	require.Equal(t, 7, cfg.GetIntOrElse("missing", 7))
}

func TestGetConfigRejectsMissingExplicitPath(t *testing.T) {
	_, err := GetConfig(filepath.Join(t.TempDir(), "nope.yaml"), "default", "/somewhere/else.yaml")
	require.Error(t, err)
}

func TestGetDefaultConfigFilePathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := GetDefaultConfigFilePath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "kinctl", "config.yaml"), path)
}
