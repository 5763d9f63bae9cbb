package jq

import (
	"bytes"
	"testing"

	cmdcommon "github.com/kinfolk/kinctl/internal/cmd/common"
	testConfig "github.com/kinfolk/kinctl/test/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newJQCommand() *cobra.Command {
	command := &cobra.Command{Use: "people"}
	AddFlags(command.Flags())
	return command
}

var family = []map[string]any{
	{"name": "Anna van Hecke", "sex": "f", "born": 1607},
	{"name": "Lieven Haverbeke", "sex": "m", "born": 1631},
}

func TestResolveSettingsDefaults(t *testing.T) {
	settings, err := ResolveSettings(newJQCommand(), nil)
	require.NoError(t, err)
	require.False(t, settings.Enabled())
	require.Equal(t, cmdcommon.ColorModeAuto, settings.ColorMode)
	require.Equal(t, DefaultTheme, settings.Theme)
}

func TestResolveSettingsEmptyFilterDefaultsToIdentity(t *testing.T) {
	command := newJQCommand()
	require.NoError(t, command.Flags().Set(FlagName, ""))

	settings, err := ResolveSettings(command, nil)
	require.NoError(t, err)
	require.Equal(t, ".", settings.Filter)
}

func TestResolveSettingsReadsRawOutputShortFlag(t *testing.T) {
	command := newJQCommand()
	require.NoError(t, command.Flags().Parse([]string{"-r"}))

	settings, err := ResolveSettings(command, nil)
	require.NoError(t, err)
	require.True(t, settings.RawOutput)
}

func TestResolveSettingsReadsConfig(t *testing.T) {
	cfg := testConfig.NewMapConfigHook(map[string]string{
		ColorEnabledConfigPath:      "always",
		ColorThemeConfigPath:        "github",
		RawOutputConfigPath:         "true",
		DefaultExpressionConfigPath: ".[].name",
	})

	settings, err := ResolveSettings(newJQCommand(), cfg)
	require.NoError(t, err)
	require.Equal(t, cmdcommon.ColorModeAlways, settings.ColorMode)
	require.Equal(t, "github", settings.Theme)
	require.True(t, settings.RawOutput)
	require.Equal(t, ".[].name", settings.Filter)
}

func TestResolveSettingsFlagOverridesDefaultExpression(t *testing.T) {
	command := newJQCommand()
	require.NoError(t, command.Flags().Set(FlagName, ".[0]"))
	cfg := testConfig.NewMapConfigHook(map[string]string{DefaultExpressionConfigPath: ".[].name"})

	settings, err := ResolveSettings(command, cfg)
	require.NoError(t, err)
	require.Equal(t, ".[0]", settings.Filter)
}

func TestResolveSettingsRejectsBadColorMode(t *testing.T) {
	cfg := testConfig.NewMapConfigHook(map[string]string{ColorEnabledConfigPath: "rainbow"})
	_, err := ResolveSettings(newJQCommand(), cfg)
	require.Error(t, err)
}

func TestResolveSettingsIgnoresConfigWithoutJQFlag(t *testing.T) {
	cfg := testConfig.NewMapConfigHook(map[string]string{DefaultExpressionConfigPath: ".[].name"})
	settings, err := ResolveSettings(&cobra.Command{Use: "serve"}, cfg)
	require.NoError(t, err)
	require.False(t, settings.Enabled())
}

func TestValidate(t *testing.T) {
	require.ErrorContains(t, Validate(cmdcommon.TEXT, Settings{Filter: "."}), "only supported")
	require.ErrorContains(t, Validate(cmdcommon.JSON, Settings{RawOutput: true}), "requires")
	require.Error(t, Validate(cmdcommon.YAML, Settings{Filter: ".", RawOutput: true}))
	require.NoError(t, Validate(cmdcommon.YAML, Settings{Filter: "."}))
	require.NoError(t, Validate(cmdcommon.TEXT, Settings{}))
}

func TestApplyJSON(t *testing.T) {
	settings := Settings{Filter: "[.[] | select(.born < 1620) | .name]", ColorMode: cmdcommon.ColorModeNever}

	result, handled, err := Apply(family, cmdcommon.JSON, settings, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, handled)
	require.Equal(t, []any{"Anna van Hecke"}, result)
}

func TestApplyPassesThroughWithoutFilter(t *testing.T) {
	result, handled, err := Apply(family, cmdcommon.TEXT, Settings{}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, handled)
	require.Equal(t, family, result)
}

func TestApplyColorizedJSONWritesDirectly(t *testing.T) {
	settings := Settings{Filter: ".", ColorMode: cmdcommon.ColorModeAlways, Theme: DefaultTheme}

	buf := &bytes.Buffer{}
	result, handled, err := Apply(family, cmdcommon.JSON, settings, buf)
	require.NoError(t, err)
	require.True(t, handled)
	require.Nil(t, result)
	require.Contains(t, buf.String(), "\x1b[")
}

func TestApplyRawOutputWritesUnquotedStrings(t *testing.T) {
	settings := Settings{Filter: ".[] | .name, .born", RawOutput: true}

	buf := &bytes.Buffer{}
	_, handled, err := Apply(family, cmdcommon.JSON, settings, buf)
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, "Anna van Hecke\n1607\nLieven Haverbeke\n1631\n", buf.String())
}

func TestFilter(t *testing.T) {
	out, err := Filter([]byte(`[{"name":"a"},{"name":"b"}]`), ".[].name")
	require.NoError(t, err)
	require.JSONEq(t, `["a","b"]`, string(out))

	out, err = Filter([]byte(`[]`), ".[]")
	require.NoError(t, err)
	require.Equal(t, "null", string(out))

	_, err = Filter([]byte(`{"foo":1}`), ".foo[")
	require.ErrorContains(t, err, "invalid jq expression")

	_, err = Filter(nil, ".")
	require.Error(t, err)
}

func TestColorizeLeavesScalarsAlone(t *testing.T) {
	require.Equal(t, "42", Colorize([]byte("42"), "42", DefaultTheme))
	require.Equal(t, "{\n  \"a\": 1\n}", Indent([]byte(`{"a":1}`)))
}
