package profile

import (
	"encoding/json"
	"testing"

	"github.com/kinfolk/kinctl/internal/cmd/common"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs"
	"github.com/kinfolk/kinctl/internal/config"
	"github.com/kinfolk/kinctl/internal/iostreams"
	"github.com/kinfolk/kinctl/internal/profile"
	"github.com/kinfolk/kinctl/test/cmd"
	testConfig "github.com/kinfolk/kinctl/test/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newTestManager() profile.Manager {
	v := viper.New()
	v.Set("default.people.url", "https://example.test/people.json")
	v.Set("offline.people.url", "./people.yaml")
	v.Set("offline.output", "yaml")
	return profile.NewManager(v)
}

func newHelper(outType common.OutputFormat, args []string, streams *iostreams.IOStreams) *cmd.MockHelper {
	return &cmd.MockHelper{
		GetArgsMock: func() []string { return args },
		GetVerbMock: func() (verbs.VerbValue, error) { return verbs.Get, nil },
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return outType, nil
		},
		GetConfigMock: func() (config.Hook, error) {
			return testConfig.NewMapConfigHook(map[string]string{}), nil
		},
		GetStreamsMock: func() *iostreams.IOStreams { return streams },
	}
}

func TestGetProfilesText(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	err := run(newHelper(common.TEXT, nil, &streams), newTestManager())
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "People URL")
	require.Contains(t, text, "offline")
	require.Contains(t, text, "./people.yaml")
}

func TestGetProfilesJSON(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	err := run(newHelper(common.JSON, nil, &streams), newTestManager())
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &names))
	require.Equal(t, []string{"default", "offline"}, names)
}

func TestGetSingleProfile(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	err := run(newHelper(common.JSON, []string{"offline"}, &streams), newTestManager())
	require.NoError(t, err)

	var settings map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &settings))
	require.Equal(t, "yaml", settings["output"])
}

func TestGetMissingProfile(t *testing.T) {
	streams, _, _, _ := iostreams.NewTestIOStreams()
	err := run(newHelper(common.JSON, []string{"nope"}, &streams), newTestManager())
	require.Error(t, err)
}

func TestProfilesRejectsOtherVerbs(t *testing.T) {
	streams, _, _, _ := iostreams.NewTestIOStreams()
	helper := newHelper(common.TEXT, nil, &streams)
	helper.GetVerbMock = func() (verbs.VerbValue, error) { return verbs.View, nil }
	require.Error(t, run(helper, newTestManager()))
}
