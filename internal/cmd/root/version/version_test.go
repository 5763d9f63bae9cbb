package version

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinfolk/kinctl/internal/build"
	"github.com/kinfolk/kinctl/internal/cmd/common"
	"github.com/kinfolk/kinctl/internal/config"
	"github.com/kinfolk/kinctl/internal/iostreams"
	"github.com/kinfolk/kinctl/test/cmd"
	testConfig "github.com/kinfolk/kinctl/test/config"
)

func newHelper(outType common.OutputFormat, showCommit bool, streams *iostreams.IOStreams) *cmd.MockHelper {
	return &cmd.MockHelper{
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return outType, nil
		},
		GetConfigMock: func() (config.Hook, error) {
			return &testConfig.MockConfigHook{
				GetBoolMock: func(_ string) bool {
					return showCommit
				},
			}, nil
		},
		GetStreamsMock: func() *iostreams.IOStreams {
			return streams
		},
		GetBuildInfoMock: func() (*build.Info, error) {
			return &build.Info{
				Version: "dev",
				Commit:  "abc1234",
				Date:    "2026-10-01",
			}, nil
		},
	}
}

func Test_VersionCmd(t *testing.T) {
	all, _, out, _ := iostreams.NewTestIOStreams()

	require.NoError(t, run(newHelper(common.TEXT, false, &all)))
	require.Equal(t, "dev\n", out.String())
}

func Test_VersionCmdShowCommit(t *testing.T) {
	all, _, out, _ := iostreams.NewTestIOStreams()

	require.NoError(t, run(newHelper(common.TEXT, true, &all)))
	require.Equal(t, "dev (abc1234, 2026-10-01)\n", out.String())
}

func Test_VersionCmdJsonOutput(t *testing.T) {
	all, _, out, _ := iostreams.NewTestIOStreams()

	require.NoError(t, run(newHelper(common.JSON, false, &all)))

	var actual map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &actual))
	require.Equal(t, map[string]any{"version": "dev"}, actual)
}
