package tableview

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	cmdpkg "github.com/kinfolk/kinctl/internal/cmd"
	cmdCommon "github.com/kinfolk/kinctl/internal/cmd/common"
	jqoutput "github.com/kinfolk/kinctl/internal/cmd/output/jq"
	"github.com/kinfolk/kinctl/internal/config"
	"github.com/kinfolk/kinctl/internal/iostreams"
	"github.com/kinfolk/kinctl/internal/people"
	cmdtest "github.com/kinfolk/kinctl/test/cmd"
	configtest "github.com/kinfolk/kinctl/test/config"
)

type sampleRow struct {
	Name   string `table:"Full name"`
	Born   int
	hidden string
	Skip   string `table:"-"`
}

func TestRenderWritesHeadersAndRows(t *testing.T) {
	var buf bytes.Buffer
	rows := []sampleRow{
		{Name: "Anna van Hecke", Born: 1607, hidden: "x", Skip: "nope"},
		{Name: "Lieven Haverbeke", Born: 1631},
	}

	require.NoError(t, Render(&buf, rows, WithTitle("Family"), WithFooter("2 people")))

	out := buf.String()
	require.Contains(t, out, "Family")
	require.Contains(t, out, "Full name")
	require.Contains(t, out, "Born")
	require.Contains(t, out, "Anna van Hecke")
	require.Contains(t, out, "1631")
	require.Contains(t, out, "2 people")
	require.NotContains(t, out, "nope")
	require.NotContains(t, out, "hidden")
}

func TestRenderEmptyPrintsMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []sampleRow{}))
	require.Equal(t, NoDataMessage+"\n", buf.String())
}

func TestRenderRejectsUnsupportedData(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Render(&buf, nil))
	require.Error(t, Render(&buf, []int{1, 2}))
	require.Error(t, Render(&buf, 42))
	require.Error(t, Render(nil, []sampleRow{}))
}

func TestRenderHeaderOverrideNeedsMatchingCount(t *testing.T) {
	var buf bytes.Buffer
	rows := []sampleRow{{Name: "A", Born: 1}}

	require.NoError(t, Render(&buf, rows, WithHeaders([]string{"Who", "When"})))
	require.Contains(t, buf.String(), "Who")

	buf.Reset()
	require.NoError(t, Render(&buf, rows, WithHeaders([]string{"Only one"})))
	require.Contains(t, buf.String(), "Full name")
}

func TestCalculateColumnWidthsShrinksWidestFirst(t *testing.T) {
	headers := []string{"Name", "Sex"}
	rows := [][]string{{"Anna van Hecke-Haverbeke", "f"}}

	widths, mins := calculateColumnWidths(headers, rows, 0)
	require.Equal(t, []int{24, 4}, widths)
	require.Equal(t, []int{4, 4}, mins)

	widths, _ = calculateColumnWidths(headers, rows, 20)
	require.Equal(t, []int{16, 4}, widths)

	widths, _ = calculateColumnWidths(headers, rows, 2)
	require.Equal(t, []int{4, 4}, widths, "never below the minimum")
}

func TestNormalizeSelectedRowWithoutStyleIsNoop(t *testing.T) {
	content := "a\nb"
	require.Equal(t, content, NormalizeSelectedRow(content, lipgloss.NewStyle()))
}

func TestPeopleHeadersCarrySortGlyphs(t *testing.T) {
	link := people.Link{Sort: people.SortState{Column: people.ColumnBorn, Order: people.OrderDesc}}
	require.Equal(t,
		[]string{"Name ↕", "Sex ↕", "Born ▼", "Died ↕", "Mother", "Father"},
		PeopleHeaders(link))
}

func TestRenderPeopleMarksSelection(t *testing.T) {
	link := people.Link{BasePath: people.PathPrefix, Selected: "ann-1890"}
	view, err := people.BuildView(family(), link)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderPeople(&buf, view))
	out := buf.String()
	require.Contains(t, out, selectedMarker+"Ann")
	require.NotContains(t, out, selectedMarker+"Bob")
	require.Contains(t, out, "Name ↕")
}

func TestRenderPeopleSkipsTableForSingleMatch(t *testing.T) {
	view, err := people.BuildView(family()[:1], people.Link{BasePath: people.PathPrefix})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderPeople(&buf, view))
	require.NotContains(t, buf.String(), "Name ↕")
	require.Contains(t, buf.String(), "Bob is the only match.")

	buf.Reset()
	empty, err := people.BuildView(nil, people.Link{})
	require.NoError(t, err)
	require.NoError(t, RenderPeople(&buf, empty))
	require.Equal(t, NoDataMessage+"\n", buf.String())
}

func newRenderHelper(t *testing.T, streams *iostreams.IOStreams, args ...string) cmdpkg.Helper {
	t.Helper()

	command := &cobra.Command{Use: "people"}
	jqoutput.AddFlags(command.Flags())
	require.NoError(t, command.Flags().Parse(args))

	cfg := configtest.NewMapConfigHook(map[string]string{
		jqoutput.ColorEnabledConfigPath: cmdCommon.ColorModeNever.String(),
	})
	return &cmdtest.MockHelper{
		GetCmdMock:     func() *cobra.Command { return command },
		GetStreamsMock: func() *iostreams.IOStreams { return streams },
		GetConfigMock:  func() (config.Hook, error) { return cfg, nil },
	}
}

func TestRenderForFormatText(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	helper := newRenderHelper(t, &streams)

	printer, err := cli.Format(cmdCommon.TEXT.String(), out)
	require.NoError(t, err)

	rows := people.ToRows(people.Resolve(family()))
	require.NoError(t, RenderForFormat(helper, cmdCommon.TEXT, printer, &streams, rows, family()))
	printer.Flush()

	require.Contains(t, out.String(), "Bob")
	require.Contains(t, out.String(), "Ann")
}

func TestRenderForFormatJSONAppliesFilter(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	helper := newRenderHelper(t, &streams, "--jq", "[.[] | .name]")

	printer, err := cli.Format(cmdCommon.JSON.String(), out)
	require.NoError(t, err)

	require.NoError(t, RenderForFormat(helper, cmdCommon.JSON, printer, &streams, nil, family()))
	printer.Flush()

	var names []string
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &names))
	require.Equal(t, []string{"Bob", "Ann"}, names)
}

func TestRenderForFormatRejectsFilterOnText(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	helper := newRenderHelper(t, &streams, "--jq", ".")

	printer, err := cli.Format(cmdCommon.TEXT.String(), out)
	require.NoError(t, err)

	err = RenderForFormat(helper, cmdCommon.TEXT, printer, &streams, nil, family())
	var cfgErr *cmdpkg.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
