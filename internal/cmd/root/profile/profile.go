package profile

import (
	"fmt"

	"github.com/kinfolk/kinctl/internal/cmd"
	"github.com/kinfolk/kinctl/internal/cmd/common"
	"github.com/kinfolk/kinctl/internal/cmd/output/tableview"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs"
	"github.com/kinfolk/kinctl/internal/meta"
	"github.com/kinfolk/kinctl/internal/profile"
	"github.com/kinfolk/kinctl/internal/util/i18n"
	"github.com/kinfolk/kinctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	profileUse   = "profiles"
	profileShort = i18n.T("root.profile.profileShort", "List CLI profiles")
	profileLong  = normalizers.LongDesc(i18n.T("root.profile.profileLong",
		`The profiles command lists the profiles defined in the configuration file, or
prints the settings of one profile.`))
	profileExample = normalizers.Examples(i18n.T("root.profile.profileExample",
		fmt.Sprintf(`
		# List profiles
		%[1]s get profiles
		# Show the settings of the offline profile
		%[1]s get profiles offline -o yaml
		`, meta.CLIName)))
)

type profileRow struct {
	Name      string `table:"Profile"`
	Current   string `table:"Current"`
	PeopleURL string `table:"People URL"`
}

func NewProfileCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     profileUse + " [name]",
		Short:   profileShort,
		Long:    profileLong,
		Example: profileExample,
		Aliases: []string{"profile"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)

			manager, ok := c.Context().Value(profile.ProfileManagerKey).(profile.Manager)
			if !ok || manager == nil {
				return &cmd.ConfigurationError{Err: fmt.Errorf("no profile manager configured")}
			}
			return run(helper, manager)
		},
	}
	return rv
}

func run(helper cmd.Helper, manager profile.Manager) error {
	v, err := helper.GetVerb()
	if err != nil {
		return err
	}
	if v != verbs.Get {
		return fmt.Errorf("command %s does not support %s", profileUse, v)
	}
	return runGet(helper, manager)
}

func runGet(helper cmd.Helper, manager profile.Manager) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	streams := helper.GetStreams()

	p, err := cli.Format(outType.String(), streams.Out)
	if err != nil {
		return err
	}
	defer p.Flush()

	if args := helper.GetArgs(); len(args) == 1 {
		settings, err := manager.GetProfile(args[0])
		if err != nil {
			return &cmd.ConfigurationError{Err: err}
		}
		p.Print(settings)
		return nil
	}

	names := manager.GetProfiles()
	rows := make([]profileRow, 0, len(names))
	for _, name := range names {
		row := profileRow{Name: name, PeopleURL: "-"}
		if name == cfg.GetProfile() {
			row.Current = "*"
		}
		if settings, err := manager.GetProfile(name); err == nil {
			if people, ok := settings["people"].(map[string]any); ok {
				if url, ok := people["url"].(string); ok && url != "" {
					row.PeopleURL = url
				}
			}
		}
		rows = append(rows, row)
	}

	if outType == common.TEXT {
		return tableview.Render(streams.Out, rows)
	}
	p.Print(names)
	return nil
}
