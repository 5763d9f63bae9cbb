package people

import (
	"context"
	"fmt"

	"github.com/kinfolk/kinctl/internal/cmd"
	"github.com/kinfolk/kinctl/internal/cmd/output/jq"
	"github.com/kinfolk/kinctl/internal/cmd/output/tableview"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs"
	"github.com/kinfolk/kinctl/internal/meta"
	"github.com/kinfolk/kinctl/internal/people"
	"github.com/kinfolk/kinctl/internal/people/loader"
	"github.com/kinfolk/kinctl/internal/util/i18n"
	"github.com/kinfolk/kinctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	getPeopleShort = i18n.T("root.products.people.getPeopleShort",
		"List people with resolved parents")
	getPeopleLong = i18n.T("root.products.people.getPeopleLong",
		`Use the get verb with the people command to fetch the genealogy records once
and print them sorted, filtered and with the selected person marked.`)
	getPeopleExample = normalizers.Examples(i18n.T("root.products.people.getPeopleExample",
		fmt.Sprintf(`
	# List people in the order the endpoint returns them
	%[1]s get people
	# Oldest first, with Anna highlighted
	%[1]s get people --sort born --selected anna-van-hecke-1607
	# Women born in the 17th century, as JSON
	%[1]s get people --sex f --century 17 -o json
	# Names only
	%[1]s get people -o json --jq '.[].name'
	`, meta.CLIName)))
)

type getPeopleCmd struct {
	*cobra.Command
}

func (c *getPeopleCmd) validate(helper cmd.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	settings, err := jq.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return err
	}
	return jq.Validate(outType, settings)
}

func (c *getPeopleCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	return runGet(helper)
}

func runGet(helper cmd.Helper) error {
	link, err := linkFromFlags(helper.GetCmd())
	if err != nil {
		return err
	}

	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	src, err := helper.GetPeopleSource(cfg, logger)
	if err != nil {
		return err
	}

	ctx := helper.GetContext()
	if ctx == nil {
		ctx = context.Background()
	}

	ctrl := loader.New(src, loader.WithLogger(logger))
	if err := ctrl.Load(ctx); err != nil {
		return cmd.PrepareExecutionErrorWithHelper(helper, "failed to retrieve people", err)
	}

	view, err := people.BuildView(ctrl.State().People, link)
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}

	streams := helper.GetStreams()
	printer, err := cli.Format(outType.String(), streams.Out)
	if err != nil {
		return err
	}
	defer printer.Flush()

	return tableview.RenderForFormat(helper,
		outType,
		printer,
		streams,
		tableview.PeopleRows(view),
		view.Rows,
		tableview.PeopleOptions(view)...,
	)
}

func newGetPeopleCmd(
	verb verbs.VerbValue,
	baseCmd *cobra.Command,
	addParentFlags func(verbs.VerbValue, *cobra.Command),
	parentPreRun func(*cobra.Command, []string) error,
) *getPeopleCmd {
	rv := &getPeopleCmd{Command: baseCmd}
	rv.Short = getPeopleShort
	rv.Long = getPeopleLong
	rv.Example = getPeopleExample
	rv.RunE = rv.runE
	rv.PreRunE = func(c *cobra.Command, args []string) error {
		if parentPreRun != nil {
			if err := parentPreRun(c, args); err != nil {
				return err
			}
		}
		return bindFlags(c, args)
	}

	AddSourceFlags(rv.Flags())
	addNavigationFlags(rv.Command)
	addFilterFlags(rv.Command)
	jq.AddFlags(rv.Flags())

	if addParentFlags != nil {
		addParentFlags(verb, rv.Command)
	}

	return rv
}

func bindFlags(c *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(c, args)
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	if err := BindSourceFlags(cfg, c.Flags()); err != nil {
		return err
	}
	return jq.BindFlags(cfg, c.Flags())
}
