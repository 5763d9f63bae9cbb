package people

import (
	"context"
	"fmt"

	"github.com/kinfolk/kinctl/internal/cmd"
	"github.com/kinfolk/kinctl/internal/cmd/output/tableview"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs"
	"github.com/kinfolk/kinctl/internal/meta"
	"github.com/kinfolk/kinctl/internal/people"
	"github.com/kinfolk/kinctl/internal/people/loader"
	"github.com/kinfolk/kinctl/internal/util/i18n"
	"github.com/kinfolk/kinctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const viewTitle = "People"

var (
	viewPeopleShort = i18n.T("root.products.people.viewPeopleShort",
		"Browse people interactively")
	viewPeopleLong = normalizers.LongDesc(i18n.T("root.products.people.viewPeopleLong",
		`Open the interactive people table. Keys 1-4 (or n, s, b, d) cycle the sort
on name, sex, born and died; enter selects the person under the cursor, esc
clears the selection, y copies the deep link, r reloads and q quits.

When the output is not a terminal the table is printed once instead.`))
	viewPeopleExample = normalizers.Examples(i18n.T("root.products.people.viewPeopleExample",
		fmt.Sprintf(`
	# Browse people
	%[1]s view people
	# Start sorted by death year, descending
	%[1]s view people --sort died --order desc
	# Browse an offline copy
	%[1]s view people --people-url ./people.json
	`, meta.CLIName)))
)

type viewPeopleCmd struct {
	*cobra.Command
}

func (c *viewPeopleCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(cobraCmd, args)
	return runView(helper)
}

func runView(helper cmd.Helper) error {
	link, err := linkFromFlags(helper.GetCmd())
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
	streams := helper.GetStreams()

	if helper.IsInteractive() {
		changed := make(chan struct{}, 1)
		ctrl := loader.New(src,
			loader.WithLogger(logger),
			loader.WithListener(tableview.ChangeListener(changed)),
		)
		model := tableview.NewPeopleModel(ctx, ctrl, link,
			tableview.WithModelLogger(logger),
			tableview.WithChanges(changed),
		)
		if err := tableview.RunPeople(ctx, streams, model); err != nil {
			return cmd.PrepareExecutionErrorWithHelper(helper, "people viewer failed", err)
		}
		return nil
	}

	ctrl := loader.New(src, loader.WithLogger(logger))
	if err := ctrl.Load(ctx); err != nil {
		return cmd.PrepareExecutionErrorWithHelper(helper, "failed to retrieve people", err)
	}
	view, err := people.BuildView(ctrl.State().People, link)
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}
	return tableview.RenderPeople(streams.Out, view, tableview.WithTitle(viewTitle))
}

func newViewPeopleCmd(
	verb verbs.VerbValue,
	baseCmd *cobra.Command,
	addParentFlags func(verbs.VerbValue, *cobra.Command),
	parentPreRun func(*cobra.Command, []string) error,
) *viewPeopleCmd {
	rv := &viewPeopleCmd{Command: baseCmd}
	rv.Short = viewPeopleShort
	rv.Long = viewPeopleLong
	rv.Example = viewPeopleExample
	rv.RunE = rv.runE
	rv.PreRunE = func(c *cobra.Command, args []string) error {
		if parentPreRun != nil {
			if err := parentPreRun(c, args); err != nil {
				return err
			}
		}
		helper := cmd.BuildHelper(c, args)
		cfg, err := helper.GetConfig()
		if err != nil {
			return err
		}
		return BindSourceFlags(cfg, c.Flags())
	}

	AddSourceFlags(rv.Flags())
	addNavigationFlags(rv.Command)

	if addParentFlags != nil {
		addParentFlags(verb, rv.Command)
	}

	return rv
}
