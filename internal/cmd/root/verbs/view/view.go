package view

import (
	"context"
	"fmt"

	"github.com/kinfolk/kinctl/internal/cmd/root/products/people"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs"
	"github.com/kinfolk/kinctl/internal/meta"
	"github.com/kinfolk/kinctl/internal/util/i18n"
	"github.com/kinfolk/kinctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.View
)

var (
	viewUse = Verb.String()

	viewShort = i18n.T("root.verbs.view.viewShort", "Launch an interactive viewer")

	viewLong = normalizers.LongDesc(i18n.T("root.verbs.view.viewLong",
		`Open an interactive view into a resource. Without a resource the people
viewer starts.`))

	viewExamples = normalizers.Examples(i18n.T("root.verbs.view.viewExamples",
		fmt.Sprintf(`
		# Launch the people viewer
		%[1]s view
		# Same, spelled out
		%[1]s view people
		`, meta.CLIName)))
)

// NewViewCmd creates the view command. Run on its own it behaves as view people.
func NewViewCmd() (*cobra.Command, error) {
	peopleCmd, err := people.NewPeopleCmd(Verb, nil, nil)
	if err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:     viewUse,
		Short:   viewShort,
		Long:    viewLong,
		Example: viewExamples,
		Aliases: []string{"v", "V"},
		Args:    verbs.NoPositionalArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
		PreRunE: peopleCmd.PreRunE,
		RunE:    peopleCmd.RunE,
	}
	cmd.Flags().AddFlagSet(peopleCmd.Flags())
	cmd.AddCommand(peopleCmd)

	return cmd, nil
}
