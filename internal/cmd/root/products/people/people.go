package people

import (
	"context"
	"fmt"

	"github.com/kinfolk/kinctl/internal/cmd/root/products"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs"
	"github.com/kinfolk/kinctl/internal/meta"
	"github.com/kinfolk/kinctl/internal/util/i18n"
	"github.com/kinfolk/kinctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	CommandName = "people"
)

var (
	peopleUse = CommandName

	peopleShort = i18n.T("root.products.people.peopleShort", "Work with the genealogy people records")

	peopleLong = normalizers.LongDesc(i18n.T("root.products.people.peopleLong",
		`The people command reads the genealogy records served by the people endpoint
and shows them as a sortable table with resolved parents.`))

	peopleExample = normalizers.Examples(i18n.T("root.products.people.peopleExample",
		fmt.Sprintf(`
	# List people
	%[1]s get people
	# Browse people interactively
	%[1]s view people
	`, meta.CLIName)))
)

// NewPeopleCmd builds the people resource command for verb.
func NewPeopleCmd(
	verb verbs.VerbValue,
	addParentFlags func(verbs.VerbValue, *cobra.Command),
	parentPreRun func(*cobra.Command, []string) error,
) (*cobra.Command, error) {
	baseCmd := cobra.Command{
		Use:     peopleUse,
		Short:   peopleShort,
		Long:    peopleLong,
		Example: peopleExample,
		Aliases: []string{"person", "p"},
		Args:    verbs.NoPositionalArgs,
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			c.SetContext(context.WithValue(c.Context(), products.Product, products.People))
		},
	}

	switch verb {
	case verbs.Get:
		return newGetPeopleCmd(verb, &baseCmd, addParentFlags, parentPreRun).Command, nil
	case verbs.View:
		return newViewPeopleCmd(verb, &baseCmd, addParentFlags, parentPreRun).Command, nil
	case verbs.Serve:
		return nil, fmt.Errorf("the %s command does not support the %s verb", CommandName, verb)
	}
	return &baseCmd, nil
}
