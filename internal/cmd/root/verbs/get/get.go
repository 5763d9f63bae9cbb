package get

import (
	"context"
	"fmt"

	"github.com/kinfolk/kinctl/internal/cmd/root/products/people"
	"github.com/kinfolk/kinctl/internal/cmd/root/profile"
	"github.com/kinfolk/kinctl/internal/cmd/root/verbs"
	"github.com/kinfolk/kinctl/internal/meta"
	"github.com/kinfolk/kinctl/internal/util/i18n"
	"github.com/kinfolk/kinctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Get
)

var (
	getUse = Verb.String()

	getShort = i18n.T("root.verbs.get.getShort", "Retrieve objects")

	getLong = normalizers.LongDesc(i18n.T("root.verbs.get.getLong",
		`Use get to retrieve a list of objects.

Further sub-commands determine which resource is fetched.
Output can be formatted in multiple ways to aid in further processing.`))

	getExamples = normalizers.Examples(i18n.T("root.verbs.get.getExamples",
		fmt.Sprintf(`
		# Retrieve people
		%[1]s get people
		# Retrieve people sorted by name, as YAML
		%[1]s get people --sort name -o yaml
		# List configuration profiles
		%[1]s get profiles
		`, meta.CLIName)))
)

func NewGetCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		Aliases: []string{"g", "G"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	c, e := people.NewPeopleCmd(Verb, nil, nil)
	if e != nil {
		return nil, e
	}
	cmd.AddCommand(c)
	cmd.AddCommand(profile.NewProfileCmd())

	return cmd, nil
}
