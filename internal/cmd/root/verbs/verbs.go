package verbs

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	Get   = VerbValue("get")
	View  = VerbValue("view")
	Serve = VerbValue("serve")
)

// Empty type to represent the _type_ Verb. Genesis is to support a key in a Context
type VerbKey struct{}

// Verb is a global instance of the VerbKey type
var Verb = VerbKey{}

// Will represent a specific Verb (get, view, serve)
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}

// NoPositionalArgs rejects positional arguments. Selection and sorting are
// given through flags.
func NoPositionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q for %q: use --selected to pick a person", args[0], cmd.CommandPath())
	}
	return nil
}
