package people

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kinfolk/kinctl/internal/cmd"
	"github.com/kinfolk/kinctl/internal/cmd/common"
	"github.com/kinfolk/kinctl/internal/config"
	"github.com/kinfolk/kinctl/internal/people"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	SortFlagName     = "sort"
	OrderFlagName    = "order"
	SelectedFlagName = "selected"
	QueryFlagName    = "query"
	SexFlagName      = "sex"
	CenturyFlagName  = "century"
)

// AddSourceFlags registers the flags that locate the people endpoint.
func AddSourceFlags(flags *pflag.FlagSet) {
	flags.String(common.PeopleURLFlagName, "",
		fmt.Sprintf(`URL of the people endpoint, or a path to a local JSON or YAML file.
- Config path: [ %s ]`,
			common.PeopleURLConfigPath))

	flags.String(common.PeopleTimeoutFlagName, common.DefaultPeopleTimeout,
		fmt.Sprintf(`Maximum time to wait for the people endpoint.
- Config path: [ %s ]`,
			common.PeopleTimeoutConfigPath))
}

// BindSourceFlags binds the source flags of flags to their config paths.
func BindSourceFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	bindings := []struct{ flag, cfgPath string }{
		{common.PeopleURLFlagName, common.PeopleURLConfigPath},
		{common.PeopleTimeoutFlagName, common.PeopleTimeoutConfigPath},
	}
	for _, b := range bindings {
		f := flags.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := cfg.BindFlag(b.cfgPath, f); err != nil {
			return err
		}
	}
	return nil
}

func addNavigationFlags(c *cobra.Command) {
	columns := []string{""}
	for _, col := range people.SortableColumns {
		columns = append(columns, col.String())
	}
	c.Flags().Var(cmd.NewEnum(columns, ""), SortFlagName,
		fmt.Sprintf(`Column to sort by.
- Allowed    : [ %s ]`, strings.Join(columns[1:], "|")))

	orders := []string{people.OrderAsc.String(), people.OrderDesc.String()}
	c.Flags().Var(cmd.NewEnum(orders, people.OrderAsc.String()), OrderFlagName,
		fmt.Sprintf(`Sort direction, used together with --%s.
- Allowed    : [ %s ]`, SortFlagName, strings.Join(orders, "|")))

	c.Flags().String(SelectedFlagName, "",
		fmt.Sprintf("Person to highlight, as a slug or a %[1]s/<slug> path, e.g. anna-van-hecke-1607.",
			people.PathPrefix))
}

func addFilterFlags(c *cobra.Command) {
	c.Flags().String(QueryFlagName, "",
		"Only show people whose name, mother or father contains the text (case-insensitive).")
	c.Flags().String(SexFlagName, "",
		fmt.Sprintf("Only show people of the given sex (%s|%s).", people.SexMale, people.SexFemale))
	c.Flags().IntSlice(CenturyFlagName, nil,
		"Only show people born in the given centuries, e.g. --century 17,18.")
}

// linkFromFlags builds the navigation state requested on the command line.
func linkFromFlags(c *cobra.Command) (people.Link, error) {
	flags := c.Flags()
	link := people.Link{BasePath: people.PathPrefix}

	var sortValue, orderValue string
	if f := flags.Lookup(SortFlagName); f != nil {
		sortValue = f.Value.String()
	}
	if f := flags.Lookup(OrderFlagName); f != nil {
		orderValue = f.Value.String()
	}
	state, err := people.ParseSortState(sortValue, orderValue)
	if err != nil {
		return people.Link{}, &cmd.ConfigurationError{Err: err}
	}
	link.Sort = state

	if f := flags.Lookup(SelectedFlagName); f != nil {
		selected, err := selectedSlug(f.Value.String())
		if err != nil {
			return people.Link{}, &cmd.ConfigurationError{Err: err}
		}
		link.Selected = selected
	}

	if flags.Lookup(QueryFlagName) == nil {
		return link, nil
	}

	values := url.Values{}
	if q, _ := flags.GetString(QueryFlagName); q != "" {
		values.Set(people.ParamQuery, q)
	}
	if s, _ := flags.GetString(SexFlagName); s != "" {
		values.Set(people.ParamSex, s)
	}
	centuries, err := flags.GetIntSlice(CenturyFlagName)
	if err != nil {
		return people.Link{}, &cmd.ConfigurationError{Err: err}
	}
	for _, century := range centuries {
		values.Add(people.ParamCenturies, strconv.Itoa(century))
	}

	filter, err := people.ParseFilter(values)
	if err != nil {
		return people.Link{}, &cmd.ConfigurationError{Err: err}
	}
	link.Filter = filter
	return link, nil
}

// selectedSlug accepts a bare slug or a navigation path under the people prefix.
func selectedSlug(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "/") {
		return value, nil
	}
	if slug := people.SelectedSlug(value, people.PathPrefix); slug != "" {
		return slug, nil
	}
	if strings.TrimSuffix(value, "/") == people.PathPrefix {
		return "", nil
	}
	return "", fmt.Errorf("invalid --%s %q, expected a slug or %s/<slug>", SelectedFlagName, value, people.PathPrefix)
}
