package people

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Query parameter names used by deep links.
const (
	ParamSort      = "sort"
	ParamOrder     = "order"
	ParamQuery     = "query"
	ParamSex       = "sex"
	ParamCenturies = "centuries"
)

// Filter narrows the rows shown in the table. The zero value keeps everything.
type Filter struct {
	// Query matches case-insensitively against the person, mother and father names.
	Query string
	// Sex keeps only people with this code when set.
	Sex string
	// Centuries keeps only people born in one of these centuries when set.
	Centuries []int
}

// ParseFilter reads filter values from deep link query parameters.
func ParseFilter(values url.Values) (Filter, error) {
	f := Filter{
		Query: strings.TrimSpace(values.Get(ParamQuery)),
		Sex:   strings.ToLower(strings.TrimSpace(values.Get(ParamSex))),
	}
	switch f.Sex {
	case "", SexMale, SexFemale:
	default:
		return Filter{}, fmt.Errorf("invalid sex %q, must be one of [%s %s]", f.Sex, SexMale, SexFemale)
	}
	for _, raw := range values[ParamCenturies] {
		c, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || c <= 0 {
			return Filter{}, fmt.Errorf("invalid century %q", raw)
		}
		if !slices.Contains(f.Centuries, c) {
			f.Centuries = append(f.Centuries, c)
		}
	}
	slices.Sort(f.Centuries)
	return f, nil
}

// Empty reports whether the filter keeps every row.
func (f Filter) Empty() bool {
	return f.Query == "" && f.Sex == "" && len(f.Centuries) == 0
}

// Matches reports whether a single person passes the filter.
func (f Filter) Matches(p Person) bool {
	if f.Sex != "" && p.Sex != f.Sex {
		return false
	}
	if len(f.Centuries) > 0 && !slices.Contains(f.Centuries, p.Century()) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Mother()), q) ||
			strings.Contains(strings.ToLower(p.Father()), q)
	}
	return true
}

// Apply returns the rows that match, keeping their order.
func (f Filter) Apply(rows []Annotated) []Annotated {
	out := make([]Annotated, 0, len(rows))
	for _, r := range rows {
		if f.Matches(r.Person) {
			out = append(out, r)
		}
	}
	return out
}

// encode appends the filter parameters to values.
func (f Filter) encode(values url.Values) {
	if f.Query != "" {
		values.Set(ParamQuery, f.Query)
	}
	if f.Sex != "" {
		values.Set(ParamSex, f.Sex)
	}
	for _, c := range f.Centuries {
		values.Add(ParamCenturies, strconv.Itoa(c))
	}
}
