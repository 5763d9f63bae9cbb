package people

import (
	"strconv"

	"github.com/kinfolk/kinctl/internal/util"
)

// FindByName returns the first person whose name equals name exactly.
// Several people sharing a name are not disambiguated: list order wins.
func FindByName(all []Person, name string) (*Person, bool) {
	for i := range all {
		if all[i].Name == name {
			return &all[i], true
		}
	}
	return nil, false
}

// Resolve returns a parent-annotated copy of all in the same order. The input
// slice is not modified; the returned parents point into a private copy so that
// later changes to all cannot leak into the derived view.
func Resolve(all []Person) []Annotated {
	snapshot := make([]Person, len(all))
	copy(snapshot, all)

	out := make([]Annotated, len(snapshot))
	for i, p := range snapshot {
		out[i] = Annotated{Person: p}
		if name := p.Mother(); name != "" {
			if m, ok := FindByName(snapshot, name); ok {
				out[i].Mother = m
			}
		}
		if name := p.Father(); name != "" {
			if f, ok := FindByName(snapshot, name); ok {
				out[i].Father = f
			}
		}
	}
	return out
}

// EnsureSlugs fills in missing slugs in place from the name and birth year,
// the way the people endpoint derives them.
func EnsureSlugs(all []Person) {
	for i := range all {
		if all[i].Slug != "" {
			continue
		}
		parts := []string{all[i].Name}
		if all[i].Born > 0 {
			parts = append(parts, strconv.Itoa(all[i].Born))
		}
		all[i].Slug = util.GenerateSlug(parts...)
	}
}
