package people

import (
	"fmt"
	"net/url"
	"strings"
)

// SelectedSlug returns the person slug addressed by path, or "" when path does
// not select a single person under prefix. Only "<prefix>/<slug>" matches.
func SelectedSlug(path, prefix string) string {
	path = strings.TrimPrefix(path, "#")
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	prefix = strings.TrimSuffix(prefix, "/")
	rest, ok := strings.CutPrefix(path, prefix+"/")
	if !ok {
		return ""
	}
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	if slug, err := url.PathUnescape(rest); err == nil {
		return slug
	}
	return rest
}

// IsSelected reports whether the row with rowSlug is the selected one.
// An empty selection matches nothing.
func IsSelected(selectedSlug, rowSlug string) bool {
	return selectedSlug != "" && selectedSlug == rowSlug
}

// Indicator is the sort icon shown on a column header.
type Indicator int

const (
	IndicatorNeutral Indicator = iota
	IndicatorAscending
	IndicatorDescending
)

// IndicatorFor maps a header direction to its icon.
func IndicatorFor(o Order) Indicator {
	switch o {
	case OrderAsc:
		return IndicatorAscending
	case OrderDesc:
		return IndicatorDescending
	case OrderNone:
		return IndicatorNeutral
	}
	panic(fmt.Sprintf("unknown sort order %s", o))
}

// IconClass is the Font Awesome class for the indicator.
func (i Indicator) IconClass() string {
	switch i {
	case IndicatorAscending:
		return "fa-sort-up"
	case IndicatorDescending:
		return "fa-sort-down"
	case IndicatorNeutral:
		return "fa-sort"
	}
	panic(fmt.Sprintf("unknown indicator %d", int(i)))
}

// Glyph is the terminal rendering of the indicator.
func (i Indicator) Glyph() string {
	switch i {
	case IndicatorAscending:
		return "▲"
	case IndicatorDescending:
		return "▼"
	case IndicatorNeutral:
		return "↕"
	}
	panic(fmt.Sprintf("unknown indicator %d", int(i)))
}

// Link is a navigation target in the people table.
type Link struct {
	BasePath string
	Selected string
	Sort     SortState
	Filter   Filter
}

// String renders the link as <base>[/<selected>]?sort=<column>[&order=desc]
// followed by any filter parameters.
func (l Link) String() string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(l.BasePath, "/"))
	if l.Selected != "" {
		b.WriteString("/")
		b.WriteString(url.PathEscape(l.Selected))
	}

	var params []string
	if l.Sort.Active() {
		params = append(params, ParamSort+"="+url.QueryEscape(l.Sort.Column.String()))
		if l.Sort.Order == OrderDesc {
			params = append(params, ParamOrder+"="+OrderDesc.String())
		}
	}
	filter := url.Values{}
	l.Filter.encode(filter)
	if encoded := filter.Encode(); encoded != "" {
		params = append(params, encoded)
	}

	if len(params) > 0 {
		b.WriteString("?")
		b.WriteString(strings.Join(params, "&"))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// HeaderLink returns the link a click on the header of column leads to.
func (l Link) HeaderLink(column Column) Link {
	next := l
	next.Sort = l.Sort.Next(column)
	return next
}

// PersonLink returns the link selecting slug while keeping sort and filter.
func (l Link) PersonLink(slug string) Link {
	next := l
	next.Selected = slug
	return next
}

// Indicator returns the icon for the header of column.
func (l Link) Indicator(column Column) Indicator {
	return IndicatorFor(l.Sort.OrderOf(column))
}
