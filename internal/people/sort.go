package people

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Column identifies a sortable column of the people table.
type Column int

const (
	ColumnNone Column = iota
	ColumnName
	ColumnSex
	ColumnBorn
	ColumnDied
)

// SortableColumns lists the columns a user can sort on, in display order.
var SortableColumns = []Column{ColumnName, ColumnSex, ColumnBorn, ColumnDied}

func (c Column) String() string {
	switch c {
	case ColumnNone:
		return "none"
	case ColumnName:
		return "name"
	case ColumnSex:
		return "sex"
	case ColumnBorn:
		return "born"
	case ColumnDied:
		return "died"
	}
	return fmt.Sprintf("column(%d)", int(c))
}

// Title is the column header text.
func (c Column) Title() string {
	s := c.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseColumn converts a deep link value into a Column.
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ColumnNone, nil
	case "name":
		return ColumnName, nil
	case "sex":
		return ColumnSex, nil
	case "born":
		return ColumnBorn, nil
	case "died":
		return ColumnDied, nil
	default:
		return ColumnNone, fmt.Errorf("invalid sort column %q, must be one of %v", s, SortableColumns)
	}
}

// Order is the direction a column is sorted in.
type Order int

const (
	OrderNone Order = iota
	OrderAsc
	OrderDesc
)

func (o Order) String() string {
	switch o {
	case OrderNone:
		return "none"
	case OrderAsc:
		return "asc"
	case OrderDesc:
		return "desc"
	}
	return fmt.Sprintf("order(%d)", int(o))
}

// ParseOrder converts a deep link value into an Order. An empty value means
// ascending because ascending links carry no order parameter.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return OrderAsc, nil
	case "desc":
		return OrderDesc, nil
	default:
		return OrderNone, fmt.Errorf("invalid sort order %q, must be one of [asc desc]", s)
	}
}

// SortState is the active (column, direction) pair.
type SortState struct {
	Column Column
	Order  Order
}

// ParseSortState reads the sort and order query values of a deep link.
func ParseSortState(sortValue, orderValue string) (SortState, error) {
	col, err := ParseColumn(sortValue)
	if err != nil {
		return SortState{}, err
	}
	if col == ColumnNone {
		return SortState{}, nil
	}
	order, err := ParseOrder(orderValue)
	if err != nil {
		return SortState{}, err
	}
	return SortState{Column: col, Order: order}, nil
}

// Active reports whether the state reorders rows.
func (s SortState) Active() bool {
	return s.Column != ColumnNone && s.Order != OrderNone
}

// Next returns the state after the user activates column. The direction
// cycles none, asc, desc, none on the same column and restarts at asc when
// the column changes.
// Columns and orders only come from ParseSortState or the enum constants, so
// an unknown value panics.
func (s SortState) Next(column Column) SortState {
	switch column {
	case ColumnNone:
		return SortState{}
	case ColumnName, ColumnSex, ColumnBorn, ColumnDied:
	default:
		panic(fmt.Sprintf("unknown sort column %s", column))
	}
	if column != s.Column {
		return SortState{Column: column, Order: OrderAsc}
	}
	switch s.Order {
	case OrderNone:
		return SortState{Column: column, Order: OrderAsc}
	case OrderAsc:
		return SortState{Column: column, Order: OrderDesc}
	case OrderDesc:
		return SortState{Column: column, Order: OrderNone}
	}
	panic(fmt.Sprintf("unknown sort order %s", s.Order))
}

// OrderOf returns the direction shown on the header of column.
func (s SortState) OrderOf(column Column) Order {
	if column == s.Column {
		return s.Order
	}
	return OrderNone
}

// Sort returns rows ordered by state. Ties keep their relative input order
// and the input slice is never reordered. With an inactive state the result
// is a copy in input order.
func Sort(rows []Annotated, state SortState) ([]Annotated, error) {
	out := slices.Clone(rows)
	if out == nil {
		out = []Annotated{}
	}
	if !state.Active() {
		return out, nil
	}

	compare, err := comparator(state.Column)
	if err != nil {
		return nil, err
	}

	switch state.Order {
	case OrderAsc:
		slices.SortStableFunc(out, compare)
	case OrderDesc:
		slices.SortStableFunc(out, func(a, b Annotated) int { return compare(b, a) })
	case OrderNone:
	default:
		return nil, fmt.Errorf("unknown sort order %s", state.Order)
	}
	return out, nil
}

func comparator(column Column) (func(a, b Annotated) int, error) {
	switch column {
	case ColumnName:
		c := collate.New(language.English)
		return func(a, b Annotated) int { return c.CompareString(a.Name, b.Name) }, nil
	case ColumnSex:
		c := collate.New(language.English)
		return func(a, b Annotated) int { return c.CompareString(a.Sex, b.Sex) }, nil
	case ColumnBorn:
		return func(a, b Annotated) int { return cmp.Compare(a.Born, b.Born) }, nil
	case ColumnDied:
		return func(a, b Annotated) int { return cmp.Compare(a.Died, b.Died) }, nil
	case ColumnNone:
		return nil, fmt.Errorf("column %s is not sortable", column)
	}
	return nil, fmt.Errorf("unknown sort column %s", column)
}
