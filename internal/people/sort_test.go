package people

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func names(rows []Annotated) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func sampleFamily() []Person {
	return []Person{
		{Slug: "bob-1900", Name: "Bob", Sex: "m", Born: 1900, Died: 1950},
		{Slug: "ann-1890", Name: "Ann", Sex: "f", Born: 1890, Died: 1960},
	}
}

func TestSortStateNextCyclesPerColumn(t *testing.T) {
	var s SortState

	s = s.Next(ColumnName)
	require.Equal(t, SortState{Column: ColumnName, Order: OrderAsc}, s)
	s = s.Next(ColumnName)
	require.Equal(t, SortState{Column: ColumnName, Order: OrderDesc}, s)
	s = s.Next(ColumnName)
	require.Equal(t, SortState{Column: ColumnName, Order: OrderNone}, s)
	require.False(t, s.Active())
	s = s.Next(ColumnName)
	require.Equal(t, SortState{Column: ColumnName, Order: OrderAsc}, s)
}

func TestSortStateNextPanicsOnUnknownValues(t *testing.T) {
	require.Panics(t, func() { SortState{}.Next(Column(42)) })
	require.Panics(t, func() {
		SortState{Column: ColumnBorn, Order: Order(7)}.Next(ColumnBorn)
	})
}

func TestSortStateNextResetsOnColumnChange(t *testing.T) {
	s := SortState{Column: ColumnName, Order: OrderDesc}
	require.Equal(t, SortState{Column: ColumnBorn, Order: OrderAsc}, s.Next(ColumnBorn))
	require.Equal(t, SortState{}, s.Next(ColumnNone))
}

func TestSortScenarioBobAnn(t *testing.T) {
	rows := Resolve(sampleFamily())

	var state SortState
	state = state.Next(ColumnName)
	sorted, err := Sort(rows, state)
	require.NoError(t, err)
	require.Equal(t, []string{"Ann", "Bob"}, names(sorted))

	state = state.Next(ColumnName)
	sorted, err = Sort(rows, state)
	require.NoError(t, err)
	require.Equal(t, []string{"Bob", "Ann"}, names(sorted))

	state = state.Next(ColumnName)
	sorted, err = Sort(rows, state)
	require.NoError(t, err)
	require.Equal(t, []string{"Bob", "Ann"}, names(sorted))
}

func TestSortAscendingIsReverseOfDescending(t *testing.T) {
	all := []Person{
		{Name: "Carl", Sex: "m", Born: 1700, Died: 1760},
		{Name: "anna", Sex: "f", Born: 1650, Died: 1720},
		{Name: "Bert", Sex: "x", Born: 1802, Died: 1801},
		{Name: "Dora", Sex: "g", Born: 1600, Died: 1690},
	}
	rows := Resolve(all)

	for _, col := range SortableColumns {
		t.Run(col.String(), func(t *testing.T) {
			asc, err := Sort(rows, SortState{Column: col, Order: OrderAsc})
			require.NoError(t, err)
			desc, err := Sort(rows, SortState{Column: col, Order: OrderDesc})
			require.NoError(t, err)

			reversed := names(desc)
			slices.Reverse(reversed)
			if diff := cmp.Diff(names(asc), reversed); diff != "" {
				t.Fatalf("descending is not the reverse of ascending (-asc +reversed desc):\n%s", diff)
			}

			none, err := Sort(rows, SortState{Column: col, Order: OrderNone})
			require.NoError(t, err)
			require.Equal(t, names(rows), names(none))
		})
	}
}

func TestSortIsLocaleAware(t *testing.T) {
	rows := Resolve([]Person{{Name: "bob"}, {Name: "Ann"}, {Name: "Émile"}, {Name: "Zed"}})
	sorted, err := Sort(rows, SortState{Column: ColumnName, Order: OrderAsc})
	require.NoError(t, err)
	require.Equal(t, []string{"Ann", "bob", "Émile", "Zed"}, names(sorted))
}

func TestSortIsStable(t *testing.T) {
	all := []Person{
		{Name: "A1", Sex: "m", Born: 1900},
		{Name: "B1", Sex: "f", Born: 1800},
		{Name: "A2", Sex: "m", Born: 1900},
		{Name: "B2", Sex: "f", Born: 1800},
		{Name: "A3", Sex: "m", Born: 1900},
	}
	rows := Resolve(all)

	asc, err := Sort(rows, SortState{Column: ColumnSex, Order: OrderAsc})
	require.NoError(t, err)
	require.Equal(t, []string{"B1", "B2", "A1", "A2", "A3"}, names(asc))

	desc, err := Sort(rows, SortState{Column: ColumnBorn, Order: OrderDesc})
	require.NoError(t, err)
	require.Equal(t, []string{"A1", "A2", "A3", "B1", "B2"}, names(desc))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	rows := Resolve(sampleFamily())
	before := names(rows)

	_, err := Sort(rows, SortState{Column: ColumnName, Order: OrderAsc})
	require.NoError(t, err)
	require.Equal(t, before, names(rows))
}

func TestSortRejectsUnknownColumn(t *testing.T) {
	_, err := Sort(Resolve(sampleFamily()), SortState{Column: Column(42), Order: OrderAsc})
	require.Error(t, err)

	_, err = Sort(Resolve(sampleFamily()), SortState{Column: ColumnName, Order: Order(9)})
	require.Error(t, err)
}

func TestParseSortState(t *testing.T) {
	tests := []struct {
		sort, order string
		want        SortState
		wantErr     bool
	}{
		{sort: "", order: "", want: SortState{}},
		{sort: "", order: "desc", want: SortState{}},
		{sort: "name", order: "", want: SortState{Column: ColumnName, Order: OrderAsc}},
		{sort: "born", order: "desc", want: SortState{Column: ColumnBorn, Order: OrderDesc}},
		{sort: "DIED", order: "asc", want: SortState{Column: ColumnDied, Order: OrderAsc}},
		{sort: "age", wantErr: true},
		{sort: "sex", order: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSortState(tt.sort, tt.order)
		if tt.wantErr {
			require.Error(t, err, "sort=%q order=%q", tt.sort, tt.order)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestColumnTitle(t *testing.T) {
	require.Equal(t, "Name", ColumnName.Title())
	require.Equal(t, "Died", ColumnDied.Title())
}
