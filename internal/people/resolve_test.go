package people

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFindByName(t *testing.T) {
	all := []Person{
		{Slug: "a-1", Name: "A"},
		{Slug: "b-1", Name: "B"},
		{Slug: "a-2", Name: "A"},
	}

	p, ok := FindByName(all, "A")
	require.True(t, ok)
	require.Equal(t, "a-1", p.Slug, "first match in list order wins")

	p, ok = FindByName(all, "Z")
	require.False(t, ok)
	require.Nil(t, p)

	_, ok = FindByName(all, "a")
	require.False(t, ok, "matching is exact")
}

func TestResolveParents(t *testing.T) {
	all := []Person{
		{Slug: "a", Name: "A", Sex: SexFemale},
		{Slug: "c", Name: "C", MotherName: strPtr("A"), FatherName: strPtr("Z")},
		{Slug: "d", Name: "D"},
	}

	rows := Resolve(all)
	require.Len(t, rows, 3)

	child := rows[1]
	require.NotNil(t, child.Mother)
	require.Equal(t, "a", child.Mother.Slug)
	require.Nil(t, child.Father)

	mother := child.MotherCell()
	require.True(t, mother.Linked())
	require.Equal(t, "A", mother.Text)

	father := child.FatherCell()
	require.False(t, father.Linked())
	require.Equal(t, "Z", father.Text)

	orphan := rows[2]
	require.Equal(t, MissingParent, orphan.MotherCell().Text)
	require.Equal(t, MissingParent, orphan.FatherCell().Text)
}

func TestResolveDoesNotAliasInput(t *testing.T) {
	all := []Person{
		{Slug: "a", Name: "A"},
		{Slug: "c", Name: "C", MotherName: strPtr("A")},
	}

	rows := Resolve(all)
	all[0].Name = "changed"

	require.Equal(t, "A", rows[0].Name)
	require.Equal(t, "A", rows[1].Mother.Name)
}

func TestToRow(t *testing.T) {
	all := []Person{
		{Slug: "a", Name: "A", Sex: "f", Born: 1600, Died: 1670},
		{Slug: "c", Name: "C", Sex: "m", Born: 1631, Died: 1676, MotherName: strPtr("A"), FatherName: strPtr("P")},
	}

	rows := ToRows(Resolve(all))
	require.Equal(t, Row{Name: "C", Sex: "m", Born: "1631", Died: "1676", Mother: "A", Father: "P"}, rows[1])
	require.Equal(t, "-", rows[0].Mother)
}

func TestCentury(t *testing.T) {
	require.Equal(t, 17, Person{Born: 1607}.Century())
	require.Equal(t, 17, Person{Born: 1700}.Century())
	require.Equal(t, 18, Person{Born: 1701}.Century())
	require.Equal(t, 0, Person{}.Century())
}

func TestEnsureSlugs(t *testing.T) {
	all := []Person{
		{Name: "Anna van Hecke", Born: 1607},
		{Name: "Kept", Slug: "custom"},
		{Name: "Émile"},
	}
	EnsureSlugs(all)
	require.Equal(t, "anna-van-hecke-1607", all[0].Slug)
	require.Equal(t, "custom", all[1].Slug)
	require.Equal(t, "emile", all[2].Slug)
}
