// Package people holds the genealogy records served by the people endpoint and
// the pure transformations applied to them before display: parent resolution,
// filtering, sorting, selection and deep links.
package people

import "strconv"

// PathPrefix is the navigation prefix under which people are addressed.
const PathPrefix = "/people"

// Sex codes used by the people endpoint.
const (
	SexMale   = "m"
	SexFemale = "f"
)

// Person is a single genealogy record as returned by the people endpoint.
type Person struct {
	Slug       string  `json:"slug" yaml:"slug"`
	Name       string  `json:"name" yaml:"name"`
	Sex        string  `json:"sex" yaml:"sex"`
	Born       int     `json:"born" yaml:"born"`
	Died       int     `json:"died" yaml:"died"`
	MotherName *string `json:"motherName" yaml:"motherName"`
	FatherName *string `json:"fatherName" yaml:"fatherName"`
}

// Mother returns the recorded mother name or an empty string.
func (p Person) Mother() string {
	if p.MotherName == nil {
		return ""
	}
	return *p.MotherName
}

// Father returns the recorded father name or an empty string.
func (p Person) Father() string {
	if p.FatherName == nil {
		return ""
	}
	return *p.FatherName
}

// Century returns the century the person was born in (1601 through 1700 is 17).
func (p Person) Century() int {
	if p.Born <= 0 {
		return 0
	}
	return (p.Born + 99) / 100
}

// Annotated is a Person with its parents resolved against the same collection.
// Mother and Father are nil when the recorded name does not match anyone.
type Annotated struct {
	Person `yaml:",inline"`
	Mother *Person `json:"mother,omitempty" yaml:"mother,omitempty"`
	Father *Person `json:"father,omitempty" yaml:"father,omitempty"`
}

// ParentCell describes how a mother or father column is displayed.
type ParentCell struct {
	// Person is set when the recorded name resolved to a record.
	Person *Person
	// Text is the name to display.
	Text string
}

// Linked reports whether the cell should be rendered as a link.
func (c ParentCell) Linked() bool {
	return c.Person != nil
}

// MissingParent is displayed when no parent name was recorded.
const MissingParent = "-"

// MotherCell returns the display rule for the mother column.
func (a Annotated) MotherCell() ParentCell {
	return parentCell(a.Mother, a.Person.Mother())
}

// FatherCell returns the display rule for the father column.
func (a Annotated) FatherCell() ParentCell {
	return parentCell(a.Father, a.Person.Father())
}

func parentCell(resolved *Person, recorded string) ParentCell {
	switch {
	case resolved != nil:
		return ParentCell{Person: resolved, Text: resolved.Name}
	case recorded != "":
		return ParentCell{Text: recorded}
	default:
		return ParentCell{Text: MissingParent}
	}
}

// Row is the flattened text form of an annotated person used by the terminal
// and text printers.
type Row struct {
	Name   string `table:"Name"`
	Sex    string `table:"Sex"`
	Born   string `table:"Born"`
	Died   string `table:"Died"`
	Mother string `table:"Mother"`
	Father string `table:"Father"`
}

// ToRow flattens an annotated person for text output.
func (a Annotated) ToRow() Row {
	return Row{
		Name:   a.Name,
		Sex:    a.Sex,
		Born:   strconv.Itoa(a.Born),
		Died:   strconv.Itoa(a.Died),
		Mother: a.MotherCell().Text,
		Father: a.FatherCell().Text,
	}
}

// ToRows flattens a slice of annotated people, preserving order.
func ToRows(rows []Annotated) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToRow())
	}
	return out
}
