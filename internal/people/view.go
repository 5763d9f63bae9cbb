package people

// View is the derived, display-ready form of a fetched collection.
type View struct {
	// Rows are the filtered and sorted people with parents resolved.
	Rows []Annotated
	// Link is the navigation state the rows were derived from.
	Link Link
	// Total is the size of the fetched collection before filtering.
	Total int
}

// BuildView derives the rows to display for link from the fetched collection.
// It is recomputed on every render instead of being cached.
func BuildView(all []Person, link Link) (View, error) {
	resolved := Resolve(all)
	filtered := link.Filter.Apply(resolved)
	sorted, err := Sort(filtered, link.Sort)
	if err != nil {
		return View{}, err
	}
	return View{
		Rows:  sorted,
		Link:  link,
		Total: len(all),
	}, nil
}

// Selected reports whether row i is the selected person.
func (v View) Selected(i int) bool {
	if i < 0 || i >= len(v.Rows) {
		return false
	}
	return IsSelected(v.Link.Selected, v.Rows[i].Slug)
}
