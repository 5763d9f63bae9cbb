package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/ajg/form"

	"github.com/kinfolk/kinctl/internal/log"
	"github.com/kinfolk/kinctl/internal/people"
	"github.com/kinfolk/kinctl/internal/people/loader"
)

const pageTitle = "People Page"

// FilterCenturies are the centuries offered by the filter form.
var FilterCenturies = []int{16, 17, 18, 19, 20}

type pageQuery struct {
	Sort  string `form:"sort"`
	Order string `form:"order"`
}

type headerCell struct {
	Title string
	Href  string
	Icon  string
}

type linkCell struct {
	Text   string
	Href   string
	Female bool
}

type personRow struct {
	Slug     string
	Person   linkCell
	Sex      string
	Born     int
	Died     int
	Mother   linkCell
	Father   linkCell
	Selected bool
}

type centuryOption struct {
	Value   int
	Checked bool
}

type pageData struct {
	Title     string
	RequestID string
	Failed    bool
	ShowTable bool
	Headers   []headerCell
	Rows      []personRow
	Total     int
	Action    string
	Sort      string
	Order     string
	Query     string
	Sex       string
	Centuries []centuryOption
}

func decodeLink(r *http.Request) (people.Link, error) {
	values := r.URL.Query()

	var q pageQuery
	dec := form.NewDecoder(nil)
	dec.IgnoreUnknownKeys(true)
	if err := dec.DecodeValues(&q, values); err != nil {
		return people.Link{}, fmt.Errorf("invalid query: %w", err)
	}

	state, err := people.ParseSortState(q.Sort, q.Order)
	if err != nil {
		return people.Link{}, err
	}
	filter, err := people.ParseFilter(values)
	if err != nil {
		return people.Link{}, err
	}

	return people.Link{
		BasePath: people.PathPrefix,
		Selected: people.SelectedSlug(r.URL.EscapedPath(), people.PathPrefix),
		Sort:     state,
		Filter:   filter,
	}, nil
}

func (s *Server) peoplePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	link, err := decodeLink(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctrl := loader.New(s.src, loader.WithLogger(s.logger))
	if err := ctrl.Load(ctx); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "people fetch failed", slog.String("error", err.Error()))
	}
	state := ctrl.State()

	view, err := people.BuildView(state.People, link)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := newPageData(state, view)
	data.RequestID = log.RequestLogContextFromContext(ctx).RequestID

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to render people page", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if state.Failed {
		w.WriteHeader(http.StatusBadGateway)
	}
	_, _ = buf.WriteTo(w)
}

func newPageData(state loader.State, view people.View) pageData {
	link := view.Link
	data := pageData{
		Title:     pageTitle,
		Failed:    state.Failed,
		ShowTable: view.Total > 1,
		Total:     view.Total,
		Action:    people.PathPrefix,
		Query:     link.Filter.Query,
		Sex:       link.Filter.Sex,
	}
	if link.Selected != "" {
		data.Action = people.PathPrefix + "/" + link.Selected
	}
	if link.Sort.Active() {
		data.Sort = link.Sort.Column.String()
		if link.Sort.Order == people.OrderDesc {
			data.Order = people.OrderDesc.String()
		}
	}
	for _, c := range FilterCenturies {
		data.Centuries = append(data.Centuries, centuryOption{
			Value:   c,
			Checked: slices.Contains(link.Filter.Centuries, c),
		})
	}

	for _, col := range people.SortableColumns {
		data.Headers = append(data.Headers, headerCell{
			Title: col.Title(),
			Href:  link.HeaderLink(col).String(),
			Icon:  link.Indicator(col).IconClass(),
		})
	}

	for i, row := range view.Rows {
		data.Rows = append(data.Rows, personRow{
			Slug:     row.Slug,
			Person:   personLink(link, &row.Person),
			Sex:      row.Sex,
			Born:     row.Born,
			Died:     row.Died,
			Mother:   parentLink(link, row.MotherCell()),
			Father:   parentLink(link, row.FatherCell()),
			Selected: view.Selected(i),
		})
	}
	return data
}

func personLink(link people.Link, p *people.Person) linkCell {
	return linkCell{
		Text:   p.Name,
		Href:   link.PersonLink(p.Slug).String(),
		Female: p.Sex == people.SexFemale,
	}
}

func parentLink(link people.Link, cell people.ParentCell) linkCell {
	if !cell.Linked() {
		return linkCell{Text: cell.Text}
	}
	return personLink(link, cell.Person)
}
