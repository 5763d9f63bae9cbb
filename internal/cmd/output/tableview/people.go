package tableview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kinfolk/kinctl/internal/iostreams"
	"github.com/kinfolk/kinctl/internal/log"
	"github.com/kinfolk/kinctl/internal/people"
	"github.com/kinfolk/kinctl/internal/people/loader"
	"github.com/kinfolk/kinctl/internal/theme"
)

const (
	peopleTitle      = "People"
	loadingMessage   = "Loading people..."
	loadErrorMessage = "Something went wrong"
	selectedMarker   = "● "
)

// PeopleHeaders returns the people table headers with the sort glyph of each
// sortable column as link would render it.
func PeopleHeaders(link people.Link) []string {
	headers := []string{"Name", "Sex", "Born", "Died", "Mother", "Father"}
	for i, col := range people.SortableColumns {
		headers[i] = col.Title() + " " + link.Indicator(col).Glyph()
	}
	return headers
}

// RenderPeople writes the static people table for view. The table is only
// drawn when the fetched collection holds more than one person.
func RenderPeople(out io.Writer, view people.View, opts ...Option) error {
	rows := PeopleRows(view)
	if view.Total <= 1 || len(rows) == 0 {
		cfg := config{highlighted: -1}
		for _, opt := range opts {
			opt(&cfg)
		}
		if len(rows) == 0 {
			return writeStaticMessage(out, cfg.title, NoDataMessage)
		}
		_, err := fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left,
			nonEmpty(cfg.title, rows[0].Name+" is the only match.")...))
		return err
	}

	return Render(out, rows, append(PeopleOptions(view), opts...)...)
}

// PeopleOptions returns the table options that render view with sort glyphs
// in the headers and the selected person highlighted.
func PeopleOptions(view people.View) []Option {
	highlighted := -1
	for i := range view.Rows {
		if view.Selected(i) {
			highlighted = i
			break
		}
	}
	return []Option{
		WithHeaders(PeopleHeaders(view.Link)),
		WithHighlightedRow(highlighted),
	}
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// PeopleRows flattens view for text output, marking the selected person.
func PeopleRows(view people.View) []people.Row {
	rows := people.ToRows(view.Rows)
	for i := range rows {
		if view.Selected(i) {
			rows[i].Name = selectedMarker + rows[i].Name
		}
	}
	return rows
}

type peopleKeyMap struct {
	Sort   []key.Binding
	Select key.Binding
	Clear  key.Binding
	Copy   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func newPeopleKeyMap() peopleKeyMap {
	km := peopleKeyMap{
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for i, col := range people.SortableColumns {
		digit := fmt.Sprint(i + 1)
		km.Sort = append(km.Sort, key.NewBinding(
			key.WithKeys(digit, col.String()[:1]),
			key.WithHelp(digit, "sort "+col.String()),
		))
	}
	return km
}

func (km peopleKeyMap) help() string {
	parts := []string{"1-4 sort"}
	for _, b := range []key.Binding{km.Select, km.Clear, km.Copy, km.Reload, km.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

type loadedMsg struct {
	err error
}

// changedMsg reports that the controller state moved on outside the model.
type changedMsg struct{}

// ChangeListener returns a loader.Listener that signals changed without
// blocking. Pair it with WithChanges on the model that renders the controller.
func ChangeListener(changed chan<- struct{}) loader.Listener {
	return func(loader.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
}

// ModelOption configures a PeopleModel.
type ModelOption func(*PeopleModel)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) ModelOption {
	return func(m *PeopleModel) {
		m.copy = write
	}
}

// WithChanges re-renders the model from the controller whenever changed fires.
func WithChanges(changed <-chan struct{}) ModelOption {
	return func(m *PeopleModel) {
		m.changed = changed
	}
}

// WithModelLogger sets the logger used for load failures.
func WithModelLogger(logger *slog.Logger) ModelOption {
	return func(m *PeopleModel) {
		m.logger = logger
	}
}

// PeopleModel is the interactive people browser. It fetches through a
// loader.Controller and derives the visible rows from its link on every change.
type PeopleModel struct {
	ctx     context.Context
	ctrl    *loader.Controller
	changed <-chan struct{}
	logger  *slog.Logger
	copy    func(string) error
	palette theme.Palette
	keys    peopleKeyMap

	link    people.Link
	state   loader.State
	rows    []people.Annotated
	status  string
	table   table.Model
	styles  table.Styles
	spinner spinner.Model
	width   int
}

// NewPeopleModel returns a browser starting at link.
func NewPeopleModel(ctx context.Context, ctrl *loader.Controller, link people.Link, opts ...ModelOption) *PeopleModel {
	if ctx == nil {
		ctx = context.Background()
	}
	palette := theme.FromContext(ctx)

	keyMap := table.DefaultKeyMap()
	keyMap.LineUp = key.NewBinding(
		key.WithKeys("up", "k", "ctrl+p"),
		key.WithHelp("↑/k/ctrl+p", "up"),
	)
	keyMap.LineDown = key.NewBinding(
		key.WithKeys("down", "j", "ctrl+j"),
		key.WithHelp("↓/j/ctrl+j", "down"),
	)

	m := &PeopleModel{
		ctx:     ctx,
		ctrl:    ctrl,
		logger:  log.Discard(),
		copy:    clipboard.WriteAll,
		palette: palette,
		keys:    newPeopleKeyMap(),
		link:    link,
		state:   ctrl.State(),
		table: table.New(
			table.WithFocused(true),
			table.WithKeyMap(keyMap),
			table.WithStyles(newTableStyles(palette)),
		),
		spinner: newSpinnerModel(palette),
		width:   120,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.rebuild()
	return m
}

func newSpinnerModel(p theme.Palette) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = p.ForegroundStyle(theme.ColorPrimary)
	return s
}

// Link returns the current navigation state.
func (m *PeopleModel) Link() people.Link {
	return m.link
}

// State returns the last observed load state.
func (m *PeopleModel) State() loader.State {
	return m.state
}

func (m *PeopleModel) Init() tea.Cmd {
	return tea.Batch(m.startLoad(), m.waitForChange())
}

// startLoad mirrors the controller's transition into a load: the failure
// flag drops and the loading flag rises before the fetch runs.
func (m *PeopleModel) startLoad() tea.Cmd {
	if m.state.Loading {
		return nil
	}
	m.state.Failed = false
	m.state.Loading = true
	m.status = ""
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m *PeopleModel) fetch() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(ctx)}
	}
}

func (m *PeopleModel) waitForChange() tea.Cmd {
	if m.changed == nil {
		return nil
	}
	ctx, changed := m.ctx, m.changed
	return func() tea.Msg {
		select {
		case <-changed:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *PeopleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.state = m.ctrl.State()
		if msg.err != nil {
			m.logger.Debug("people load failed", slog.Any("error", msg.err))
		}
		m.rebuild()
		return m, nil
	case changedMsg:
		m.state = m.ctrl.State()
		m.rebuild()
		return m, m.waitForChange()
	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(max(msg.Height-8, 3))
		m.rebuild()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *PeopleModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for i, binding := range m.keys.Sort {
		if key.Matches(msg, binding) {
			m.navigate(m.link.HeaderLink(people.SortableColumns[i]))
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Select):
		idx := m.table.Cursor()
		if idx >= 0 && idx < len(m.rows) {
			m.navigate(m.link.PersonLink(m.rows[idx].Slug))
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.navigate(m.link.PersonLink(""))
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		link := m.link.String()
		if err := m.copy(link); err != nil {
			m.status = "Clipboard unavailable: " + err.Error()
		} else {
			m.status = "Copied " + link
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.startLoad()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.syncStyles()
	return m, cmd
}

func (m *PeopleModel) navigate(link people.Link) {
	m.link = link
	m.status = ""
	m.rebuild()
}

func (m *PeopleModel) rebuild() {
	view, err := people.BuildView(m.state.People, m.link)
	if err != nil {
		m.rows = nil
		m.status = err.Error()
		return
	}
	m.rows = view.Rows

	cells := PeopleRows(view)
	headers := PeopleHeaders(m.link)
	matrix := make([][]string, len(cells))
	for i, c := range cells {
		matrix[i] = []string{c.Name, c.Sex, c.Born, c.Died, c.Mother, c.Father}
	}

	frameWidth, _ := newTableBoxStyle(m.palette).GetFrameSize()
	padding := lipgloss.Width(newTableStyles(m.palette).Cell.Render(""))
	widths, _ := calculateColumnWidths(headers, matrix, m.width-frameWidth-padding*len(headers))

	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		columns[i] = table.Column{Title: h, Width: widths[i]}
	}
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(convertRows(matrix, len(headers)))
	m.table.SetWidth(sum(widths) + padding*len(widths))

	cursor := 0
	for i := range view.Rows {
		if view.Selected(i) {
			cursor = i
			break
		}
	}
	m.table.SetCursor(cursor)
	m.syncStyles()
}

func (m *PeopleModel) selectedIndex() int {
	for i, row := range m.rows {
		if people.IsSelected(m.link.Selected, row.Slug) {
			return i
		}
	}
	return -1
}

// syncStyles highlights the cursor with the selection colors while it rests on
// the selected person.
func (m *PeopleModel) syncStyles() {
	styles := newTableStyles(m.palette)
	if idx := m.selectedIndex(); idx >= 0 && idx == m.table.Cursor() {
		styles.Selected = newHighlightStyle(styles.Cell, m.palette)
	}
	m.styles = styles
	m.table.SetStyles(styles)
}

func (m *PeopleModel) View() string {
	sections := []string{m.palette.ForegroundStyle(theme.ColorPrimary).Bold(true).Render(peopleTitle)}

	if m.state.Loading {
		sections = append(sections, m.spinner.View()+" "+loadingMessage)
	}
	if m.state.Failed {
		sections = append(sections, m.palette.ForegroundStyle(theme.ColorDanger).Render(loadErrorMessage))
	}
	if len(m.state.People) > 1 {
		sections = append(sections, borderedTableView(newTableBoxStyle(m.palette), m.table.View(), m.styles.Selected))
	}

	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)
	if m.status != "" {
		sections = append(sections, muted.Render(ansi.Truncate(m.status, m.width, "…")))
	}
	sections = append(sections,
		muted.Render(ansi.Truncate(m.keys.help(), m.width, "…")),
		muted.Render(ansi.Truncate("link: "+m.link.String(), m.width, "…")),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RunPeople starts the interactive browser on streams and blocks until the
// user quits or ctx is canceled.
func RunPeople(ctx context.Context, streams *iostreams.IOStreams, model *PeopleModel) error {
	// stderr belongs to the alt screen until the program exits
	log.DisableErrorMirroring()
	defer log.EnableErrorMirroring()

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
