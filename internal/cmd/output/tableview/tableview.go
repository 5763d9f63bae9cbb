// Package tableview renders tabular command output: a bordered static table
// for plain terminals and pipes, and the interactive people browser.
package tableview

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	cmdpkg "github.com/kinfolk/kinctl/internal/cmd"
	cmdCommon "github.com/kinfolk/kinctl/internal/cmd/common"
	jqoutput "github.com/kinfolk/kinctl/internal/cmd/output/jq"
	"github.com/kinfolk/kinctl/internal/iostreams"
	"github.com/kinfolk/kinctl/internal/theme"
	"github.com/segmentio/cli"
)

// NoDataMessage is printed instead of an empty table.
const NoDataMessage = "No data to display."

type fdProvider interface {
	Fd() uintptr
}

type config struct {
	title       string
	footer      string
	headers     []string
	highlighted int
	width       int
}

type Option func(*config)

// WithTitle prints title above the table.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// WithFooter prints msg below the table.
func WithFooter(msg string) Option {
	return func(c *config) {
		c.footer = msg
	}
}

// WithHeaders replaces the header titles derived from the row type.
func WithHeaders(headers []string) Option {
	return func(c *config) {
		c.headers = append([]string(nil), headers...)
	}
}

// WithHighlightedRow renders the row at index with the highlight style.
func WithHighlightedRow(index int) Option {
	return func(c *config) {
		c.highlighted = index
	}
}

// WithWidth overrides the detected terminal width.
func WithWidth(width int) Option {
	return func(c *config) {
		c.width = width
	}
}

// Render writes data, a slice of structs, as a bordered table. Columns come
// from exported fields, titled by their `table` tag when present.
func Render(out io.Writer, data any, opts ...Option) error {
	if out == nil {
		return errors.New("tableview: output stream is not available")
	}

	cfg := config{highlighted: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	headers, matrix, err := buildRows(data)
	if err != nil {
		return err
	}
	if len(cfg.headers) == len(headers) {
		headers = cfg.headers
	}
	if len(headers) == 0 || len(matrix) == 0 {
		return writeStaticMessage(out, cfg.title, NoDataMessage)
	}

	termWidth, _, _ := resolveTerminal(out)
	if cfg.width > 0 {
		termWidth = cfg.width
	}

	palette := theme.Current()
	tbl := newTable(headers, matrix, termWidth, palette)
	tbl.SetHeight(len(matrix) + 1)

	styles := newTableStyles(palette)
	if isValidIndex(cfg.highlighted, len(matrix)) {
		styles.Selected = newHighlightStyle(styles.Cell, palette)
		tbl.SetCursor(cfg.highlighted)
	} else {
		styles.Selected = styles.Cell
	}
	tbl.SetStyles(styles)
	tbl.Blur()

	sections := make([]string, 0, 3)
	if cfg.title != "" {
		sections = append(sections, cfg.title)
	}
	sections = append(sections, borderedTableView(newTableBoxStyle(palette), tbl.View(), styles.Selected))
	if cfg.footer != "" {
		sections = append(sections, cfg.footer)
	}

	_, err = fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func newTable(headers []string, matrix [][]string, termWidth int, palette theme.Palette) table.Model {
	styles := newTableStyles(palette)
	paddingWidth := max(
		lipgloss.Width(styles.Header.Render("")),
		lipgloss.Width(styles.Cell.Render("")),
	)

	widthLimit := 0
	if termWidth > 0 {
		frameWidth, _ := newTableBoxStyle(palette).GetFrameSize()
		widthLimit = termWidth - frameWidth - paddingWidth*len(headers)
	}
	colWidths, _ := calculateColumnWidths(headers, matrix, widthLimit)

	columns := make([]table.Column, len(headers))
	for i, header := range headers {
		columns[i] = table.Column{Title: header, Width: colWidths[i]}
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(convertRows(matrix, len(headers))),
		table.WithStyles(styles),
	)
	tbl.SetWidth(sum(colWidths) + paddingWidth*len(colWidths))
	return tbl
}

func newTableStyles(p theme.Palette) table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		BorderForeground(p.Adaptive(theme.ColorBorder)).
		Foreground(p.Adaptive(theme.ColorTextPrimary))
	styles.Cell = styles.Cell.
		Foreground(p.Adaptive(theme.ColorTextPrimary))
	styles.Selected = styles.Selected.
		Foreground(p.Adaptive(theme.ColorPrimaryText)).
		Background(p.Adaptive(theme.ColorPrimary))
	return styles
}

func newHighlightStyle(cell lipgloss.Style, p theme.Palette) lipgloss.Style {
	return cell.
		Foreground(p.Adaptive(theme.ColorWarningText)).
		Background(p.Adaptive(theme.ColorWarning))
}

func newTableBoxStyle(p theme.Palette) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Adaptive(theme.ColorBorder)).
		Padding(0, 1)
}

func borderedTableView(style lipgloss.Style, content string, selected lipgloss.Style) string {
	return style.Render(NormalizeSelectedRow(content, selected))
}

// NormalizeSelectedRow ensures that selected rows emitted by the table component
// keep the highlight active across all columns when wrapped by another style.
func NormalizeSelectedRow(content string, selected lipgloss.Style) string {
	const reset = "\x1b[0m"

	prefix := selectionPrefix(selected, reset)
	if prefix == "" || !strings.Contains(content, prefix) {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.Contains(line, prefix) {
			continue
		}

		count := strings.Count(line, reset)
		if count <= 1 {
			continue
		}

		line = strings.ReplaceAll(line, reset+prefix, reset)
		lines[i] = strings.Replace(line, reset, reset+prefix, count-1)
	}

	return strings.Join(lines, "\n")
}

func selectionPrefix(style lipgloss.Style, reset string) string {
	rendered := style.Render("")
	idx := strings.LastIndex(rendered, reset)
	if idx <= 0 {
		return ""
	}
	return rendered[:idx]
}

func writeStaticMessage(out io.Writer, title, message string) error {
	content := message
	if title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, title, message)
	}
	_, err := fmt.Fprintln(out, content)
	return err
}

func resolveTerminal(out io.Writer) (width int, height int, isTTY bool) {
	const defaultWidth = 120
	const defaultHeight = 24

	width, height = defaultWidth, defaultHeight

	fd, ok := getFD(out)
	if !ok {
		return width, height, false
	}

	isTTY = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	if w, h, err := term.GetSize(int(fd)); err == nil {
		width, height = w, h
	}

	return width, height, isTTY
}

func getFD(w io.Writer) (uintptr, bool) {
	if fp, ok := w.(fdProvider); ok {
		fd := fp.Fd()
		if fd == ^uintptr(0) {
			return 0, false
		}
		return fd, true
	}
	return 0, false
}

func buildRows(data any) ([]string, [][]string, error) {
	if data == nil {
		return nil, nil, errors.New("tableview: nil data provided")
	}

	value := deref(reflect.ValueOf(data))
	switch value.Kind() {
	case reflect.Slice, reflect.Array:
	case reflect.Struct:
		slice := reflect.MakeSlice(reflect.SliceOf(value.Type()), 0, 1)
		value = reflect.Append(slice, value)
	default:
		return nil, nil, fmt.Errorf("tableview: unsupported data kind %s", value.Kind())
	}

	elemType := derefType(value.Type().Elem())
	if elemType.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("tableview: slice element kind %s is unsupported", elemType.Kind())
	}
	meta := extractStructMeta(elemType)

	rows := make([][]string, 0, value.Len())
	for i := 0; i < value.Len(); i++ {
		item := deref(value.Index(i))
		if !item.IsValid() {
			continue
		}
		row := make([]string, len(meta.indices))
		for j, fieldIndex := range meta.indices {
			row[j] = fmt.Sprint(item.Field(fieldIndex).Interface())
		}
		rows = append(rows, row)
	}

	return meta.headers, rows, nil
}

func deref(value reflect.Value) reflect.Value {
	for value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return reflect.Value{}
		}
		value = value.Elem()
	}
	return value
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

type structMeta struct {
	headers []string
	indices []int
}

func extractStructMeta(t reflect.Type) structMeta {
	meta := structMeta{
		headers: make([]string, 0, t.NumField()),
		indices: make([]int, 0, t.NumField()),
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		header := field.Tag.Get("table")
		if header == "-" {
			continue
		}
		if header == "" {
			header = field.Name
		}
		meta.headers = append(meta.headers, header)
		meta.indices = append(meta.indices, i)
	}
	return meta
}

func convertRows(rows [][]string, columnCount int) []table.Row {
	out := make([]table.Row, len(rows))
	for i, row := range rows {
		converted := make(table.Row, columnCount)
		copy(converted, row)
		out[i] = converted
	}
	return out
}

func calculateColumnWidths(headers []string, rows [][]string, widthLimit int) ([]int, []int) {
	const minColumnWidth = 4
	const maxColumnWidth = 40

	widths := make([]int, len(headers))
	minWidths := make([]int, len(headers))
	for i, header := range headers {
		headerWidth := runewidth.StringWidth(header)
		minWidths[i] = clamp(headerWidth, minColumnWidth, maxColumnWidth)

		width := headerWidth
		for _, row := range rows {
			if i < len(row) {
				width = max(width, runewidth.StringWidth(row[i]))
			}
		}
		widths[i] = max(clamp(width, minColumnWidth, maxColumnWidth), minWidths[i])
	}

	if widthLimit <= 0 {
		return widths, minWidths
	}

	total := sum(widths)
	for total > widthLimit {
		idx := widestColumnAboveMin(widths, minWidths)
		if idx == -1 {
			break
		}
		widths[idx]--
		total--
	}

	return widths, minWidths
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func widestColumnAboveMin(widths, minWidths []int) int {
	idx := -1
	maxWidth := math.MinInt
	for i, width := range widths {
		if width > maxWidth && width > minWidths[i] {
			maxWidth = width
			idx = i
		}
	}
	return idx
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func isValidIndex(index, length int) bool {
	return index >= 0 && index < length
}

// RenderForFormat renders command output according to the requested format.
// The jq filter applies to raw, the JSON/YAML form. Text output renders display
// as a table on terminals and through the text printer otherwise.
func RenderForFormat(
	helper cmdpkg.Helper,
	outType cmdCommon.OutputFormat,
	printer cli.PrintFlusher,
	streams *iostreams.IOStreams,
	display any,
	raw any,
	opts ...Option,
) error {
	if helper != nil {
		cfg, err := helper.GetConfig()
		if err != nil {
			return err
		}

		settings, err := jqoutput.ResolveSettings(helper.GetCmd(), cfg)
		if err != nil {
			return err
		}

		filtered, handled, err := jqoutput.Apply(raw, outType, settings, streams.Out)
		if err != nil {
			var cfgErr *cmdpkg.ConfigurationError
			if errors.As(err, &cfgErr) {
				return err
			}
			return cmdpkg.PrepareExecutionErrorWithHelper(helper, "jq filter failed", err)
		}
		if handled {
			return nil
		}
		raw = filtered
	}

	switch outType {
	case cmdCommon.TEXT:
		if iostreams.IsTerminal(streams.Out) || printer == nil {
			return Render(streams.Out, display, opts...)
		}
		printer.Print(display)
		return nil
	case cmdCommon.JSON, cmdCommon.YAML:
		if printer != nil {
			printer.Print(raw)
		}
		return nil
	default:
		return fmt.Errorf("tableview: unsupported output format %s", outType.String())
	}
}
