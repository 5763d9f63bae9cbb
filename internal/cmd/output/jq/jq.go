// Package jq filters structured command output with jq expressions.
package jq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/itchyny/gojq"
	cmdpkg "github.com/kinfolk/kinctl/internal/cmd"
	cmdcommon "github.com/kinfolk/kinctl/internal/cmd/common"
	"github.com/kinfolk/kinctl/internal/config"
	"github.com/kinfolk/kinctl/internal/iostreams"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	FlagName                    = "jq"
	ColorFlagName               = "jq-color"
	ColorThemeFlagName          = "jq-color-theme"
	RawOutputFlagName           = "jq-raw-output"
	RawOutputFlagShort          = "r"
	DefaultExpressionConfigPath = "jq.default-expression"
	ColorEnabledConfigPath      = "jq.color.enabled"
	ColorThemeConfigPath        = "jq.color.theme"
	RawOutputConfigPath         = "jq.raw-output"
	DefaultTheme                = "friendly"
)

var compiled sync.Map

type Settings struct {
	Filter    string
	ColorMode cmdcommon.ColorMode
	Theme     string
	RawOutput bool
}

// Enabled reports whether a filter expression is set.
func (s Settings) Enabled() bool {
	return strings.TrimSpace(s.Filter) != ""
}

func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagName, "",
		"Filter the JSON form of the output with a jq expression, e.g. '.[] | select(.born < 1700) | .name'")

	color := cmdpkg.NewEnum([]string{
		cmdcommon.ColorModeAuto.String(),
		cmdcommon.ColorModeAlways.String(),
		cmdcommon.ColorModeNever.String(),
	}, cmdcommon.ColorModeAuto.String())
	flags.Var(color, ColorFlagName, fmt.Sprintf(`Controls colorized output for jq results.
- Config path: [ %s ]
- Allowed    : [ auto|always|never ]`, ColorEnabledConfigPath))

	flags.String(ColorThemeFlagName, DefaultTheme, fmt.Sprintf(`Chroma style used for colorized jq results.
- Config path: [ %s ]`, ColorThemeConfigPath))

	flags.BoolP(RawOutputFlagName, RawOutputFlagShort, false, fmt.Sprintf(`Print string results without JSON quotes.
- Config path: [ %s ]`, RawOutputConfigPath))
}

func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	if cfg == nil || flags == nil {
		return nil
	}

	bindings := []struct{ flag, cfgPath string }{
		{ColorFlagName, ColorEnabledConfigPath},
		{ColorThemeFlagName, ColorThemeConfigPath},
		{RawOutputFlagName, RawOutputConfigPath},
	}
	for _, b := range bindings {
		f := flags.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := cfg.BindFlag(b.cfgPath, f); err != nil {
			return err
		}
	}
	return nil
}

// ResolveSettings merges the jq flags of command with configuration. Commands
// that do not register --jq never get a filter, even when a default expression
// is configured.
func ResolveSettings(command *cobra.Command, cfg config.Hook) (Settings, error) {
	settings := Settings{
		Theme:     DefaultTheme,
		ColorMode: cmdcommon.ColorModeAuto,
	}
	if command == nil || command.Flags().Lookup(FlagName) == nil {
		return settings, nil
	}
	flags := command.Flags()

	filter, err := flags.GetString(FlagName)
	if err != nil {
		return Settings{}, err
	}
	filter = strings.TrimSpace(filter)
	if flags.Changed(FlagName) && filter == "" {
		filter = "."
	}
	settings.Filter = filter

	if cfg == nil {
		settings.RawOutput, err = flags.GetBool(RawOutputFlagName)
		return settings, err
	}

	if !flags.Changed(FlagName) {
		if def := strings.TrimSpace(cfg.GetString(DefaultExpressionConfigPath)); def != "" {
			settings.Filter = def
		}
	}

	mode, err := cmdcommon.ColorModeStringToIota(strings.ToLower(strings.TrimSpace(cfg.GetString(ColorEnabledConfigPath))))
	if err != nil {
		return Settings{}, &cmdpkg.ConfigurationError{Err: err}
	}
	settings.ColorMode = mode
	if theme := strings.TrimSpace(cfg.GetString(ColorThemeConfigPath)); theme != "" {
		settings.Theme = theme
	}
	settings.RawOutput = cfg.GetBool(RawOutputConfigPath)
	return settings, nil
}

// Validate rejects jq settings that cannot apply to the output format.
func Validate(outType cmdcommon.OutputFormat, settings Settings) error {
	if settings.RawOutput {
		if !settings.Enabled() {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("--%s requires --%s", RawOutputFlagName, FlagName),
			}
		}
		if outType != cmdcommon.JSON {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("--%s is only supported with --output json", RawOutputFlagName),
			}
		}
		return nil
	}

	if !settings.Enabled() || outType == cmdcommon.JSON || outType == cmdcommon.YAML {
		return nil
	}
	return &cmdpkg.ConfigurationError{
		Err: fmt.Errorf("--%s is only supported with --output json or --output yaml", FlagName),
	}
}

// Apply runs the filter over value. When the result was already written to out
// (raw or colorized output) handled is true and the caller prints nothing.
// Otherwise result replaces value for the regular printer.
func Apply(value any, outType cmdcommon.OutputFormat, settings Settings, out io.Writer) (any, bool, error) {
	if !settings.Enabled() {
		return value, false, nil
	}
	if err := Validate(outType, settings); err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(value)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode output before applying jq filter: %w", err)
	}

	results, err := evaluate(body, settings.Filter)
	if err != nil {
		return nil, false, err
	}

	if settings.RawOutput {
		return nil, true, writeRaw(results, out)
	}

	filtered, err := encode(results)
	if err != nil {
		return nil, false, err
	}

	if outType == cmdcommon.JSON && ShouldUseColor(settings.ColorMode, out) {
		printable := Colorize(filtered, Indent(filtered), settings.Theme)
		if _, err := fmt.Fprintln(out, strings.TrimRight(printable, "\n")); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	var payload any
	if err := json.Unmarshal(filtered, &payload); err != nil {
		return nil, false, fmt.Errorf("failed to decode jq result: %w", err)
	}
	return payload, false, nil
}

// Filter applies filter to a JSON document and returns the JSON result. Several
// results are returned as a JSON array.
func Filter(body []byte, filter string) ([]byte, error) {
	results, err := evaluate(body, filter)
	if err != nil {
		return nil, err
	}
	return encode(results)
}

func evaluate(body []byte, filter string) ([]any, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = "."
	}
	if len(body) == 0 {
		return nil, errors.New("output is empty, cannot apply jq filter")
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("output is not valid JSON: %w", err)
	}

	code, err := compile(filter)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := code.Run(payload)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq filter failed: %w", err)
		}
		results = append(results, normalize(v))
	}
	return results, nil
}

func encode(results []any) ([]byte, error) {
	var v any
	switch len(results) {
	case 0:
		return []byte("null"), nil
	case 1:
		v = results[0]
	default:
		v = results
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filtered result: %w", err)
	}
	return b, nil
}

func writeRaw(results []any, out io.Writer) error {
	for _, result := range results {
		line, ok := result.(string)
		if !ok {
			encoded, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("failed to encode filtered result: %w", err)
			}
			line = string(encoded)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func compile(filter string) (*gojq.Code, error) {
	if code, ok := compiled.Load(filter); ok {
		return code.(*gojq.Code), nil
	}

	parsed, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	compiled.Store(filter, code)
	return code, nil
}

func normalize(v any) any {
	switch value := v.(type) {
	case map[any]any:
		converted := make(map[string]any, len(value))
		for k, val := range value {
			converted[fmt.Sprint(k)] = normalize(val)
		}
		return converted
	case []any:
		for i := range value {
			value[i] = normalize(value[i])
		}
		return value
	default:
		return value
	}
}

// Indent pretty prints a JSON document, returning body unchanged when it is not JSON.
func Indent(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}

func ShouldUseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	case cmdcommon.ColorModeAuto:
	}
	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}
	return iostreams.IsTerminal(out)
}

// Colorize highlights formatted with the chroma style theme. Scalars and
// anything that fails to tokenize are returned as is.
func Colorize(raw []byte, formatted, theme string) string {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return formatted
	}
	switch payload.(type) {
	case map[string]any, []any:
	default:
		return formatted
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		return formatted
	}
	iterator, err := lexer.Tokenise(nil, formatted)
	if err != nil {
		return formatted
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return formatted
	}

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return formatted
	}
	return buf.String()
}
