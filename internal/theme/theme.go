// Package theme holds the color palettes of the terminal tables.
package theme

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the palette used when color-theme is not configured.
const DefaultName = "kinfolk"

// Token names a color slot.
type Token string

const (
	ColorTextPrimary Token = "text.primary"
	ColorTextMuted   Token = "text.muted"
	ColorBorder      Token = "border"
	ColorPrimary     Token = "primary"
	ColorPrimaryText Token = "primary.text"
	ColorWarning     Token = "warning"
	ColorWarningText Token = "warning.text"
	ColorDanger      Token = "danger"
)

// Palette maps every token to a light/dark color pair.
type Palette struct {
	Name   string
	Colors map[Token]lipgloss.AdaptiveColor
}

// Adaptive returns the color of token. Tokens a palette lacks use the default palette.
func (p Palette) Adaptive(token Token) lipgloss.AdaptiveColor {
	if c, ok := p.Colors[token]; ok {
		return c
	}
	return palettes[DefaultName].Colors[token]
}

func (p Palette) ForegroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Adaptive(token))
}

var (
	palettes = map[string]Palette{
		DefaultName: {
			Name: DefaultName,
			Colors: map[Token]lipgloss.AdaptiveColor{
				ColorTextPrimary: {Light: "#363636", Dark: "#F5F5F5"},
				ColorTextMuted:   {Light: "#7A7A7A", Dark: "#B5B5B5"},
				ColorBorder:      {Light: "#DBDBDB", Dark: "#4A4A4A"},
				ColorPrimary:     single("#485FC7"),
				ColorPrimaryText: single("#FFFFFF"),
				ColorWarning:     single("#FFE08A"),
				ColorWarningText: single("#363636"),
				ColorDanger:      single("#F14668"),
			},
		},
		"parchment": derived("parchment", "#3B2F2F", "#F4ECD8", "#8C5A2B"),
		"nord":      derived("nord", "#ECEFF4", "#2E3440", "#88C0D0"),
		"mono":      derived("mono", "#1A1A1A", "#FFFFFF", "#5C5C5C"),
	}

	current atomic.Pointer[Palette]
)

func init() {
	p := palettes[DefaultName]
	current.Store(&p)
}

// SetCurrent activates the named palette. An empty name selects the default.
func SetCurrent(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}
	p, ok := palettes[name]
	if !ok {
		return fmt.Errorf("unknown color theme %q, must be one of %v", name, slices.Sorted(maps.Keys(palettes)))
	}
	current.Store(&p)
	return nil
}

func Current() Palette {
	return *current.Load()
}

type contextKey struct{}

func ContextWithPalette(ctx context.Context, p Palette) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the palette on ctx, or the current one.
func FromContext(ctx context.Context) Palette {
	if ctx != nil {
		if p, ok := ctx.Value(contextKey{}).(Palette); ok {
			return p
		}
	}
	return Current()
}

func single(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
}

// derived builds a palette from a foreground, a background and an accent.
// The other shades are blended in Lab space.
func derived(name, fg, bg, accent string) Palette {
	warning := blend(accent, "#FFE08A", 0.6)
	muted := blend(fg, bg, 0.5)
	border := blend(fg, bg, 0.7)
	return Palette{
		Name: name,
		Colors: map[Token]lipgloss.AdaptiveColor{
			ColorTextPrimary: single(fg),
			ColorTextMuted:   {Light: blend(muted, "#000000", 0.35), Dark: blend(muted, "#FFFFFF", 0.35)},
			ColorBorder:      {Light: blend(border, "#000000", 0.15), Dark: blend(border, "#FFFFFF", 0.25)},
			ColorPrimary:     single(accent),
			ColorPrimaryText: single(contrast(accent)),
			ColorWarning:     single(warning),
			ColorWarningText: single(contrast(warning)),
			ColorDanger:      single(blend(accent, "#F14668", 0.7)),
		},
	}
}

func blend(from, to string, amount float64) string {
	a, err := colorful.Hex(from)
	if err != nil {
		return to
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return from
	}
	return strings.ToUpper(a.BlendLab(b, amount).Clamped().Hex())
}

// contrast picks dark or light text for background hex by relative luminance.
func contrast(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#121418"
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.55 {
		return "#121418"
	}
	return "#F8F8F8"
}
