// Package source fetches the people collection from the configured location:
// a remote JSON endpoint or a local JSON/YAML file.
package source

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kinfolk/kinctl/internal/people"
)

// DefaultURL is the public people endpoint used when nothing is configured.
const DefaultURL = "https://mate-academy.github.io/react_people-table/api/people.json"

// Source returns the full people collection in server order.
type Source interface {
	ListPeople(ctx context.Context) ([]people.Person, error)
}

// Func adapts a function to the Source interface.
type Func func(ctx context.Context) ([]people.Person, error)

func (f Func) ListPeople(ctx context.Context) ([]people.Person, error) {
	return f(ctx)
}

// Options configures New.
type Options struct {
	// Location is a URL, a file:// URL or a local file path.
	Location string
	// Timeout bounds a single HTTP fetch.
	Timeout time.Duration
	// Delay is waited before each HTTP fetch.
	Delay  time.Duration
	Logger *slog.Logger
}

// New returns a FileSource for file:// URLs and existing local paths and an
// HTTPSource for everything else.
func New(opts Options) Source {
	location := strings.TrimSpace(opts.Location)
	if location == "" {
		location = DefaultURL
	}

	if u, err := url.Parse(location); err == nil && u.Scheme == "file" {
		return NewFileSource(u.Path)
	}
	if _, err := os.Stat(location); err == nil {
		return NewFileSource(location)
	}

	return NewHTTPSource(location, HTTPOptions{
		Timeout: opts.Timeout,
		Delay:   opts.Delay,
		Logger:  opts.Logger,
	})
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
