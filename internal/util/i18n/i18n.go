// Package i18n looks up user facing command text.
package i18n

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	mu      sync.RWMutex
	builder = catalog.NewBuilder(catalog.Fallback(language.English))
	printer = message.NewPrinter(language.English, message.Catalog(builder))
)

// Register adds the translation of key for tag.
func Register(tag language.Tag, key, msg string) error {
	mu.Lock()
	defer mu.Unlock()
	return builder.SetString(tag, key, msg)
}

// SetLanguage selects the language T translates to.
func SetLanguage(tag language.Tag) {
	mu.Lock()
	defer mu.Unlock()
	printer = message.NewPrinter(tag, message.Catalog(builder))
}

// T translates a key to a string. The first parameter identifies
// a message to translate. The second parameter is the default
// string to return if the key is not registered.
func T(key string, defaultValue string) string {
	mu.RLock()
	p := printer
	mu.RUnlock()

	if out := p.Sprintf(key); out != key {
		return out
	}
	return defaultValue
}
