package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTFallsBackToDefault(t *testing.T) {
	require.Equal(t, "Retrieve people", T("test.i18n.missing", "Retrieve people"))
}

func TestTUsesRegisteredMessage(t *testing.T) {
	require.NoError(t, Register(language.English, "test.i18n.short", "List people"))
	require.NoError(t, Register(language.Dutch, "test.i18n.short", "Personen tonen"))

	require.Equal(t, "List people", T("test.i18n.short", "default"))

	SetLanguage(language.Dutch)
	t.Cleanup(func() { SetLanguage(language.English) })
	require.Equal(t, "Personen tonen", T("test.i18n.short", "default"))
}
