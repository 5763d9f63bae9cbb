package iostreams

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTestStreamsAreNotTerminals(t *testing.T) {
	s, _, out, _ := NewTestIOStreams()
	require.False(t, s.IsInteractive())
	require.False(t, IsTerminal(out))
	require.False(t, IsTerminal(nil))
}
