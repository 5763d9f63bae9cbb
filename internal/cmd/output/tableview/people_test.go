package tableview

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/kinfolk/kinctl/internal/people"
	"github.com/kinfolk/kinctl/internal/people/loader"
	"github.com/kinfolk/kinctl/internal/people/source"
)

func family() []people.Person {
	return []people.Person{
		{Slug: "bob-1900", Name: "Bob", Sex: "m", Born: 1900, Died: 1950},
		{Slug: "ann-1890", Name: "Ann", Sex: "f", Born: 1890, Died: 1960},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and feeds every resulting message back into the model.
// Spinner ticks are delivered once without scheduling the next frame.
func drain(t *testing.T, m *PeopleModel, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg:
			_, _ = m.Update(msg)
		default:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func rowNames(m *PeopleModel) []string {
	out := make([]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.Name
	}
	return out
}

func newLoadedModel(t *testing.T, src source.Source, opts ...ModelOption) *PeopleModel {
	t.Helper()
	m := NewPeopleModel(context.Background(), loader.New(src), people.Link{BasePath: people.PathPrefix}, opts...)
	drain(t, m, m.Init())
	return m
}

func TestPeopleModelLoadsAndShowsTable(t *testing.T) {
	m := newLoadedModel(t, source.Func(func(context.Context) ([]people.Person, error) {
		return family(), nil
	}))

	require.False(t, m.State().Loading)
	require.NotNil(t, m.State().People)
	require.Equal(t, []string{"Bob", "Ann"}, rowNames(m))

	view := m.View()
	require.Contains(t, view, peopleTitle)
	require.Contains(t, view, "Bob")
	require.Contains(t, view, "Name ↕")
	require.NotContains(t, view, loadingMessage)
	require.NotContains(t, view, loadErrorMessage)
}

func TestPeopleModelShowsLoadingUntilFetched(t *testing.T) {
	m := NewPeopleModel(context.Background(), loader.New(source.Func(func(context.Context) ([]people.Person, error) {
		return family(), nil
	})), people.Link{BasePath: people.PathPrefix})

	cmd := m.Init()
	require.NotNil(t, cmd)
	require.Contains(t, m.View(), loadingMessage)
	require.Nil(t, m.startLoad(), "no second fetch while loading")

	drain(t, m, cmd)
	require.NotContains(t, m.View(), loadingMessage)
}

func TestPeopleModelSortKeysCycle(t *testing.T) {
	m := newLoadedModel(t, source.Func(func(context.Context) ([]people.Person, error) {
		return family(), nil
	}))

	_, _ = m.Update(keyRunes("1"))
	require.Equal(t, "/people?sort=name", m.Link().String())
	require.Equal(t, []string{"Ann", "Bob"}, rowNames(m))
	require.Contains(t, m.View(), "Name ▲")

	_, _ = m.Update(keyRunes("1"))
	require.Equal(t, "/people?sort=name&order=desc", m.Link().String())
	require.Equal(t, []string{"Bob", "Ann"}, rowNames(m))

	_, _ = m.Update(keyRunes("1"))
	require.Equal(t, "/people", m.Link().String())
	require.Equal(t, []string{"Bob", "Ann"}, rowNames(m))

	_, _ = m.Update(keyRunes("3"))
	require.Equal(t, "/people?sort=born", m.Link().String())
	require.Equal(t, []string{"Ann", "Bob"}, rowNames(m))
}

func TestPeopleModelSelectAndClear(t *testing.T) {
	m := newLoadedModel(t, source.Func(func(context.Context) ([]people.Person, error) {
		return family(), nil
	}))

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "ann-1890", m.Link().Selected)
	require.Equal(t, 1, m.selectedIndex())
	require.Contains(t, m.View(), selectedMarker+"Ann")

	_, _ = m.Update(keyRunes("1"))
	require.Equal(t, "/people/ann-1890?sort=name", m.Link().String())
	require.Equal(t, 0, m.table.Cursor(), "cursor follows the selected person")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Empty(t, m.Link().Selected)
	require.NotContains(t, m.View(), selectedMarker)
}

func TestPeopleModelCopiesLink(t *testing.T) {
	var copied string
	m := newLoadedModel(t, source.Func(func(context.Context) ([]people.Person, error) {
		return family(), nil
	}), WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	_, _ = m.Update(keyRunes("2"))
	_, _ = m.Update(keyRunes("y"))
	require.Equal(t, "/people?sort=sex", copied)
	require.Contains(t, m.View(), "Copied /people?sort=sex")

	m.copy = func(string) error { return errors.New("no display") }
	_, _ = m.Update(keyRunes("y"))
	require.Contains(t, m.View(), "Clipboard unavailable: no display")
}

func TestPeopleModelShowsFailureAndReloads(t *testing.T) {
	var calls atomic.Int32
	m := newLoadedModel(t, source.Func(func(context.Context) ([]people.Person, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return family(), nil
	}))

	require.True(t, m.State().Failed)
	require.Contains(t, m.View(), loadErrorMessage)
	require.NotContains(t, m.View(), "Name ↕")

	_, cmd := m.Update(keyRunes("r"))
	require.True(t, m.State().Loading)
	require.False(t, m.State().Failed, "a reload clears the failure flag")
	require.NotContains(t, m.View(), loadErrorMessage)
	require.Contains(t, m.View(), loadingMessage)
	drain(t, m, cmd)

	require.EqualValues(t, 2, calls.Load())
	require.False(t, m.State().Failed)
	require.NotContains(t, m.View(), loadErrorMessage)
	require.Contains(t, m.View(), "Ann")
}

func TestPeopleModelFollowsControllerChanges(t *testing.T) {
	var calls atomic.Int32
	changed := make(chan struct{}, 1)
	ctrl := loader.New(source.Func(func(context.Context) ([]people.Person, error) {
		if calls.Add(1) == 1 {
			return family(), nil
		}
		return nil, errors.New("offline")
	}), loader.WithListener(ChangeListener(changed)))

	m := NewPeopleModel(context.Background(), ctrl, people.Link{BasePath: people.PathPrefix}, WithChanges(changed))
	require.NoError(t, ctrl.Load(context.Background()))

	wait := m.waitForChange()
	require.NotNil(t, wait)
	_, next := m.Update(wait())
	require.NotNil(t, next, "keeps listening")
	require.Equal(t, []string{"Bob", "Ann"}, rowNames(m))

	require.Error(t, ctrl.Load(context.Background()))
	_, _ = m.Update(next())
	require.True(t, m.State().Failed)
	require.False(t, m.State().Loading)
	require.Contains(t, m.View(), loadErrorMessage)
	require.Contains(t, m.View(), "Ann", "previous collection stays visible")
}

func TestPeopleModelStopsListeningOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewPeopleModel(ctx, loader.New(source.Func(func(context.Context) ([]people.Person, error) {
		return family(), nil
	})), people.Link{BasePath: people.PathPrefix}, WithChanges(make(chan struct{})))

	cancel()
	require.Nil(t, m.waitForChange()())
}

func TestPeopleModelHidesTableForSinglePerson(t *testing.T) {
	m := newLoadedModel(t, source.Func(func(context.Context) ([]people.Person, error) {
		return family()[:1], nil
	}))

	require.Len(t, m.rows, 1)
	require.NotContains(t, m.View(), "Name ↕")
}

func TestPeopleModelQuits(t *testing.T) {
	m := newLoadedModel(t, source.Func(func(context.Context) ([]people.Person, error) {
		return family(), nil
	}))

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
