package cli

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestColumnPickerDefaults(t *testing.T) {
	m := NewColumnPickerModel([]string{"A", "B", "C"})

	// All candidates start checked
	if got := m.Selection(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("initial Selection() = %v, want all columns", got)
	}
	if m.Confirmed {
		t.Error("picker should not start confirmed")
	}
}

func TestColumnPickerToggle(t *testing.T) {
	m := NewColumnPickerModel([]string{"A", "B", "C"})

	// Move to B and uncheck it
	next, _ := m.Update(keyMsg("j"))
	m = next.(ColumnPickerModel)
	next, _ = m.Update(keyMsg(" "))
	m = next.(ColumnPickerModel)

	if got := m.Selection(); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("Selection() after toggle = %v, want [A C]", got)
	}

	// Toggle all off, then all on
	next, _ = m.Update(keyMsg("a"))
	m = next.(ColumnPickerModel)
	next, _ = m.Update(keyMsg("a"))
	m = next.(ColumnPickerModel)
	if got := m.Selection(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("Selection() after toggle-all twice = %v", got)
	}
}

func TestColumnPickerConfirm(t *testing.T) {
	m := NewColumnPickerModel([]string{"A", "B"})

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(ColumnPickerModel)

	if !m.Confirmed {
		t.Error("enter should confirm the selection")
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestColumnPickerRejectsEmptyConfirm(t *testing.T) {
	m := NewColumnPickerModel([]string{"A"})

	// Uncheck the only column, then try to confirm
	next, _ := m.Update(keyMsg(" "))
	m = next.(ColumnPickerModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(ColumnPickerModel)

	if m.Confirmed {
		t.Error("enter with nothing checked should not confirm")
	}
	if cmd != nil {
		t.Error("enter with nothing checked should not quit")
	}
}

func TestColumnPickerCursorBounds(t *testing.T) {
	m := NewColumnPickerModel([]string{"A", "B"})

	// Up at the top stays at 0
	next, _ := m.Update(keyMsg("k"))
	m = next.(ColumnPickerModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up at top, want 0", m.Cursor)
	}

	// Down past the end stays at the last row
	for i := 0; i < 5; i++ {
		next, _ = m.Update(keyMsg("j"))
		m = next.(ColumnPickerModel)
	}
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after down past end, want 1", m.Cursor)
	}
}

func TestColumnPickerView(t *testing.T) {
	m := NewColumnPickerModel([]string{"alpha", "beta"})
	view := m.View()

	for _, want := range []string{"Select Set Columns", "alpha", "beta", "2 of 2 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q", want)
		}
	}
}
