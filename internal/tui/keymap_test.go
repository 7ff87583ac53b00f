package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	t.Parallel()
	km := DefaultKeyMap()

	bindings := []struct {
		name    string
		binding key.Binding
	}{
		{"Eval", km.Eval},
		{"Cancel", km.Cancel},
		{"HistPrev", km.HistPrev},
		{"HistNext", km.HistNext},
		{"PageUp", km.PageUp},
		{"PageDown", km.PageDown},
		{"ToggleDump", km.ToggleDump},
		{"ClearLog", km.ClearLog},
		{"ResetVars", km.ResetVars},
		{"Pause", km.Pause},
		{"Help", km.Help},
		{"Quit", km.Quit},
	}

	seen := map[string]string{}
	for _, b := range bindings {
		if !b.binding.Enabled() {
			t.Errorf("expected %s binding to be enabled", b.name)
		}
		keys := b.binding.Keys()
		if len(keys) == 0 {
			t.Errorf("expected %s binding to have at least one key", b.name)
		}
		for _, k := range keys {
			if other, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %s and %s", k, other, b.name)
			}
			seen[k] = b.name
		}
	}
}

func TestDefaultKeyMap_NoPlainRunes(t *testing.T) {
	t.Parallel()
	// Printable keys belong to the expression input.
	for _, group := range DefaultKeyMap().FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				if len([]rune(k)) == 1 {
					t.Errorf("binding %q would shadow typing", k)
				}
			}
		}
	}
}

func TestKeyMap_ShortHelpSubsetOfFull(t *testing.T) {
	t.Parallel()
	km := DefaultKeyMap()
	full := map[string]bool{}
	for _, group := range km.FullHelp() {
		for _, b := range group {
			full[b.Help().Key] = true
		}
	}
	for _, b := range km.ShortHelp() {
		if !full[b.Help().Key] {
			t.Errorf("short help %q missing from full help", b.Help().Key)
		}
	}
}
