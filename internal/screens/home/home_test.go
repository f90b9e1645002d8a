package home

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingodrill/internal/history"
	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/logging"
	"github.com/abhisek/lingodrill/internal/practice"
	"github.com/abhisek/lingodrill/internal/router"
	"github.com/abhisek/lingodrill/internal/screens/drill"
	"github.com/abhisek/lingodrill/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testDeps(t *testing.T) drill.Deps {
	t.Helper()
	base := knowledge.Base{
		{ID: "a", Language: knowledge.LanguageGerman, Kind: knowledge.KindWord, OriginalText: "Hund"},
		{ID: "b", Language: knowledge.LanguageGerman, Kind: knowledge.KindPhrase, OriginalText: "guten Tag"},
		{ID: "c", Language: knowledge.LanguageGerman, Kind: knowledge.KindWord, OriginalText: "Katze"},
	}
	m := session.NewMachine(base, nil)
	p := practice.New(m, nil, practice.WithLogger(logging.Discard()))
	return drill.Deps{Practice: p, ExportPath: filepath.Join(t.TempDir(), "export.json")}
}

func TestHomeScreen_Menu(t *testing.T) {
	h := New(Options{Drill: testDeps(t), History: history.NewFileStore(filepath.Join(t.TempDir(), "h.json"))})

	view := h.View(120, 40)
	for _, want := range []string{"PRACTICE", "HISTORY", "2 WORDS", "1 PHRASES"} {
		if !strings.Contains(view, want) {
			t.Errorf("home view missing %q", want)
		}
	}

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command for PRACTICE")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*drill.DrillScreen); !ok {
		t.Errorf("pushed %T, want *drill.DrillScreen", push.Screen)
	}
}

func TestHomeScreen_HistoryDisabledWithoutSource(t *testing.T) {
	h := New(Options{Drill: testDeps(t)})
	h.Update(specialKey(tea.KeyDown))
	if h.menu.Selected != 2 {
		t.Errorf("Selected = %d, want 2 (history is disabled)", h.menu.Selected)
	}
}

func TestHomeScreen_ExportEmpty(t *testing.T) {
	h := New(Options{Drill: testDeps(t)})
	h.Update(specialKey(tea.KeyDown))
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected export command")
	}
	h.Update(cmd())
	if h.notice == nil || !strings.Contains(h.notice.Text, "no practice history") {
		t.Fatalf("notice = %+v", h.notice)
	}
	h.Update(keyPress('x'))
	if h.notice != nil {
		t.Error("notice not dismissed")
	}
}

func TestHomeScreen_ConfirmCreate(t *testing.T) {
	created := false
	h := New(Options{
		Drill: testDeps(t),
		CreateHistory: func(context.Context) error {
			created = true
			return nil
		},
		HistoryPath: "/tmp/history.json",
	})
	if !h.HandlesEscape() {
		t.Error("confirm prompt must handle Esc")
	}
	if !strings.Contains(h.View(100, 30), "/tmp/history.json") {
		t.Error("confirm prompt does not name the file")
	}

	_, cmd := h.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected create command")
	}
	h.Update(cmd())
	if !created || h.mode != modeMenu {
		t.Errorf("created = %v, mode = %v", created, h.mode)
	}
}

func TestHomeScreen_ConfirmDeclineIsFatal(t *testing.T) {
	h := New(Options{Drill: testDeps(t), CreateHistory: func(context.Context) error { return nil }})
	h.Update(keyPress('n'))
	if h.mode != modeFatal {
		t.Fatalf("mode = %v, want fatal", h.mode)
	}
	_, cmd := h.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("fatal screen must quit on any key")
	}
}

func TestHomeScreen_CreateFailureIsFatal(t *testing.T) {
	h := New(Options{Drill: testDeps(t), CreateHistory: func(context.Context) error { return errors.New("read-only") }})
	_, cmd := h.Update(keyPress('y'))
	h.Update(cmd())
	if h.mode != modeFatal || !strings.Contains(h.View(100, 30), "read-only") {
		t.Errorf("mode = %v", h.mode)
	}
}

func TestHomeScreen_FatalOption(t *testing.T) {
	h := New(Options{Drill: testDeps(t), Fatal: errors.New("knowledge base is broken")})
	if !strings.Contains(h.View(100, 30), "knowledge base is broken") {
		t.Error("fatal error not shown")
	}
}
