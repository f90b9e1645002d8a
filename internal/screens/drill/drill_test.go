package drill

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingodrill/internal/history"
	"github.com/abhisek/lingodrill/internal/keyboard"
	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/logging"
	"github.com/abhisek/lingodrill/internal/practice"
	"github.com/abhisek/lingodrill/internal/router"
	"github.com/abhisek/lingodrill/internal/screens/result"
	"github.com/abhisek/lingodrill/internal/session"
)

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func testBase() knowledge.Base {
	return knowledge.Base{
		{
			ID:               "0b6f9d0e-3f4a-4a57-9a43-8c1c1f0f7a01",
			Language:         knowledge.LanguageGerman,
			Kind:             knowledge.KindWord,
			OriginalText:     "Hund",
			SyllableDivision: "Hund",
			IPATranscription: "hʊnt",
			Translation:      "dog",
		},
		{
			ID:               "0b6f9d0e-3f4a-4a57-9a43-8c1c1f0f7a02",
			Language:         knowledge.LanguageGerman,
			Kind:             knowledge.KindPhrase,
			OriginalText:     "guten Morgen",
			SyllableDivision: "gu-ten Mor-gen",
			IPATranscription: "ˈɡuːtn̩ ˈmɔʁɡn̩",
			Translation:      "good morning",
		},
	}
}

func newDrill(t *testing.T, filter knowledge.Filter) (*DrillScreen, *practice.Practice, string) {
	t.Helper()
	m := session.NewMachine(testBase(), nil, session.WithRand(fixedRand(0)))
	dir := t.TempDir()
	fs := history.NewFileStore(filepath.Join(dir, "history.json"))
	require.NoError(t, fs.Create(context.Background()))
	p := practice.New(m, fs,
		practice.WithLogger(logging.Discard()),
		practice.WithRand(fixedRand(0)), // original text is provided
	)
	export := filepath.Join(dir, "export.json")
	s := New(Deps{Practice: p, ExportPath: export, Filter: filter})
	s.Update(s.Init()())
	return s, p, export
}

// run executes cmd and feeds resulting messages back into s, skipping
// navigation messages which it returns.
func run(s *DrillScreen, cmd tea.Cmd) []tea.Msg {
	var nav []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case router.PushScreenMsg, router.PopScreenMsg:
			nav = append(nav, msg)
		case restartedMsg, exportedMsg, pronouncedMsg, NextItemMsg, sessionReadyMsg:
			_, next := s.Update(msg)
			queue = append(queue, next)
		}
	}
	return nav
}

func typeText(s *DrillScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func TestDrill_FirstItem(t *testing.T) {
	s, p, _ := newDrill(t, knowledge.FilterWord)

	require.True(t, s.hasItem)
	assert.Equal(t, "Hund", s.current.Item.OriginalText)
	assert.True(t, s.inputs[0].Locked, "provided field must be locked")
	assert.Equal(t, "Hund", s.inputs[0].Value())
	assert.Equal(t, 1, s.focus, "focus starts on the first editable field")

	_, open := p.Machine().CurrentSession()
	assert.True(t, open)
}

func TestDrill_SubmitEnabling(t *testing.T) {
	s, _, _ := newDrill(t, knowledge.FilterWord)
	assert.False(t, s.CanSubmit())

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd, "verify is disabled with empty fields")

	typeText(s, "  ")
	assert.False(t, s.CanSubmit(), "blank input does not enable verify")

	typeText(s, "Hund")
	assert.True(t, s.CanSubmit())
}

func TestDrill_SubmitPushesResult(t *testing.T) {
	s, p, _ := newDrill(t, knowledge.FilterWord)

	s.Update(specialKey(tea.KeyTab))
	typeText(s, "hʊnd")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "Dog!")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	nav := run(s, cmd)
	require.Len(t, nav, 1)
	push, ok := nav[0].(router.PushScreenMsg)
	require.True(t, ok)
	_, isResult := push.Screen.(*result.ResultScreen)
	assert.True(t, isResult)

	cur, _ := p.Machine().CurrentSession()
	require.Len(t, cur.Exercises, 1)
	ex := cur.Exercises[0]
	assert.Equal(t, []knowledge.Field{knowledge.FieldIPATranscription, knowledge.FieldTranslation}, ex.FilledFields)
	assert.Equal(t, []bool{false, true}, ex.Correctness)
}

func TestDrill_TabSkipsLockedField(t *testing.T) {
	s, _, _ := newDrill(t, knowledge.FilterWord)
	for _, want := range []int{2, 3, 1} {
		s.Update(specialKey(tea.KeyTab))
		assert.Equal(t, want, s.focus)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, 3, s.focus)
}

func TestDrill_VirtualKeyboardComposes(t *testing.T) {
	s, _, _ := newDrill(t, knowledge.FilterWord)
	s.Update(specialKey(tea.KeyTab)) // IPA
	typeText(s, "n")

	s.Update(ctrl('k'))
	require.True(t, s.palette.Focused)
	assert.True(t, s.HandlesEscape())

	// Move to the syllabic mark in the diacritics section.
	for s.palette.Selected() != keyboard.Syllabic {
		s.Update(specialKey(tea.KeyRight))
	}
	s.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "n\u0329", s.inputs[2].Value())

	s.Update(specialKey(tea.KeyEscape))
	assert.False(t, s.palette.Focused)
	assert.False(t, s.HandlesEscape())
	assert.True(t, s.CanSubmit())
}

func TestDrill_FilterChangeDrawsNewItem(t *testing.T) {
	s, _, _ := newDrill(t, knowledge.FilterWord)
	s.Update(ctrl('t'))
	assert.Equal(t, knowledge.FilterPhrase, s.filter)
	require.True(t, s.hasItem)
	assert.Equal(t, "guten Morgen", s.current.Item.OriginalText)
}

func TestDrill_Exhaustion(t *testing.T) {
	s, p, _ := newDrill(t, knowledge.FilterWord)
	first, _ := p.Machine().CurrentSession()

	run(s, func() tea.Msg { return NextItemMsg{} })
	require.NotNil(t, s.notice, "exhaustion must be announced")
	assert.Contains(t, s.notice.Text, "All items")
	assert.True(t, s.HandlesEscape())

	_, cmd := s.Update(keyPress('x'))
	run(s, cmd)
	assert.Nil(t, s.notice)
	require.True(t, s.hasItem, "a new session makes items eligible again")
	assert.Equal(t, "Hund", s.current.Item.OriginalText)

	cur, _ := p.Machine().CurrentSession()
	assert.NotEqual(t, first.SessionID, cur.SessionID)
}

func TestDrill_EndSession(t *testing.T) {
	s, p, _ := newDrill(t, knowledge.FilterWord)

	_, cmd := s.Update(ctrl('e'))
	run(s, cmd)
	require.NotNil(t, s.notice)
	assert.Contains(t, s.notice.Text, "nothing was saved")
	s.Update(keyPress('x'))

	typeText(s, "Hund")
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	run(s, cmd)

	_, cmd = s.Update(ctrl('e'))
	nav := run(s, cmd)
	require.Len(t, nav, 1, "summary screen is pushed")
	assert.Len(t, p.Machine().History(), 1)
	assert.True(t, s.hasItem)
}

func TestDrill_Export(t *testing.T) {
	s, p, path := newDrill(t, knowledge.FilterWord)

	_, cmd := s.Update(ctrl('s'))
	run(s, cmd)
	require.NotNil(t, s.notice)
	assert.Contains(t, s.notice.Text, "no practice history")
	s.Update(keyPress('x'))

	require.True(t, s.hasItem, "export starts a new session and draws in it")
	assert.Zero(t, p.Machine().Remaining(knowledge.FilterWord), "shown item is in the new session's used set")
	typeText(s, "Hund")
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	run(s, cmd)

	_, cmd = s.Update(ctrl('s'))
	run(s, cmd)
	require.NotNil(t, s.notice)
	assert.Contains(t, s.notice.Text, "Exported 1 sessions")
	require.True(t, s.hasItem)
	cur, open := p.Machine().CurrentSession()
	require.True(t, open)
	assert.Empty(t, cur.Exercises)
	assert.Zero(t, p.Machine().Remaining(knowledge.FilterWord))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {"), "export is indented JSON")
}

func TestDrill_ExportDoesNotRepeatItemsInNewSession(t *testing.T) {
	s, p, _ := newDrill(t, knowledge.FilterAny)

	answer := func() {
		t.Helper()
		typeText(s, "x")
		_, cmd := s.Update(specialKey(tea.KeyEnter))
		require.Len(t, run(s, cmd), 1, "result screen is pushed")
		run(s, func() tea.Msg { return NextItemMsg{} })
	}

	require.Equal(t, "Hund", s.current.Item.OriginalText)
	answer()
	require.Equal(t, "guten Morgen", s.current.Item.OriginalText)

	_, cmd := s.Update(ctrl('s'))
	run(s, cmd)
	s.Update(keyPress('x'))
	assert.Equal(t, "Hund", s.current.Item.OriginalText, "export draws from the new session")

	answer()
	answer()

	cur, open := p.Machine().CurrentSession()
	require.True(t, open)
	require.Len(t, cur.Exercises, 2)
	assert.Equal(t, testBase()[0].ID, cur.Exercises[0].KnowledgeID)
	assert.Equal(t, testBase()[1].ID, cur.Exercises[1].KnowledgeID)
	assert.False(t, s.hasItem, "both items used once in the new session")
	require.NotNil(t, s.notice)
	assert.Contains(t, s.notice.Text, "All items have been used")
}

func TestDrill_EscapePops(t *testing.T) {
	s, _, _ := newDrill(t, knowledge.FilterWord)
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestDrill_PronounceUnavailableWithoutAudio(t *testing.T) {
	s, _, _ := newDrill(t, knowledge.FilterWord)
	_, cmd := s.Update(ctrl('p'))
	assert.Nil(t, cmd)
}

func TestDrill_View(t *testing.T) {
	s, _, _ := newDrill(t, knowledge.FilterWord)
	view := s.View(120, 40)
	for _, want := range []string{"Original text", "IPA transcription", "Hund", "Words", "Verify"} {
		assert.Contains(t, view, want)
	}
}
