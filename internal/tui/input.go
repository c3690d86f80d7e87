package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kujtimiihoxha/vimtea"
)

const editorHeight = 3

// questionInput is the question editor: a single-line textinput, or a
// vimtea editor when vim mode is enabled in settings.
type questionInput struct {
	vimMode bool
	width   int
	text    textinput.Model
	editor  vimtea.Editor
}

func newQuestionInput(vimMode bool, placeholder string) questionInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 500
	ti.Width = HeaderWidth
	ti.Focus()

	q := questionInput{vimMode: vimMode, width: HeaderWidth, text: ti}
	if vimMode {
		q.editor = newVimEditor()
	}
	return q
}

// newVimEditor creates a vim-style editor in the Kartoza palette
func newVimEditor() vimtea.Editor {
	lineNumStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		PaddingRight(1)

	currentLineNumStyle := lipgloss.NewStyle().
		Foreground(ColorOrange).
		Bold(true).
		PaddingRight(1)

	cursorStyle := lipgloss.NewStyle().
		Background(ColorOrange).
		Foreground(lipgloss.Color("#000000"))

	return vimtea.NewEditor(
		vimtea.WithLineNumberStyle(lineNumStyle),
		vimtea.WithCurrentLineNumberStyle(currentLineNumStyle),
		vimtea.WithTextStyle(lipgloss.NewStyle().Foreground(ColorWhite)),
		vimtea.WithCursorStyle(cursorStyle),
		vimtea.WithRelativeNumbers(false),
		vimtea.WithEnableStatusBar(false),
	)
}

// Init starts the editor in INSERT mode so typing works immediately
func (q *questionInput) Init() tea.Cmd {
	if q.vimMode {
		return tea.Batch(q.editor.Init(), q.resize(), q.editor.SetMode(vimtea.ModeInsert))
	}
	return textinput.Blink
}

// Value returns the current question text
func (q *questionInput) Value() string {
	if q.vimMode {
		return q.editor.GetBuffer().Text()
	}
	return q.text.Value()
}

// SetValue replaces the question text
func (q *questionInput) SetValue(s string) tea.Cmd {
	if !q.vimMode {
		q.text.SetValue(s)
		q.text.CursorEnd()
		return nil
	}

	q.editor = newVimEditor()
	if s != "" {
		q.editor.GetBuffer().InsertAt(0, 0, s)
	}
	return tea.Batch(q.editor.Init(), q.resize(), q.editor.SetMode(vimtea.ModeInsert))
}

// SetWidth resizes the active editor
func (q *questionInput) SetWidth(w int) tea.Cmd {
	q.width = w
	if q.vimMode {
		return q.resize()
	}
	q.text.Width = w
	return nil
}

func (q *questionInput) resize() tea.Cmd {
	updated, cmd := q.editor.SetSize(q.width, editorHeight)
	q.editor = updated.(vimtea.Editor)
	return cmd
}

// InNormalMode reports whether esc should reach the application. Outside
// vim mode this is always true; in vim mode esc first leaves INSERT mode.
func (q *questionInput) InNormalMode() bool {
	if !q.vimMode {
		return true
	}
	return q.editor.GetMode().String() == "NORMAL"
}

// Update forwards msg to the active editor
func (q *questionInput) Update(msg tea.Msg) tea.Cmd {
	if q.vimMode {
		updated, cmd := q.editor.Update(msg)
		q.editor = updated.(vimtea.Editor)
		return cmd
	}
	var cmd tea.Cmd
	q.text, cmd = q.text.Update(msg)
	return cmd
}

// View renders the active editor
func (q *questionInput) View() string {
	if q.vimMode {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorOrange).
			Render(q.editor.View())
	}
	return q.text.View()
}
