package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kartoza/kartoza-sql-lab/internal/config"
	"github.com/kartoza/kartoza-sql-lab/internal/converter"
	"github.com/kartoza/kartoza-sql-lab/internal/postgres"
)

const executeTimeout = 30 * time.Second

// exampleQuestions are cycled into the input with tab
var exampleQuestions = []string{
	"Calculate the 7-day moving average of daily sales",
	"Show the running total of revenue by date",
	"Top 3 products in each category by revenue",
	"Which products are frequently bought together?",
	"Monthly cohort retention analysis",
	"Find unusual transactions using z-score",
	"Customers who haven't ordered in the last 6 months",
	"Pivot quarterly sales per category",
}

// Options wires the converter screen to its collaborators
type Options struct {
	Engine  *converter.QueryEngine
	Config  *config.Config         // nil disables history
	Service *postgres.ServiceEntry // nil disables execution
	Logger  *zap.Logger
}

// ConverterModel is the converter screen
type ConverterModel struct {
	width   int
	height  int
	input   questionInput
	spinner spinner.Model
	picker  *ServicePickerModel // non-nil while choosing a database service

	engine  *converter.QueryEngine
	cfg     *config.Config
	service *postgres.ServiceEntry
	logger  *zap.Logger

	loading        bool
	loadingMessage string
	pending        string // question of the in-flight conversion
	cancel         context.CancelFunc
	exampleIdx     int

	question  string
	result    *converter.Result
	sample    *converter.SampleTable
	rows      *postgres.ResultSet
	historyID string
	err       error
}

// convertedMsg carries a finished conversion
type convertedMsg struct {
	question string
	result   *converter.Result
	err      error
}

// executedMsg carries the rows of an executed conversion
type executedMsg struct {
	rows *postgres.ResultSet
	err  error
}

var (
	keyQuit    = key.NewBinding(key.WithKeys("ctrl+c"))
	keyClear   = key.NewBinding(key.WithKeys("esc"))
	keyExample = key.NewBinding(key.WithKeys("tab"))
	keySubmit  = key.NewBinding(key.WithKeys("enter"))
	keyExecute = key.NewBinding(key.WithKeys("ctrl+r"))
	keyService = key.NewBinding(key.WithKeys("ctrl+d"))
)

// NewConverterModel creates the converter screen
func NewConverterModel(opts Options) *ConverterModel {
	vimMode := opts.Config != nil && opts.Config.Settings.VimModeEnabled

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorOrange)

	engine := opts.Engine
	if engine == nil {
		engine = converter.NewQueryEngine()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ConverterModel{
		input:   newQuestionInput(vimMode, "Ask a question, e.g. "+exampleQuestions[0]),
		spinner: s,
		engine:  engine,
		cfg:     opts.Config,
		service: opts.Service,
		logger:  logger,
	}
}

// Init initializes the converter screen
func (m *ConverterModel) Init() tea.Cmd {
	return m.input.Init()
}

// Update handles messages for the converter screen
func (m *ConverterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmd tea.Cmd
		if msg.Width > 10 {
			cmd = m.input.SetWidth(msg.Width - 10)
		}
		return m, cmd

	case serviceSelectedMsg:
		m.selectService(msg.service)
		return m, nil

	case pickerClosedMsg:
		m.picker = nil
		return m, nil
	}

	if m.picker != nil {
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keyQuit) {
			return m, tea.Quit
		}
		return m, m.picker.Update(msg)
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case convertedMsg:
		m.handleConverted(msg)
		return m, nil

	case executedMsg:
		m.handleExecuted(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyQuit):
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit

		case key.Matches(msg, keyClear) && m.input.InNormalMode():
			m.cancelPending()
			m.reset()
			return m, m.input.SetValue("")

		case key.Matches(msg, keyExample):
			cmd := m.input.SetValue(exampleQuestions[m.exampleIdx])
			m.exampleIdx = (m.exampleIdx + 1) % len(exampleQuestions)
			return m, cmd

		case key.Matches(msg, keyService):
			if m.loading {
				return m, nil
			}
			active := ""
			if m.service != nil {
				active = m.service.Name
			}
			m.picker = NewServicePicker(active)
			return m, m.picker.Init()

		case key.Matches(msg, keySubmit):
			return m, m.submit()

		case key.Matches(msg, keyExecute):
			return m, m.execute()
		}
	}

	return m, m.input.Update(msg)
}

// cancelPending abandons an in-flight conversion or execution
func (m *ConverterModel) cancelPending() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false
	m.pending = ""
}

// selectService makes service the execution target and saves it as active
func (m *ConverterModel) selectService(service postgres.ServiceEntry) {
	m.picker = nil
	m.service = &service
	m.err = nil
	if m.cfg == nil {
		return
	}
	m.cfg.ActiveService = service.Name
	if err := m.cfg.Save(); err != nil {
		m.logger.Warn("failed to save active service", zap.Error(err))
	}
}

func (m *ConverterModel) reset() {
	m.question = ""
	m.result = nil
	m.sample = nil
	m.rows = nil
	m.historyID = ""
	m.err = nil
}

// submit starts a conversion. Blank input is a no-op.
func (m *ConverterModel) submit() tea.Cmd {
	question := m.input.Value()
	if m.loading || strings.TrimSpace(question) == "" {
		return nil
	}

	m.reset()
	m.loading = true
	m.loadingMessage = "Generating SQL..."
	m.pending = question

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	engine := m.engine

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := engine.Convert(ctx, question)
		return convertedMsg{question: question, result: res, err: err}
	})
}

func (m *ConverterModel) handleConverted(msg convertedMsg) {
	// Cleared or superseded while converting
	if !m.loading || msg.question != m.pending {
		return
	}
	m.cancelPending()
	if msg.err != nil {
		if !errors.Is(msg.err, converter.ErrEmptyQuery) {
			m.err = msg.err
		}
		return
	}

	m.question = msg.question
	m.result = msg.result
	if m.cfg == nil || m.cfg.Settings.ShowSampleResults {
		sample := converter.Sample(msg.question)
		m.sample = &sample
	}

	if m.cfg != nil {
		entry := config.NewHistoryEntry(msg.question, msg.result.SQL, string(msg.result.Complexity), msg.result.Pattern)
		m.historyID = entry.ID
		m.cfg.AddQueryToHistory(entry)
		if err := m.cfg.Save(); err != nil {
			m.logger.Warn("failed to save history", zap.Error(err))
		}
	}
}

// execute runs the current SQL against the configured service
func (m *ConverterModel) execute() tea.Cmd {
	if m.loading || m.result == nil {
		return nil
	}
	if m.service == nil {
		m.err = fmt.Errorf("no database service configured")
		return nil
	}

	m.loading = true
	m.loadingMessage = fmt.Sprintf("Executing on %s...", m.service.Name)
	m.err = nil

	service := m.service
	sql := m.result.SQL
	limit := 50
	if m.cfg != nil && m.cfg.Settings.DefaultRowLimit > 0 {
		limit = m.cfg.Settings.DefaultRowLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), executeTimeout)
	m.cancel = cancel

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		defer cancel()

		db, err := service.Connect(ctx)
		if err != nil {
			return executedMsg{err: err}
		}
		defer db.Close()

		rows, err := postgres.Execute(ctx, db, sql, limit)
		return executedMsg{rows: rows, err: err}
	})
}

func (m *ConverterModel) handleExecuted(msg executedMsg) {
	if !m.loading {
		return
	}
	m.cancelPending()
	m.rows = msg.rows
	m.err = msg.err

	if m.cfg == nil || m.historyID == "" {
		return
	}
	found := m.cfg.UpdateHistoryEntry(m.historyID, func(entry *config.QueryHistoryEntry) {
		entry.ServiceName = m.service.Name
		if msg.err != nil {
			entry.Success = false
			entry.ErrorMessage = msg.err.Error()
			return
		}
		entry.RowsAffected = msg.rows.RowCount
		entry.ExecutionTime = msg.rows.ExecutionTime
	})
	if !found {
		return
	}
	if err := m.cfg.Save(); err != nil {
		m.logger.Warn("failed to save history", zap.Error(err))
	}
}

// View renders the converter screen
func (m *ConverterModel) View() string {
	if m.picker != nil {
		return m.picker.View()
	}

	var b strings.Builder

	b.WriteString(RenderHeader("Converter", m.statusLine()))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorOrange).
			Render(m.spinner.View() + " " + m.loadingMessage))
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if m.result != nil {
		meta := lipgloss.NewStyle().Foreground(ColorGray).Render(m.patternLabel())
		b.WriteString(complexityBadge(m.result.Complexity) + "  " + meta)
		b.WriteString("\n")

		width := HeaderWidth
		if m.width > 8 {
			width = m.width - 8
		}
		b.WriteString(sqlPanel(m.result.SQL, width))
		b.WriteString("\n\n")
	}

	switch {
	case m.rows != nil:
		title := fmt.Sprintf("%d rows in %.1fms", m.rows.RowCount, m.rows.ExecutionTime)
		if m.rows.Truncated {
			title += " (truncated)"
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorGreen).Render(title))
		b.WriteString("\n")
		b.WriteString(strings.Join(renderTable(m.rows.Columns, m.rows.Rows, m.visibleRows()), "\n"))
		b.WriteString("\n\n")
	case m.sample != nil:
		title := m.sample.Title + " (sample data)"
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Render(title))
		b.WriteString("\n")
		b.WriteString(strings.Join(renderTable(m.sample.Columns, m.sample.Rows, m.visibleRows()), "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.helpLine())
	return b.String()
}

func (m *ConverterModel) statusLine() string {
	db := "No database"
	if m.service != nil {
		db = "DB: " + m.service.Name
	}
	queries := 0
	if m.cfg != nil {
		queries = len(m.cfg.QueryHistory)
	}
	return fmt.Sprintf("%s | Queries: %d | Delay: %s", db, queries, m.engine.Delay())
}

func (m *ConverterModel) patternLabel() string {
	if m.result.Trigger == "" {
		return "pattern: " + m.result.Pattern
	}
	return fmt.Sprintf("pattern: %s (matched %q)", m.result.Pattern, m.result.Trigger)
}

func (m *ConverterModel) visibleRows() int {
	if m.height <= 0 {
		return 10
	}
	// header, input, sql panel and help take roughly 30 lines
	rows := m.height - 30
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *ConverterModel) helpLine() string {
	parts := []string{"enter convert", "tab example", "esc clear"}
	if m.service != nil && m.result != nil {
		parts = append(parts, "ctrl+r execute")
	}
	parts = append(parts, "ctrl+d database")
	parts = append(parts, "ctrl+c quit")
	return lipgloss.NewStyle().Foreground(ColorGray).Render(strings.Join(parts, " • "))
}

// RunApp runs the interactive converter
func RunApp(opts Options) error {
	p := tea.NewProgram(NewConverterModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
