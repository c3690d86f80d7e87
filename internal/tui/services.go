package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kartoza/kartoza-sql-lab/internal/postgres"
)

const connectionTestTimeout = 10 * time.Second

// ServicePickerModel lists pg_service.conf entries and selects one after a
// successful connection test
type ServicePickerModel struct {
	services       []postgres.ServiceEntry
	selectedItem   int
	active         string
	loading        bool
	spinner        spinner.Model
	error          string
	testingService string

	// testConnection is swapped out in tests
	testConnection func(ctx context.Context, service postgres.ServiceEntry) error
}

// servicesLoadedMsg indicates services have been loaded
type servicesLoadedMsg struct {
	services []postgres.ServiceEntry
	err      error
}

// serviceTestedMsg indicates a service connection test completed
type serviceTestedMsg struct {
	service postgres.ServiceEntry
	err     error
}

// serviceSelectedMsg indicates a service passed its connection test
type serviceSelectedMsg struct {
	service postgres.ServiceEntry
}

// pickerClosedMsg returns to the converter without changing the service
type pickerClosedMsg struct{}

var (
	keyPickerUp      = key.NewBinding(key.WithKeys("up", "k"))
	keyPickerDown    = key.NewBinding(key.WithKeys("down", "j"))
	keyPickerSelect  = key.NewBinding(key.WithKeys("enter", " "))
	keyPickerRefresh = key.NewBinding(key.WithKeys("r"))
	keyPickerBack    = key.NewBinding(key.WithKeys("esc"))
)

// NewServicePicker creates the service picker. active is marked in the list.
func NewServicePicker(active string) *ServicePickerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorOrange)

	return &ServicePickerModel{
		active:  active,
		loading: true,
		spinner: s,
		testConnection: func(ctx context.Context, service postgres.ServiceEntry) error {
			return service.TestConnection(ctx)
		},
	}
}

// Init loads the service file
func (m *ServicePickerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadServices())
}

func (m *ServicePickerModel) loadServices() tea.Cmd {
	return func() tea.Msg {
		services, err := postgres.ParsePGServiceFile()
		return servicesLoadedMsg{services: services, err: err}
	}
}

func (m *ServicePickerModel) testService(service postgres.ServiceEntry) tea.Cmd {
	test := m.testConnection
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTestTimeout)
		defer cancel()
		return serviceTestedMsg{service: service, err: test(ctx, service)}
	}
}

// Update handles messages for the service picker
func (m *ServicePickerModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading && m.testingService == "" {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case servicesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.error = msg.err.Error()
			return nil
		}
		m.services = msg.services
		m.selectedItem = 0
		for i, s := range m.services {
			if s.Name == m.active {
				m.selectedItem = i
			}
		}
		return nil

	case serviceTestedMsg:
		m.testingService = ""
		if msg.err != nil {
			m.error = fmt.Sprintf("Connection to '%s' failed: %v", msg.service.Name, msg.err)
			return nil
		}
		service := msg.service
		return func() tea.Msg { return serviceSelectedMsg{service: service} }

	case tea.KeyMsg:
		// Clear error on navigation
		if m.error != "" && !key.Matches(msg, keyPickerSelect) {
			m.error = ""
		}

		switch {
		case key.Matches(msg, keyPickerBack):
			return func() tea.Msg { return pickerClosedMsg{} }

		case key.Matches(msg, keyPickerUp):
			if len(m.services) > 0 {
				m.selectedItem--
				if m.selectedItem < 0 {
					m.selectedItem = len(m.services) - 1
				}
			}

		case key.Matches(msg, keyPickerDown):
			if len(m.services) > 0 {
				m.selectedItem++
				if m.selectedItem >= len(m.services) {
					m.selectedItem = 0
				}
			}

		case key.Matches(msg, keyPickerSelect):
			if m.testingService != "" || m.selectedItem >= len(m.services) {
				return nil
			}
			service := m.services[m.selectedItem]
			m.testingService = service.Name
			m.error = ""
			return tea.Batch(m.spinner.Tick, m.testService(service))

		case key.Matches(msg, keyPickerRefresh):
			m.loading = true
			m.error = ""
			return tea.Batch(m.spinner.Tick, m.loadServices())
		}
	}
	return nil
}

// View renders the service list
func (m *ServicePickerModel) View() string {
	var b strings.Builder

	b.WriteString(RenderHeader("Database Services", "Select a database service from pg_service.conf"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorOrange).
			Render(m.spinner.View() + " Loading pg_service.conf..."))
		b.WriteString("\n")
		return b.String()
	}

	if m.error != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("Error: " + m.error))
		b.WriteString("\n\n")
	}

	if m.testingService != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorOrange).
			Render(m.spinner.View() + " Testing connection to '" + m.testingService + "'..."))
		b.WriteString("\n\n")
	}

	if len(m.services) == 0 {
		subtle := lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
		b.WriteString(subtle.Render("No services found in pg_service.conf"))
		b.WriteString("\n")
		b.WriteString(subtle.Render("Create ~/.pg_service.conf with your database connections"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(strings.Join(renderTable(
			[]string{"  ", "Service", "Host", "Database"},
			m.serviceRows(),
			0,
		), "\n"))
		b.WriteString("\n\n")
	}

	help := "↑/k: up • ↓/j: down • enter: connect • r: refresh • esc: back"
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGray).Render(help))
	return b.String()
}

// serviceRows marks the cursor with ▶ and the active service with ●
func (m *ServicePickerModel) serviceRows() [][]string {
	rows := make([][]string, len(m.services))
	for i, s := range m.services {
		marker := " "
		if i == m.selectedItem {
			marker = "▶"
		}
		status := "○"
		if s.Name == m.active {
			status = "●"
		}
		rows[i] = []string{marker + status, s.Name, s.Host, s.DBName}
	}
	return rows
}
