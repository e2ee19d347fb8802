// Package tui renders the send-ETH card in a terminal with bubbletea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mark3labs/sendeth-frame"
	"github.com/mark3labs/sendeth-frame/widget"
)

// CardWidth is the fixed outer width of the card in cells.
const CardWidth = 48

var (
	cardStyle = lipgloss.NewStyle().
			Width(CardWidth).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7c3aed"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1e1e2e")).
			Background(lipgloss.Color("#cdd6f4")).
			Padding(0, 1)
	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#7c3aed")).
			Padding(0, 2)
	disabledButtonStyle = buttonStyle.
				Background(lipgloss.Color("#a78bfa")).
				Bold(false)
)

type readyMsg struct{}

type changedMsg struct{}

type actionDoneMsg struct {
	err error
}

// Model is the bubbletea model for the card.
type Model struct {
	ctrl    *widget.Controller
	latch   *widget.Latch
	card    widget.Card
	changed chan struct{}

	input textinput.Model
	state widget.State
}

// New builds the card and its controller. opts are passed to widget.New;
// the change hook is installed here.
func New(bridge sendeth.Bridge, latch *widget.Latch, card widget.Card, opts ...widget.Option) (Model, error) {
	changed := make(chan struct{}, 1)
	opts = append(opts, widget.WithOnChange(func(widget.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	ctrl, err := widget.New(bridge, latch, opts...)
	if err != nil {
		return Model{}, err
	}

	inp := textinput.New()
	inp.Prompt = "Ξ "
	inp.Placeholder = widget.DefaultAmount
	inp.CharLimit = 32
	inp.SetValue(ctrl.State().Amount)

	return Model{
		ctrl:    ctrl,
		latch:   latch,
		card:    card,
		changed: changed,
		input:   inp,
		state:   ctrl.State(),
	}, nil
}

// Controller exposes the underlying controller.
func (m Model) Controller() *widget.Controller {
	return m.ctrl
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitReady(m.latch), waitChange(m.changed))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case readyMsg:
		m.state = m.ctrl.State()
		return m, m.input.Focus()

	case changedMsg:
		m.state = m.ctrl.State()
		return m, waitChange(m.changed)

	case actionDoneMsg:
		m.state = m.ctrl.State()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m, m.action()
		}

		if !m.state.Ready || m.state.Sending {
			return m, nil
		}
		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.ctrl.HandleAmountChange(m.input.Value())
			m.state = m.ctrl.State()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// action is the Enter key: the card's single primary button.
func (m Model) action() tea.Cmd {
	view := widget.NewView(m.state, m.card)
	if view.Loading || view.ActionDisabled {
		return nil
	}

	ctrl := m.ctrl
	if view.ActionPath == widget.ConnectPath {
		return func() tea.Msg {
			return actionDoneMsg{err: ctrl.Connect(context.Background())}
		}
	}
	return func() tea.Msg {
		return actionDoneMsg{err: ctrl.Send(context.Background())}
	}
}

func (m Model) View() string {
	view := widget.NewView(m.state, m.card)

	if view.Loading {
		return mutedStyle.Render(widget.LoadingText) + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(view.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(view.Description))
	b.WriteString("\n\n")

	b.WriteString("Amount (ETH)\n")
	if view.InputDisabled {
		b.WriteString(mutedStyle.Render(m.input.Prompt + view.Amount))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n\n")

	if view.ShowStatus {
		b.WriteString(statusStyle.Render(view.Status))
		b.WriteString("\n\n")
	}
	if view.ShowTxHash {
		tx := "Transaction: " + view.TxHash
		if view.TxURL != "" {
			tx = "Transaction: " + view.TxURL
		}
		b.WriteString(mutedStyle.Render(tx))
		b.WriteString("\n\n")
	}

	if view.ActionDisabled {
		b.WriteString(disabledButtonStyle.Render(view.ActionLabel))
	} else {
		b.WriteString(buttonStyle.Render(view.ActionLabel))
	}
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("enter: " + strings.ToLower(view.ActionLabel) + " • esc: quit"))

	return cardStyle.Render(b.String()) + "\n"
}

func waitReady(latch *widget.Latch) tea.Cmd {
	return func() tea.Msg {
		<-latch.Done()
		return readyMsg{}
	}
}

func waitChange(changed <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changed
		return changedMsg{}
	}
}
