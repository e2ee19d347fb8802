package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mark3labs/sendeth-frame"
	"github.com/mark3labs/sendeth-frame/bridgetest"
	"github.com/mark3labs/sendeth-frame/widget"
)

const testRecipient = "0x209693Bc6afc0C5328bA36FaF03C514EF312287C"

func newModel(t *testing.T, bridge sendeth.Bridge, latch *widget.Latch) Model {
	t.Helper()
	m, err := New(bridge, latch, widget.DefaultCard(), widget.WithRecipient(testRecipient))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends Enter and runs the resulting action to completion.
func press(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("enter produced no action")
	}
	m, _ = update(t, m, cmd())
	return m
}

func TestModel_Loading(t *testing.T) {
	m := newModel(t, bridgetest.New(), widget.NewLatch())

	if m.Init() == nil {
		t.Fatal("Init should start the readiness watch")
	}
	out := m.View()
	if !strings.Contains(out, widget.LoadingText) {
		t.Errorf("expected loading placeholder:\n%s", out)
	}
	for _, absent := range []string{widget.ConnectLabel, widget.DefaultTitle, widget.DefaultDescription} {
		if strings.Contains(out, absent) {
			t.Errorf("loading view must not contain %q:\n%s", absent, out)
		}
	}

	_, cmd := update(t, m, key("enter"))
	if cmd != nil {
		t.Error("enter must do nothing while loading")
	}
}

func TestModel_ConnectAndSend(t *testing.T) {
	bridge := bridgetest.New()
	latch := widget.NewLatch()
	latch.Set()
	m := newModel(t, bridge, latch)

	m, _ = update(t, m, readyMsg{})
	if !strings.Contains(m.View(), widget.ConnectLabel) {
		t.Fatalf("expected connect button:\n%s", m.View())
	}

	m = press(t, m)
	out := m.View()
	if !strings.Contains(out, widget.StatusConnected) {
		t.Errorf("expected connected status:\n%s", out)
	}
	if !strings.Contains(out, "Send 0.01 ETH") {
		t.Errorf("expected send button:\n%s", out)
	}

	m, _ = update(t, m, key("5"))
	if got := m.Controller().State().Amount; got != "0.015" {
		t.Fatalf("amount = %q, want 0.015", got)
	}

	m = press(t, m)
	if !strings.Contains(m.View(), "Transaction sent!") {
		t.Errorf("expected sent status:\n%s", m.View())
	}

	transfers := bridge.Transfers()
	if len(transfers) != 1 || transfers[0].Value != "15000000000000000" || transfers[0].To != testRecipient {
		t.Errorf("transfers = %+v", transfers)
	}
}

func TestModel_ConnectFailure(t *testing.T) {
	latch := widget.NewLatch()
	latch.Set()
	m := newModel(t, bridgetest.New(bridgetest.WithSignError(errors.New("rejected"))), latch)
	m, _ = update(t, m, readyMsg{})

	m = press(t, m)
	if !strings.Contains(m.View(), widget.StatusConnectFailed) {
		t.Errorf("expected failure status:\n%s", m.View())
	}
	if !strings.Contains(m.View(), widget.ConnectLabel) {
		t.Error("connect button should remain")
	}
}

func TestModel_InputLockedWhileSending(t *testing.T) {
	gate := make(chan struct{})
	bridge := bridgetest.New(bridgetest.WithGate(gate))
	latch := widget.NewLatch()
	latch.Set()
	m := newModel(t, bridge, latch)
	m, _ = update(t, m, readyMsg{})

	go func() { gate <- struct{}{} }()
	m = press(t, m)
	<-bridge.Entered()

	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("expected send action")
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	<-bridge.Entered()

	m, _ = update(t, m, changedMsg{})
	if !m.state.Sending {
		t.Fatal("state should show sending")
	}
	if !strings.Contains(m.View(), widget.SendingLabel) {
		t.Errorf("expected sending label:\n%s", m.View())
	}
	if _, cmd := update(t, m, key("enter")); cmd != nil {
		t.Error("enter must be ignored while sending")
	}
	m, _ = update(t, m, key("9"))
	if got := m.Controller().State().Amount; got != widget.DefaultAmount {
		t.Errorf("amount changed while sending: %q", got)
	}

	close(gate)
	m, _ = update(t, m, <-done)
	if m.state.Sending {
		t.Error("sending should be false after the transfer")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, bridgetest.New(), widget.NewLatch())

	for _, k := range []tea.KeyMsg{key("esc"), {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, m, k)
		if cmd == nil {
			t.Fatalf("%s: expected quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestNew_InvalidRecipient(t *testing.T) {
	_, err := New(bridgetest.New(), widget.NewLatch(), widget.DefaultCard(), widget.WithRecipient("nope"))
	if !errors.Is(err, sendeth.ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}
