package widget

import (
	"bytes"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestNewView(t *testing.T) {
	tests := []struct {
		name  string
		state State
		card  Card
		want  View
	}{
		{
			name:  "not ready",
			state: State{Amount: "0.01", Status: "ignored", TxHash: strPtr("0x1")},
			want:  View{Card: DefaultCard(), Loading: true},
		},
		{
			name:  "ready disconnected",
			state: State{Ready: true, Amount: "0.01"},
			want: View{
				Card: DefaultCard(), Amount: "0.01", Step: AmountStep, Min: AmountMinimum,
				ActionLabel: ConnectLabel, ActionPath: ConnectPath,
			},
		},
		{
			name:  "connected",
			state: State{Ready: true, Amount: "0.25", Connected: true, Status: StatusConnected},
			want: View{
				Card: DefaultCard(), Amount: "0.25", Step: AmountStep, Min: AmountMinimum,
				ShowStatus: true, Status: StatusConnected,
				ActionLabel: "Send 0.25 ETH", ActionPath: SendPath,
			},
		},
		{
			name:  "sending",
			state: State{Ready: true, Amount: "0.25", Connected: true, Sending: true, Status: StatusSending},
			want: View{
				Card: DefaultCard(), Amount: "0.25", Step: AmountStep, Min: AmountMinimum,
				InputDisabled: true, ShowStatus: true, Status: StatusSending,
				ActionLabel: SendingLabel, ActionPath: SendPath, ActionDisabled: true,
			},
		},
		{
			name:  "sent with explorer",
			state: State{Ready: true, Amount: "1", Connected: true, Status: "Transaction sent! Hash: 0xabcdef12...", TxHash: strPtr("0xabcdef1234")},
			card:  Card{ExplorerTxURL: "https://basescan.org/tx/"},
			want: View{
				Card:   Card{Title: DefaultTitle, Description: DefaultDescription, ExplorerTxURL: "https://basescan.org/tx/"},
				Amount: "1", Step: AmountStep, Min: AmountMinimum,
				ShowStatus: true, Status: "Transaction sent! Hash: 0xabcdef12...",
				ShowTxHash: true, TxHash: "0xabcdef1234", TxURL: "https://basescan.org/tx/0xabcdef1234",
				ActionLabel: "Send 1 ETH", ActionPath: SendPath,
			},
		},
		{
			name:  "placeholder id gets no link",
			state: State{Ready: true, Amount: "1", Connected: true, TxHash: strPtr("Transaction submitted")},
			card:  Card{Title: "Tip jar", Description: "Thanks", ExplorerTxURL: "https://etherscan.io/tx/"},
			want: View{
				Card:   Card{Title: "Tip jar", Description: "Thanks", ExplorerTxURL: "https://etherscan.io/tx/"},
				Amount: "1", Step: AmountStep, Min: AmountMinimum,
				ShowTxHash: true, TxHash: "Transaction submitted",
				ActionLabel: "Send 1 ETH", ActionPath: SendPath,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewView(tt.state, tt.card)
			if got != tt.want {
				t.Errorf("NewView() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func render(t *testing.T, state State) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, NewView(state, DefaultCard())); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestRender_Loading(t *testing.T) {
	out := render(t, State{Amount: "0.01"})

	if !strings.Contains(out, LoadingText) {
		t.Error("missing loading placeholder")
	}
	for _, absent := range []string{"<form", "<input", "<button", DefaultTitle, DefaultDescription} {
		if strings.Contains(out, absent) {
			t.Errorf("loading card must not contain %s", absent)
		}
	}
}

func TestRender_Ready(t *testing.T) {
	out := render(t, State{Ready: true, Amount: "0.01"})

	for _, want := range []string{
		DefaultTitle,
		DefaultDescription,
		`action="/connect"`,
		`name="amount"`,
		`type="number"`,
		`step="0.001"`,
		`min="0.001"`,
		`value="0.01"`,
		">Connect Wallet</button>",
		"width:300px",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
	for _, absent := range []string{`class="status"`, `class="tx"`, "disabled>", "http-equiv"} {
		if strings.Contains(out, absent) {
			t.Errorf("unexpected %q", absent)
		}
	}
	if strings.Count(out, "<button") != 1 {
		t.Error("expected exactly one action")
	}
}

func TestRender_Sending(t *testing.T) {
	out := render(t, State{Ready: true, Amount: "0.5", Connected: true, Sending: true, Status: StatusSending})

	for _, want := range []string{
		`action="/send"`,
		`value="0.5" disabled>`,
		`<button type="submit" disabled>Sending...</button>`,
		`<div class="status">Sending transaction...</div>`,
		`http-equiv="refresh"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestRender_EscapesUserInput(t *testing.T) {
	out := render(t, State{Ready: true, Amount: `"><script>alert(1)</script>`, Connected: true})

	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatal("amount was not escaped")
	}
}

func TestRender_TxLink(t *testing.T) {
	var buf bytes.Buffer
	v := NewView(State{Ready: true, Amount: "1", Connected: true, TxHash: strPtr("0xdeadbeef00")},
		Card{ExplorerTxURL: "https://basescan.org/tx/"})
	if err := Render(&buf, v); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), `<a href="https://basescan.org/tx/0xdeadbeef00"`) {
		t.Errorf("missing explorer link:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), ">Send 1 ETH</button>") {
		t.Error("missing send label")
	}
}
