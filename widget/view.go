package widget

const (
	DefaultTitle       = "Send ETH to furlong.eth"
	DefaultDescription = "Support df by sending some ETH directly from this frame"

	LoadingText   = "Loading Frame SDK..."
	ConnectLabel  = "Connect Wallet"
	SendingLabel  = "Sending..."
	ConnectPath   = "/connect"
	SendPath      = "/send"
	AmountStep    = "0.001"
	AmountMinimum = "0.001"
)

// Card holds the static copy around the widget.
type Card struct {
	Title       string
	Description string
	// ExplorerTxURL, when set, is the prefix a transaction hash is
	// appended to for the hash link.
	ExplorerTxURL string
}

// DefaultCard returns the stock card copy.
func DefaultCard() Card {
	return Card{Title: DefaultTitle, Description: DefaultDescription}
}

// View is everything a surface needs to draw the card. It is derived
// from State alone.
type View struct {
	Card

	Loading        bool
	Amount         string
	InputDisabled  bool
	ShowStatus     bool
	Status         string
	ShowTxHash     bool
	TxHash         string
	TxURL          string
	ActionLabel    string
	ActionPath     string
	ActionDisabled bool
	Step           string
	Min            string
}

// NewView maps state onto the card.
func NewView(state State, card Card) View {
	if card.Title == "" {
		card.Title = DefaultTitle
	}
	if card.Description == "" {
		card.Description = DefaultDescription
	}

	v := View{Card: card}
	if !state.Ready {
		v.Loading = true
		return v
	}

	v.Amount = state.Amount
	v.Step = AmountStep
	v.Min = AmountMinimum
	v.InputDisabled = state.Sending

	v.ShowStatus = state.Status != ""
	v.Status = state.Status

	if state.TxHash != nil {
		v.ShowTxHash = true
		v.TxHash = *state.TxHash
		if card.ExplorerTxURL != "" && len(v.TxHash) > 2 && v.TxHash[:2] == "0x" {
			v.TxURL = card.ExplorerTxURL + v.TxHash
		}
	}

	switch {
	case !state.Connected:
		v.ActionLabel = ConnectLabel
		v.ActionPath = ConnectPath
	case state.Sending:
		v.ActionLabel = SendingLabel
		v.ActionPath = SendPath
	default:
		v.ActionLabel = "Send " + state.Amount + " ETH"
		v.ActionPath = SendPath
	}
	v.ActionDisabled = state.Sending

	return v
}
