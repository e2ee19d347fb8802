// Package helpers provides shared helper functions for the sendeth frame
// handlers. They are used by the core handlers and by the chi and gin
// adapters to ensure consistent behavior.
package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// AmountField is the form field carrying the amount.
const AmountField = "amount"

// WantsJSON reports whether the client asked for a JSON response instead
// of a redirect back to the card.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignore encoding errors - the status is already sent
	_ = json.NewEncoder(w).Encode(v)
}

// PostedAmount returns the amount field of a form post and whether it was
// present at all. A disabled input is not submitted, so absence is not the
// same as an empty string.
func PostedAmount(r *http.Request) (string, bool, error) {
	if err := r.ParseForm(); err != nil {
		return "", false, err
	}
	values, ok := r.PostForm[AmountField]
	if !ok || len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

// SeeOther redirects a form post back to path.
func SeeOther(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
