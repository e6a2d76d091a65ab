package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed marks a value that does not describe a complete Identity.
var ErrMalformed = errors.New("malformed identity")

// Identity is the authenticated user returned by login. JSON names are the
// literal shape the backend returns and the session persists.
type Identity struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	CurrentClass string `json:"currentClass"`
}

type wireIdentity struct {
	ID           opaqueID `json:"id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	CurrentClass string   `json:"currentClass"`
}

// opaqueID accepts a JSON string or number and keeps its literal text.
type opaqueID string

func (o *opaqueID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = opaqueID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*o = opaqueID(n.String())
	return nil
}

// Decode is the only way raw bytes become an Identity. Anything that is not
// a JSON object with correctly typed fields and a non-empty id is rejected
// with ErrMalformed.
func Decode(raw []byte) (Identity, error) {
	var w wireIdentity

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&w); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if dec.More() {
		return Identity{}, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	if w.ID == "" {
		return Identity{}, fmt.Errorf("%w: missing id", ErrMalformed)
	}

	return Identity{
		ID:           string(w.ID),
		FirstName:    w.FirstName,
		LastName:     w.LastName,
		Email:        w.Email,
		CurrentClass: w.CurrentClass,
	}, nil
}

func Encode(id Identity) ([]byte, error) {
	return json.Marshal(id)
}
