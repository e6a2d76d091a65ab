// Package directory is the data behind the backend contract stub: the users
// who may log in, keyed by passcode, and the answers they submitted.
package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/DSACMS/survey-session-client/pkg/identity"
)

var ErrDuplicatePassword = errors.New("duplicate password")

// User is one entry of a users file: the identity plus its login code.
type User struct {
	identity.Identity
	Password string `json:"password"`
}

// Directory looks users up by passcode. Safe for concurrent use.
type Directory struct {
	mu         sync.RWMutex
	byPassword map[string]identity.Identity
	byID       map[string]identity.Identity
}

func New(users ...User) (*Directory, error) {
	d := &Directory{
		byPassword: make(map[string]identity.Identity, len(users)),
		byID:       make(map[string]identity.Identity, len(users)),
	}

	for _, u := range users {
		if err := d.Add(u); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Demo is the directory the stub serves when no users file is configured.
func Demo() *Directory {
	d, _ := New(User{
		Identity: identity.Identity{
			ID:           "1",
			FirstName:    "Ana",
			LastName:     "Li",
			Email:        "ana.li@example.com",
			CurrentClass: "S1",
		},
		Password: "AB12CD",
	})
	return d
}

func (d *Directory) Add(u User) error {
	if u.ID == "" {
		return errors.New("user without id")
	}
	if u.Password == "" {
		return fmt.Errorf("user %s has no password", u.ID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if owner, taken := d.byPassword[u.Password]; taken && owner.ID != u.ID {
		return fmt.Errorf("%w for users %s and %s", ErrDuplicatePassword, owner.ID, u.ID)
	}

	d.byPassword[u.Password] = u.Identity
	d.byID[u.ID] = u.Identity
	return nil
}

func (d *Directory) ByPassword(password string) (identity.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byPassword[password]
	return id, ok
}

func (d *Directory) ByID(id string) (identity.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byID[id]
	return u, ok
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}

type usersFile struct {
	Users []User `json:"users"`
}

// Load reads a users file. Both {"users": [...]} and a bare array are
// accepted.
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var users []User

	var wrapped usersFile
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		users = wrapped.Users
	} else if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users file %s: %w", path, err)
	}

	d, err := New(users...)
	if err != nil {
		return nil, fmt.Errorf("users file %s: %w", path, err)
	}
	return d, nil
}
