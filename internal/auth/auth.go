// Package auth implements the login gate: entered passcodes are hashed
// with SHA-256 and compared against a static credential list. This is a
// learning-exercise gate, not hardened authentication; there is no
// lockout, rate limiting, or session expiry.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
)

// ErrInvalidCredentials deliberately does not say which field was wrong
var ErrInvalidCredentials = errors.New("invalid username or passcode")

// Credential pairs a username with the hex SHA-256 digest of its passcode
type Credential struct {
	Username string `json:"username"`
	Passcode string `json:"passcode"`
}

type credentialsFile struct {
	Users []Credential `json:"users"`
}

// FallbackCredential is the hardcoded development login (test / 1234),
// used when the credentials file is absent or empty.
func FallbackCredential() Credential {
	return Credential{Username: "test", Passcode: HashPasscode("1234")}
}

// HashPasscode returns the lowercase hex SHA-256 digest of a passcode
func HashPasscode(passcode string) string {
	sum := sha256.Sum256([]byte(passcode))
	return hex.EncodeToString(sum[:])
}

// LoadCredentials reads the credential list from a JSON file with a
// "users" array. A missing, unreadable, or empty file falls back to the
// single development credential.
func LoadCredentials(path string) []Credential {
	raw, err := os.ReadFile(path)
	if err != nil {
		return []Credential{FallbackCredential()}
	}

	var file credentialsFile
	if err := json.Unmarshal(raw, &file); err != nil || len(file.Users) == 0 {
		return []Credential{FallbackCredential()}
	}

	return file.Users
}

// Gate is the two-state login machine: logged out until a credential
// matches, logged in after.
type Gate struct {
	users    []Credential
	loggedIn bool
	username string
}

// NewGate creates a Gate over an in-memory credential list
func NewGate(users []Credential) *Gate {
	return &Gate{users: users}
}

// Login hashes the entered passcode and looks for an exact
// (username, digest) match. On success the gate transitions to logged in.
func (g *Gate) Login(username, passcode string) error {
	digest := HashPasscode(passcode)
	for _, u := range g.users {
		if u.Username == username && u.Passcode == digest {
			g.loggedIn = true
			g.username = username
			return nil
		}
	}
	return ErrInvalidCredentials
}

// Logout returns the gate to the logged-out state
func (g *Gate) Logout() {
	g.loggedIn = false
	g.username = ""
}

// LoggedIn reports the gate state
func (g *Gate) LoggedIn() bool {
	return g.loggedIn
}

// Username returns the authenticated username, empty when logged out
func (g *Gate) Username() string {
	return g.username
}
