// Package secret keeps the backend session cookie in the OS keyring.
package secret

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "webmail-cli"

	// SessionKey is the keyring item holding the backend "sessionid" cookie.
	SessionKey = "sessionid"
)

// ErrNotFound is returned when no secret is stored under a key.
var ErrNotFound = errors.New("secret not found")

// Store wraps a keyring.
type Store struct {
	ring keyring.Keyring
}

// Open opens the platform keyring for this application.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:              serviceName,
		KeychainTrustApplication: true,
		FileDir:                  "~/.config/webmail-cli/keyring",
		FilePasswordFunc:         keyring.TerminalPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// New wraps an existing keyring.
func New(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Get returns the secret stored under key.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to keyring: %w", key, err)
	}
	return nil
}
