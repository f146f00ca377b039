// Package prefs stores the player's display name between sessions.
package prefs

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/automoto/beamarena/shared/netconfig"
	"github.com/quasilyte/gdata"
)

const playerNameKey = "PlayerName"

var (
	ErrEmptyName   = errors.New("player name is empty")
	ErrNameTooLong = fmt.Errorf("player name is longer than %d characters", netconfig.MaxPlayerName)
)

// KeyValue is the subset of gdata.Manager the store needs.
type KeyValue interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// Store reads and writes the display name.
type Store struct {
	kv KeyValue
}

// Open opens the per-user gdata storage for appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	return New(m), nil
}

func New(kv KeyValue) *Store {
	return &Store{kv: kv}
}

// PlayerName returns the saved name, or "" when nothing is stored or the
// store is unavailable.
func (s *Store) PlayerName() string {
	if s == nil || s.kv == nil {
		return ""
	}
	data, err := s.kv.LoadItem(playerNameKey)
	if err != nil {
		log.Printf("[prefs] could not load player name: %v", err)
		return ""
	}
	return string(data)
}

// SetPlayerName saves name for future sessions. Empty names and names the
// server would refuse are rejected without touching the stored one.
func (s *Store) SetPlayerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		log.Printf("[prefs] player name is null or empty")
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > netconfig.MaxPlayerName {
		return ErrNameTooLong
	}
	if s == nil || s.kv == nil {
		return nil
	}
	if err := s.kv.SaveItem(playerNameKey, []byte(name)); err != nil {
		log.Printf("[prefs] could not save player name: %v", err)
		return fmt.Errorf("save player name: %w", err)
	}
	return nil
}
