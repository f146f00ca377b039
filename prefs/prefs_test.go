package prefs

import (
	"errors"
	"strings"
	"testing"

	"github.com/automoto/beamarena/shared/netconfig"
)

type memKV struct {
	items map[string][]byte
	err   error
}

func (m *memKV) LoadItem(key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items[key], nil
}

func (m *memKV) SaveItem(key string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.items[key] = data
	return nil
}

func TestPlayerNameRoundTrip(t *testing.T) {
	kv := &memKV{items: map[string][]byte{}}
	s := New(kv)
	if got := s.PlayerName(); got != "" {
		t.Fatalf("fresh store name = %q", got)
	}
	if err := s.SetPlayerName("  ada "); err != nil {
		t.Fatal(err)
	}
	if got := s.PlayerName(); got != "ada" {
		t.Fatalf("name = %q, want ada", got)
	}
}

func TestSetPlayerNameRejectsEmpty(t *testing.T) {
	kv := &memKV{items: map[string][]byte{playerNameKey: []byte("kept")}}
	s := New(kv)
	for _, name := range []string{"", "   "} {
		if err := s.SetPlayerName(name); !errors.Is(err, ErrEmptyName) {
			t.Errorf("SetPlayerName(%q) err = %v", name, err)
		}
	}
	if got := s.PlayerName(); got != "kept" {
		t.Errorf("rejected name overwrote %q", got)
	}
}

func TestSetPlayerNameRejectsTooLong(t *testing.T) {
	kv := &memKV{items: map[string][]byte{playerNameKey: []byte("kept")}}
	s := New(kv)
	long := strings.Repeat("é", netconfig.MaxPlayerName+1)
	if err := s.SetPlayerName(long); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("SetPlayerName(long) err = %v", err)
	}
	if got := s.PlayerName(); got != "kept" {
		t.Errorf("too long name overwrote %q", got)
	}

	fits := strings.Repeat("é", netconfig.MaxPlayerName)
	if err := s.SetPlayerName(fits); err != nil {
		t.Fatalf("SetPlayerName(%d runes) err = %v", netconfig.MaxPlayerName, err)
	}
	if got := s.PlayerName(); got != fits {
		t.Errorf("name = %q", got)
	}

	var nilStore *Store
	if err := nilStore.SetPlayerName(long); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("nil store accepted a long name: %v", err)
	}
}

func TestStorageErrors(t *testing.T) {
	boom := errors.New("disk gone")
	s := New(&memKV{err: boom})
	if got := s.PlayerName(); got != "" {
		t.Errorf("name on load error = %q", got)
	}
	if err := s.SetPlayerName("ada"); !errors.Is(err, boom) {
		t.Errorf("save err = %v", err)
	}

	var nilStore *Store
	if nilStore.PlayerName() != "" || nilStore.SetPlayerName("x") != nil {
		t.Error("nil store should be a silent no-op")
	}
}
