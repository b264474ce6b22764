package cookies

import (
	"errors"
	"os"

	"github.com/99designs/keyring"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/brizzai/specfetch/internal/logger"
)

// KeyringStore keeps cookie values in the OS keyring, one item per cookie.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore wraps an opened keyring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// ErrKeyringPassword is returned by the encrypted-file backend when no
// passphrase is configured and there is no terminal to ask for one.
var ErrKeyringPassword = errors.New("set cookies.keyring.password or SPECFETCH_COOKIES_KEYRING_PASSWORD to use the file keyring without a terminal")

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// OpenKeyringStore opens the keyring for serviceName. fileDir and password
// are used by the encrypted-file fallback backend.
func OpenKeyringStore(serviceName, fileDir, password string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      serviceName,
		FileDir:          fileDir,
		FilePasswordFunc: keyringPassword(password),
	})
	if err != nil {
		return nil, err
	}
	return NewKeyringStore(ring), nil
}

// keyringPassword returns the passphrase source for the file backend. A
// configured password wins, then an interactive prompt.
func keyringPassword(password string) keyring.PromptFunc {
	if password != "" {
		return keyring.FixedStringPrompt(password)
	}
	return func(prompt string) (string, error) {
		if !stdinIsTerminal() {
			return "", ErrKeyringPassword
		}
		return keyring.TerminalPrompt(prompt)
	}
}

func (s *KeyringStore) Get(name string) string {
	item, err := s.ring.Get(name)
	if err != nil {
		if !errors.Is(err, keyring.ErrKeyNotFound) {
			logger.Warn("failed to read cookie from keyring", zap.String("cookie", name), zap.Error(err))
		}
		return ""
	}
	return string(item.Data)
}

// Set stores value under name.
func (s *KeyringStore) Set(name, value string) error {
	return s.ring.Set(keyring.Item{
		Key:   name,
		Data:  []byte(value),
		Label: "specfetch cookie " + name,
	})
}

// Delete removes the cookie.
func (s *KeyringStore) Delete(name string) error {
	err := s.ring.Remove(name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
