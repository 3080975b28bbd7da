// Package secret шифрует короткие секреты (api hash, токены ботов) для хранения.
// Формат: base64(nonce || secretbox).
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
	prefix    = "sb1:"
)

// ErrInvalidKey ключ не является 32 байтами в hex.
var ErrInvalidKey = errors.New("seal key must be 64 hex characters")

// ErrDecrypt данные повреждены или зашифрованы другим ключом.
var ErrDecrypt = errors.New("cannot open sealed value")

// Sealer шифрует и расшифровывает значения одним ключом.
type Sealer struct {
	key [keySize]byte
}

// NewSealer создаёт Sealer из hex-ключа.
func NewSealer(hexKey string) (*Sealer, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil || len(raw) != keySize {
		return nil, ErrInvalidKey
	}
	s := &Sealer{}
	copy(s.key[:], raw)
	return s, nil
}

// GenerateKey возвращает новый случайный ключ в hex.
func GenerateKey() (string, error) {
	var k [keySize]byte
	if _, err := io.ReadFull(rand.Reader, k[:]); err != nil {
		return "", fmt.Errorf("secret.GenerateKey: %w", err)
	}
	return hex.EncodeToString(k[:]), nil
}

// Seal шифрует plaintext. Пустая строка остаётся пустой.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secret.Seal: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return prefix + base64.StdEncoding.EncodeToString(box), nil
}

// Open расшифровывает значение, полученное из Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	if !strings.HasPrefix(sealed, prefix) {
		return "", ErrDecrypt
	}
	box, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, prefix))
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// Mask скрывает всё, кроме последних четырёх символов.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
