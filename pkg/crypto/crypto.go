package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

// Cipher seals text with AES-256-GCM and encodes the result as base64.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives a 32 byte key from key with FixEncryptionKey.
func NewCipher(key string) (*Cipher, error) {
	block, err := aes.NewCipher([]byte(FixEncryptionKey(key)))
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Seal encrypts data; the random nonce is prepended to the ciphertext.
func (c *Cipher) Seal(data string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(data), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal.
func (c *Cipher) Open(data string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	size := c.aead.NonceSize()
	if len(raw) < size {
		return "", errors.New("ciphertext too short")
	}
	plain, err := c.aead.Open(nil, raw[:size], raw[size:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// FixEncryptionKey pads or truncates key to 32 bytes.
func FixEncryptionKey(key string) string {
	if len(key) < 32 {
		return key + strings.Repeat("0", 32-len(key))
	}
	return key[:32]
}
