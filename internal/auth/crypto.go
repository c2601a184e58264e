package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// keySize is the size of the AES-256 key in bytes.
	keySize = 32
	// pbkdf2Iterations is the number of iterations for key derivation.
	pbkdf2Iterations = 100000
)

var (
	ErrInvalidKey       = errors.New("invalid encryption key: must be at least 32 characters")
	ErrInvalidBlob      = errors.New("invalid session blob")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Encryptor seals and opens the session blob with AES-256-GCM under a
// PBKDF2-derived key. The original scheme (fixed salt + Base64) was a
// placeholder, not a contract; an authenticated cipher replaces it.
type Encryptor struct {
	key []byte
}

// NewEncryptor derives the sealing key from the configured secret.
// The secret must be at least 32 characters.
func NewEncryptor(secret string) (*Encryptor, error) {
	if len(secret) < 32 {
		return nil, ErrInvalidKey
	}
	hash := sha256.Sum256([]byte(secret))
	key := pbkdf2.Key(hash[:], []byte("luminapay:session"), pbkdf2Iterations, keySize, sha256.New)
	return &Encryptor{key: key}, nil
}

// Seal encrypts plaintext and returns a single base64 token carrying
// nonce plus ciphertext.
func (e *Encryptor) Seal(plaintext string) (string, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a token produced by Seal.
func (e *Encryptor) Open(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidBlob
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating GCM: %w", err)
	}

	if len(raw) < gcm.NonceSize() {
		return "", ErrInvalidBlob
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
