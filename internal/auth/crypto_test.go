package auth

import (
	"errors"
	"strings"
	"testing"
)

const testSecret = "test-secret-key-that-is-32-chars!!"

func TestNewEncryptor_ShortSecret(t *testing.T) {
	if _, err := NewEncryptor("too-short"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("error = %v, want ErrInvalidKey", err)
	}
}

func TestEncryptor_SealOpen_Roundtrip(t *testing.T) {
	e, err := NewEncryptor(testSecret)
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}

	plaintext := `{"name":"Alex Morgan","payment_address":"alex@lumina"}`
	sealed, err := e.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if sealed == plaintext {
		t.Error("sealed output must not equal plaintext")
	}

	opened, err := e.Open(sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened != plaintext {
		t.Errorf("Open() = %q, want %q", opened, plaintext)
	}
}

func TestEncryptor_Seal_UniqueNonce(t *testing.T) {
	e, _ := NewEncryptor(testSecret)

	a, _ := e.Seal("same input")
	b, _ := e.Seal("same input")
	if a == b {
		t.Error("two seals of the same input must differ")
	}
}

func TestEncryptor_Open_WrongKey(t *testing.T) {
	e1, _ := NewEncryptor(testSecret)
	e2, _ := NewEncryptor("another-secret-key-also-32-chars!!!")

	sealed, _ := e1.Seal("secret data")
	if _, err := e2.Open(sealed); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("error = %v, want ErrDecryptionFailed", err)
	}
}

func TestEncryptor_Open_Tampered(t *testing.T) {
	e, _ := NewEncryptor(testSecret)

	sealed, _ := e.Seal("secret data")
	tampered := strings.Replace(sealed, sealed[10:11], "A", 1)
	if tampered == sealed {
		tampered = strings.Replace(sealed, sealed[10:11], "B", 1)
	}

	if _, err := e.Open(tampered); err == nil {
		t.Error("Open() succeeded on tampered input")
	}
}

func TestEncryptor_Open_Garbage(t *testing.T) {
	e, _ := NewEncryptor(testSecret)

	if _, err := e.Open("not base64 at all!!!"); !errors.Is(err, ErrInvalidBlob) {
		t.Errorf("error = %v, want ErrInvalidBlob", err)
	}
	if _, err := e.Open("c2hvcnQ="); !errors.Is(err, ErrInvalidBlob) { // shorter than a nonce
		t.Errorf("error = %v, want ErrInvalidBlob", err)
	}
}
