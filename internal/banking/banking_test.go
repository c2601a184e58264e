package banking

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "luminapay/internal/errors"
)

func TestService_VerifyIFSC(t *testing.T) {
	s := NewService(time.Millisecond)

	v, err := s.VerifyIFSC(context.Background(), "HDFC0000001")
	if err != nil {
		t.Fatalf("VerifyIFSC() error = %v", err)
	}
	if v.Branch != "HDFC BANK - CONNAUGHT PLACE" {
		t.Errorf("branch = %q", v.Branch)
	}
	if v.IFSC != "HDFC0000001" {
		t.Errorf("ifsc = %q", v.IFSC)
	}
}

func TestService_VerifyIFSC_Invalid(t *testing.T) {
	s := NewService(time.Millisecond)

	invalid := []string{
		"",
		"HDFC000001",   // 10 chars
		"HDFC00000012", // 12 chars
		"HDFC1000001",  // fifth char must be 0
		"hdfc0000001",  // lower case
		"1DFC0000001",  // bank code must be letters
	}
	for _, ifsc := range invalid {
		if _, err := s.VerifyIFSC(context.Background(), ifsc); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("VerifyIFSC(%q) error = %v, want ErrValidation", ifsc, err)
		}
	}
}

func TestService_VerifyIFSC_Cancelled(t *testing.T) {
	s := NewService(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.VerifyIFSC(ctx, "HDFC0000001"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
