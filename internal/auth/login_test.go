package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/models"
)

func newTestLogin(t *testing.T) *LoginFlow {
	t.Helper()
	return NewLoginFlow(time.Millisecond)
}

func TestLoginFlow_FullJourney(t *testing.T) {
	ctx := context.Background()
	f := newTestLogin(t)

	if f.Step() != StepPhone {
		t.Fatalf("step = %s, want PHONE", f.Step())
	}

	if err := f.SubmitPhone(ctx, "+91 98765 43210"); err != nil {
		t.Fatalf("SubmitPhone() error = %v", err)
	}
	if f.Step() != StepPhoneOTP {
		t.Fatalf("step = %s, want OTP_PHONE", f.Step())
	}

	if err := f.VerifyPhoneOTP(ctx, "123456"); err != nil {
		t.Fatalf("VerifyPhoneOTP() error = %v", err)
	}
	if f.Step() != StepEmail {
		t.Fatalf("step = %s, want EMAIL", f.Step())
	}

	if err := f.SubmitEmail(ctx, "alex.morgan@example.com"); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}

	profile, err := f.VerifyEmailOTP(ctx, "123456")
	if err != nil {
		t.Fatalf("VerifyEmailOTP() error = %v", err)
	}
	if profile.Name != "Alex Morgan" {
		t.Errorf("name = %q, want Alex Morgan", profile.Name)
	}
	if profile.Phone != "9876543210" {
		t.Errorf("phone = %q, want normalized 9876543210", profile.Phone)
	}
	if profile.PaymentAddress != "alex.morgan@lumina" {
		t.Errorf("payment address = %q, want alex.morgan@lumina", profile.PaymentAddress)
	}
	if profile.KYCStatus != models.KYCVerified {
		t.Errorf("kyc = %q, want Verified", profile.KYCStatus)
	}
	if f.Step() != StepDone {
		t.Errorf("step = %s, want DONE", f.Step())
	}
}

func TestLoginFlow_InvalidPhone(t *testing.T) {
	f := newTestLogin(t)

	for _, phone := range []string{"", "12345", "5876543210"} {
		if err := f.SubmitPhone(context.Background(), phone); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("SubmitPhone(%q) error = %v, want ErrValidation", phone, err)
		}
	}
	if f.Step() != StepPhone {
		t.Errorf("step = %s, invalid phone must not advance", f.Step())
	}
}

func TestLoginFlow_WrongOTP(t *testing.T) {
	ctx := context.Background()
	f := newTestLogin(t)
	f.SubmitPhone(ctx, "9876543210")

	for _, otp := range []string{"", "123", "000000", "1234567"} {
		if err := f.VerifyPhoneOTP(ctx, otp); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("VerifyPhoneOTP(%q) error = %v, want ErrValidation", otp, err)
		}
	}
	if f.Step() != StepPhoneOTP {
		t.Errorf("step = %s, wrong OTP must not advance", f.Step())
	}
}

func TestLoginFlow_StepOrderEnforced(t *testing.T) {
	ctx := context.Background()
	f := newTestLogin(t)

	if err := f.VerifyPhoneOTP(ctx, "123456"); !errors.Is(err, apperrors.ErrFlowState) {
		t.Errorf("OTP before phone error = %v, want ErrFlowState", err)
	}
	if err := f.SubmitEmail(ctx, "a@b.com"); !errors.Is(err, apperrors.ErrFlowState) {
		t.Errorf("email before phone error = %v, want ErrFlowState", err)
	}
	if _, err := f.VerifyEmailOTP(ctx, "123456"); !errors.Is(err, apperrors.ErrFlowState) {
		t.Errorf("email OTP before email error = %v, want ErrFlowState", err)
	}
}

func TestLoginFlow_InvalidEmail(t *testing.T) {
	ctx := context.Background()
	f := newTestLogin(t)
	f.SubmitPhone(ctx, "9876543210")
	f.VerifyPhoneOTP(ctx, "123456")

	if err := f.SubmitEmail(ctx, "not-an-email"); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("SubmitEmail() error = %v, want ErrValidation", err)
	}
}

func TestLoginFlow_Reset(t *testing.T) {
	ctx := context.Background()
	f := newTestLogin(t)
	f.SubmitPhone(ctx, "9876543210")

	f.Reset()
	if f.Step() != StepPhone {
		t.Errorf("step = %s after reset, want PHONE", f.Step())
	}
}

func TestLoginFlow_CancelledContext(t *testing.T) {
	f := NewLoginFlow(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := f.SubmitPhone(ctx, "9876543210"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
