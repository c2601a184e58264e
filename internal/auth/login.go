package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/models"
	"luminapay/internal/validate"
)

// Login steps.
const (
	StepPhone    = "PHONE"
	StepPhoneOTP = "OTP_PHONE"
	StepEmail    = "EMAIL"
	StepEmailOTP = "OTP_EMAIL"
	StepDone     = "DONE"
)

const (
	// mockOTP is the fixed one-time password every delivery "sends".
	mockOTP = "123456"

	// mockDisplayName is the profile name the simulated KYC record
	// resolves to.
	mockDisplayName = "Alex Morgan"

	// addressHandle is the suffix of every payment address issued here.
	addressHandle = "lumina"

	// DefaultOTPDelay models the OTP delivery round trip.
	DefaultOTPDelay = 1500 * time.Millisecond
)

// LoginFlow walks the four-step mock login: phone, phone OTP, email,
// email OTP. OTP delivery and verification are simulated; the fixed
// code 123456 always passes.
type LoginFlow struct {
	mu       sync.Mutex
	step     string
	phone    string
	email    string
	otpDelay time.Duration
}

// NewLoginFlow starts at the phone step. A zero delay falls back to
// the default; tests pass a tiny one.
func NewLoginFlow(otpDelay time.Duration) *LoginFlow {
	if otpDelay <= 0 {
		otpDelay = DefaultOTPDelay
	}
	return &LoginFlow{step: StepPhone, otpDelay: otpDelay}
}

// Step returns the current login step.
func (f *LoginFlow) Step() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// SubmitPhone validates and records the phone number and "sends" the
// first OTP after the simulated delivery delay.
func (f *LoginFlow) SubmitPhone(ctx context.Context, phone string) error {
	normalized := validate.NormalizePhone(phone)
	if !validate.Phone(normalized) {
		return apperrors.ValidationField("phone",
			"enter a valid 10-digit mobile number starting with 6-9")
	}

	if err := f.wait(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.phone = normalized
	f.step = StepPhoneOTP
	return nil
}

// VerifyPhoneOTP checks the mobile OTP and advances to the email step.
func (f *LoginFlow) VerifyPhoneOTP(ctx context.Context, otp string) error {
	f.mu.Lock()
	if f.step != StepPhoneOTP {
		f.mu.Unlock()
		return apperrors.New(apperrors.ErrFlowState, "submit your phone number first")
	}
	f.mu.Unlock()

	if err := checkOTP(otp); err != nil {
		return err
	}
	if err := f.wait(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepEmail
	return nil
}

// SubmitEmail validates and records the email and "sends" the second OTP.
func (f *LoginFlow) SubmitEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	if f.step != StepEmail {
		f.mu.Unlock()
		return apperrors.New(apperrors.ErrFlowState, "verify your phone number first")
	}
	f.mu.Unlock()

	if !validate.Email(email) {
		return apperrors.ValidationField("email", "enter a valid email address")
	}
	if err := f.wait(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
	f.step = StepEmailOTP
	return nil
}

// VerifyEmailOTP checks the final OTP and builds the user profile. The
// payment address is derived from the email local-part.
func (f *LoginFlow) VerifyEmailOTP(ctx context.Context, otp string) (*models.UserProfile, error) {
	f.mu.Lock()
	if f.step != StepEmailOTP {
		f.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrFlowState, "submit your email first")
	}
	f.mu.Unlock()

	if err := checkOTP(otp); err != nil {
		return nil, err
	}
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	profile := &models.UserProfile{
		Name:           mockDisplayName,
		Phone:          f.phone,
		Email:          f.email,
		PaymentAddress: strings.Split(f.email, "@")[0] + "@" + addressHandle,
		KYCStatus:      models.KYCVerified,
		LastLogin:      time.Now(),
	}
	f.step = StepDone
	return profile, nil
}

// Reset returns the flow to the phone step.
func (f *LoginFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepPhone
	f.phone = ""
	f.email = ""
}

func (f *LoginFlow) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.otpDelay):
		return nil
	}
}

func checkOTP(otp string) error {
	if len(otp) != 6 {
		return apperrors.ValidationField("otp", "enter the 6-digit code")
	}
	if otp != mockOTP {
		return apperrors.ValidationField("otp", "invalid OTP")
	}
	return nil
}
