package config

import (
	"testing"
	"time"
)

func TestNew_DelayOverrides(t *testing.T) {
	t.Setenv("OTP_DELAY_MS", "3")
	t.Setenv("CHECK_DELAY_MS", "4")
	t.Setenv("VERIFY_DELAY_MS", "5")
	t.Setenv("SETTLE_DELAY_MS", "6")
	t.Setenv("INTL_DELAY_MS", "7")
	t.Setenv("BALANCE_DELAY_MS", "8")

	cfg := New()
	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"OTPDelay", cfg.OTPDelay, 3 * time.Millisecond},
		{"CheckDelay", cfg.CheckDelay, 4 * time.Millisecond},
		{"VerifyDelay", cfg.VerifyDelay, 5 * time.Millisecond},
		{"SettleDelay", cfg.SettleDelay, 6 * time.Millisecond},
		{"IntlDelay", cfg.IntlDelay, 7 * time.Millisecond},
		{"BalanceDelay", cfg.BalanceDelay, 8 * time.Millisecond},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestNew_DelaysDefaultToZero(t *testing.T) {
	t.Setenv("SETTLE_DELAY_MS", "")
	cfg := New()
	// Zero means the consuming package applies its own default.
	if cfg.SettleDelay != 0 {
		t.Errorf("SettleDelay = %v, want 0", cfg.SettleDelay)
	}
}

func TestGetEnvDuration_Invalid(t *testing.T) {
	t.Setenv("SETTLE_DELAY_MS", "not-a-number")
	if got := getEnvDuration("SETTLE_DELAY_MS", 42); got != 42*time.Millisecond {
		t.Errorf("getEnvDuration() = %v, want the 42ms default", got)
	}
}
