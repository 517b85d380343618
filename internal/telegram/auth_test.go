package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"testing"
	"time"
)

const testBotToken = "test-bot-token"

// buildInitData signs fields the way the Telegram client does.
func buildInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()
	vals := url.Values{}
	for k, v := range fields {
		vals.Set(k, v)
	}

	h := hmac.New(sha256.New, SecretKey(botToken))
	h.Write([]byte(DataCheckString(vals)))
	vals.Set("hash", hex.EncodeToString(h.Sum(nil)))
	return vals.Encode()
}

func validFields(now time.Time) map[string]string {
	return map[string]string{
		"auth_date":   strconv.FormatInt(now.Unix(), 10),
		"user":        `{"id":1,"username":"u","first_name":"F","language_code":"ru"}`,
		"start_param": "ref_abc123",
	}
}

func TestValidateInitData_Valid(t *testing.T) {
	now := time.Now()
	initData := buildInitData(t, testBotToken, validFields(now))

	data, err := ValidateInitData(initData, testBotToken, time.Hour, now)
	if err != nil {
		t.Fatalf("expected valid init data, got %v", err)
	}
	if data.User.ID != 1 || data.User.Username != "u" || data.User.FirstName != "F" {
		t.Errorf("user = %+v", data.User)
	}
	if data.StartParam != "ref_abc123" {
		t.Errorf("start_param = %q", data.StartParam)
	}
	if data.User.Country() != "RU" {
		t.Errorf("country = %q", data.User.Country())
	}
}

func TestValidateInitData_Rejects(t *testing.T) {
	now := time.Now()

	tampered := buildInitData(t, testBotToken, validFields(now))
	vals, _ := url.ParseQuery(tampered)
	vals.Set("user", `{"id":2,"username":"evil"}`)

	stale := validFields(now.Add(-2 * time.Hour))
	future := validFields(now.Add(time.Hour))
	noUser := validFields(now)
	delete(noUser, "user")

	tests := []struct {
		name     string
		initData string
	}{
		{"wrong bot token", buildInitData(t, "other-token", validFields(now))},
		{"tampered payload", vals.Encode()},
		{"stale auth_date", buildInitData(t, testBotToken, stale)},
		{"auth_date in the future", buildInitData(t, testBotToken, future)},
		{"missing user", buildInitData(t, testBotToken, noUser)},
		{"missing hash", "auth_date=1&user=%7B%7D"},
		{"garbage", "%%%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateInitData(tt.initData, testBotToken, time.Hour, now); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReferralCode(t *testing.T) {
	tests := map[string]string{
		"ref_abc":   "abc",
		"ref_":      "",
		"promo_abc": "",
		"":          "",
	}
	for in, want := range tests {
		if got := ReferralCode(in); got != want {
			t.Errorf("ReferralCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsMemberStatus(t *testing.T) {
	tests := []struct {
		status   string
		isMember bool
		want     bool
	}{
		{"creator", false, true},
		{"administrator", false, true},
		{"member", false, true},
		{"restricted", true, true},
		{"restricted", false, false},
		{"left", false, false},
		{"kicked", false, false},
	}
	for _, tt := range tests {
		if got := IsMemberStatus(tt.status, tt.isMember); got != tt.want {
			t.Errorf("IsMemberStatus(%q, %v) = %v, want %v", tt.status, tt.isMember, got, tt.want)
		}
	}
}

func TestWebAppUserCountry(t *testing.T) {
	tests := map[string]string{"en-US": "US", "de": "DE", "": "", "pt_br": "BR", "zh-hans": ""}
	for lc, want := range tests {
		if got := (WebAppUser{LanguageCode: lc}).Country(); got != want {
			t.Errorf("Country(%q) = %q, want %q", lc, got, want)
		}
	}
}
