package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidInitData = errors.New("invalid init data")

// WebAppUser is the "user" field of Mini App init data.
type WebAppUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LanguageCode string `json:"language_code"`
}

// InitData is a verified Mini App launch payload.
type InitData struct {
	User       WebAppUser
	StartParam string
	AuthDate   time.Time
}

// Country guesses a two-letter country from the client language.
func (u WebAppUser) Country() string {
	lc := u.LanguageCode
	if i := strings.IndexAny(lc, "-_"); i >= 0 {
		lc = lc[i+1:]
	}
	if len(lc) != 2 {
		return ""
	}
	return strings.ToUpper(lc)
}

// SecretKey derives the Mini App signing key from the bot token.
func SecretKey(botToken string) []byte {
	h := hmac.New(sha256.New, []byte("WebAppData"))
	h.Write([]byte(botToken))
	return h.Sum(nil)
}

// DataCheckString is the sorted "k=v" lines that the hash covers.
func DataCheckString(values url.Values) string {
	var dataCheck []string
	for k, v := range values {
		if k == "hash" {
			continue
		}
		dataCheck = append(dataCheck, k+"="+strings.Join(v, ""))
	}
	sort.Strings(dataCheck)
	return strings.Join(dataCheck, "\n")
}

// ValidateInitData verifies the init data HMAC and rejects payloads whose
// auth_date is older than maxAge (replay protection) or too far in the future.
func ValidateInitData(initData, botToken string, maxAge time.Duration, now time.Time) (*InitData, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInvalidInitData
	}

	provided, err := hex.DecodeString(values.Get("hash"))
	if err != nil || len(provided) == 0 {
		return nil, ErrInvalidInitData
	}

	h := hmac.New(sha256.New, SecretKey(botToken))
	h.Write([]byte(DataCheckString(values)))
	if !hmac.Equal(h.Sum(nil), provided) {
		return nil, ErrInvalidInitData
	}

	authUnix, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, ErrInvalidInitData
	}
	authDate := time.Unix(authUnix, 0)
	// allow small clock skew
	if now.Sub(authDate) > maxAge || authDate.Sub(now) > 5*time.Minute {
		return nil, ErrInvalidInitData
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return nil, ErrInvalidInitData
	}

	return &InitData{
		User:       user,
		StartParam: values.Get("start_param"),
		AuthDate:   authDate,
	}, nil
}

// ReferralCode extracts the invite code from a "ref_<code>" start parameter.
func ReferralCode(startParam string) string {
	code, ok := strings.CutPrefix(startParam, "ref_")
	if !ok {
		return ""
	}
	return code
}
