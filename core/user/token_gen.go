package user

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/ligi/core"
)

var (
	salt    = []byte("ligi.core.user.token_gen")
	NowFunc = time.Now // mockable

	b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

	// errors
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// EncodeUID base64 encodes given User ID
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(usr.ID))
}

// decodeUID base64 decodes given UID
func decodeUID(uid string) (string, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(idBytes), nil
}

// MakeToken generates a password reset token for a given User.
// The token is invalidated by a password change or a new login,
// and expires after Config.PasswordResetTimeoutDelta.
func MakeToken(usr User) (string, error) {
	return makeTokenAt(usr, daysSince2001(NowFunc()))
}

// verifyToken checks a password reset token against its User.
func verifyToken(usr User, token string) error {
	if token == "" {
		return errInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return errInvalidToken
	}

	data, err := b32.DecodeString(parts[0])
	if err != nil {
		return errInvalidToken
	}
	days, err := strconv.Atoi(string(data))
	if err != nil {
		return errInvalidToken
	}

	// recompute and compare; a mismatch means the token was tampered with
	// or the user state it was minted against has changed
	expected, err := makeTokenAt(usr, days)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 0 {
		return errInvalidToken
	}

	if (daysSince2001(NowFunc()) - days) > int(core.Conf.PasswordResetTimeoutDelta/(24*time.Hour)) {
		return errTokenExpired
	}
	return nil
}

// makeTokenAt mints "B32(days)-HMAC(uid|pwdHash|lastLogin|days)".
func makeTokenAt(usr User, days int) (string, error) {
	ts := b32.EncodeToString([]byte(strconv.Itoa(days)))
	sig, err := sign(tokenPayload(usr, days))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", ts, sig), nil
}

func daysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func sign(val []byte) (string, error) {
	key := sha256.Sum256(append(salt, core.Conf.SecretKey...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write(val); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

func tokenPayload(usr User, days int) []byte {
	var val bytes.Buffer
	val.WriteString(usr.ID)
	val.Write(usr.PasswordHash)
	if !usr.LastLogin.IsZero() {
		val.WriteString(usr.LastLogin.String())
	}
	val.WriteString(strconv.Itoa(days))
	return val.Bytes()
}
