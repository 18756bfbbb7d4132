package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

const otpDigits = 6

var otpSpace = big.NewInt(1_000_000)

// generateOTP returns a uniformly random 6-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

// otpHasher derives the value kept in the OTP store, so a leaked cache
// never reveals live codes.
type otpHasher struct {
	key []byte
}

func newOTPHasher(secret string) otpHasher {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return otpHasher{key: key}
}

// digest is a keyed BLAKE2b-256 MAC over phone and code.
func (h otpHasher) digest(phone, code string) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// Only possible for keys longer than 64 bytes, which newOTPHasher rules out.
		panic(err)
	}
	mac.Write([]byte(phone))
	mac.Write([]byte{0})
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// maskPhone keeps the last four digits of a phone number for logging.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}
