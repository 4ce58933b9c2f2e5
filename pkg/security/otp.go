package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateOTP produces a zero-padded numeric one-time code of the requested
// number of digits.
func GenerateOTP(digits int) (string, error) {
	if digits < 4 || digits > 10 {
		return "", fmt.Errorf("otp digits must be between 4 and 10, got %d", digits)
	}

	var sb strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate otp digit: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
