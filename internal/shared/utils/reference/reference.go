// Package reference generates booking/order references and verification
// codes. References are public and human-shareable; verification codes are
// the shorter secrets paired with them for gate check-in.
package reference

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O/1/I, staff may type these

// NewBookingReference returns a reference like "CBK-20260901-QWJZTK".
func NewBookingReference() (string, error) {
	return newReference("CBK")
}

// NewBundleOrderReference returns a reference like "BND-20260901-QWJZTK".
func NewBundleOrderReference() (string, error) {
	return newReference("BND")
}

func newReference(prefix string) (string, error) {
	timestamp := time.Now().Format("20060102")

	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, timestamp, string(randomPart)), nil
}

// NewVerificationCode returns an 8 character secret from an alphabet without
// ambiguous characters.
func NewVerificationCode() (string, error) {
	code := make([]byte, 8)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[num.Int64()]
	}
	return string(code), nil
}
