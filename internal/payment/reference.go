package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// ReferencePrefix identifies this store's transactions at the gateway.
const ReferencePrefix = "TENERA_"

// NewReference generates a payment reference of the form
// TENERA_<9-digit-random>, zero-padded so the digit count is fixed.
func NewReference() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate payment reference: %w", err)
	}
	return fmt.Sprintf("%s%09d", ReferencePrefix, n.Int64()), nil
}
