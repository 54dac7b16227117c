package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const idSpace = 1_000_000_000

// NewProjectID generates a human-readable project ID, e.g. "prj-48213-0917".
func NewProjectID(prefix string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(idSpace))
	if err != nil {
		return "", fmt.Errorf("generate project id: %w", err)
	}
	v := n.Int64()
	return fmt.Sprintf("%s-%05d-%04d", prefix, v/10000, v%10000), nil
}
