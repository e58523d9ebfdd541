package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// GenerateOTPCode returns a uniformly random numeric code in
// [100000, 999999] so every code is exactly six digits.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
