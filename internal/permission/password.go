package permission

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	PasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()_+"
	PasswordLength   = 12
)

type PasswordGenerator interface {
	Generate() (string, error)
}

// RandomPasswords draws each character uniformly from PasswordAlphabet.
type RandomPasswords struct{}

func (RandomPasswords) Generate() (string, error) {
	max := big.NewInt(int64(len(PasswordAlphabet)))
	buf := make([]byte, PasswordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		buf[i] = PasswordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// Credentials is the text handed to the admin to pass on.
func Credentials(email, password string) string {
	return fmt.Sprintf("Login: %s\nPassword: %s", email, password)
}
