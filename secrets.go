package accounts

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashSecret generates a salted one-way hash of a secret. Only the hash is
// ever persisted; the cleartext never reaches the store.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	return string(h), err
}

// CompareSecretAndHash validates the given cleartext secret against a stored
// hash.
func CompareSecretAndHash(secret, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}
