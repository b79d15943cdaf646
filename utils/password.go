package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Параметры scrypt. Менять нельзя без миграции уже сохранённых хешей.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

// HashPassword derives a salted scrypt hash and returns it in the stored
// form "hex(key).hex(salt)". Each call uses a fresh random salt, so hashing
// the same password twice yields different stored strings.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// CheckPasswordHash re-derives the key for password with the stored salt and
// compares in constant time. Any malformed stored value fails closed.
func CheckPasswordHash(password, stored string) bool {
	hashPart, saltPart, ok := strings.Cut(stored, ".")
	if !ok {
		return false
	}

	expected, err := hex.DecodeString(hashPart)
	if err != nil || len(expected) != scryptKeyLen {
		return false
	}
	salt, err := hex.DecodeString(saltPart)
	if err != nil || len(salt) == 0 {
		return false
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, expected) == 1
}
