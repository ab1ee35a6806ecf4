package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"campusboard/config"
)

const (
	pbkdf2Iterations = 600000
	pbkdf2KeyLen     = 32
	pbkdf2SaltLen    = 16
)

// HashPassword hashes the password with the configured scheme. Unknown
// schemes fall back to bcrypt.
func HashPassword(password string) (string, error) {
	if config.Get().PasswordScheme == config.PasswordSchemePBKDF2 {
		return hashPBKDF2(password)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash with a plaintext candidate. The scheme
// is detected from the hash itself, so accounts created under a previous
// policy keep working after the scheme is changed.
func CheckPassword(hash, password string) bool {
	if strings.HasPrefix(hash, "pbkdf2:") {
		return checkPBKDF2(hash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// hashPBKDF2 encodes as "pbkdf2:sha256:<iterations>$<hexsalt>$<hexdigest>".
func hashPBKDF2(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s",
		pbkdf2Iterations, hex.EncodeToString(salt), hex.EncodeToString(key)), nil
}

func checkPBKDF2(encoded, password string) bool {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false
	}
	head := strings.SplitN(parts[0], ":", 3)
	if len(head) != 3 || head[0] != "pbkdf2" || head[1] != "sha256" {
		return false
	}
	iterations, err := strconv.Atoi(head[2])
	if err != nil || iterations <= 0 {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
