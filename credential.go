package folio

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credential is the single administrator account. It is loaded once at
// startup and never modified afterwards.
//
// The default hash format is unsalted hex SHA-256, which is weak against
// offline guessing. Hashes starting with "$2" are checked as bcrypt.
type Credential struct {
	Username     string
	PasswordHash string
}

// HashPassword returns the hex SHA-256 digest of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether username and password match the credential. It
// does not tell an unknown user apart from a wrong password.
func (c Credential) Verify(username, password string) bool {
	if c.Username == "" || c.PasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	var passOK bool
	if strings.HasPrefix(c.PasswordHash, "$2") {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	} else {
		want := strings.ToLower(c.PasswordHash)
		passOK = subtle.ConstantTimeCompare([]byte(HashPassword(password)), []byte(want)) == 1
	}
	return userOK && passOK
}
