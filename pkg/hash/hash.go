package hash

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
)

// HashPassword is deterministic: the pepper is the only salt, so equal
// passwords produce equal hashes for one installation.
func HashPassword(password, pepper string) string {
	key := argon2.IDKey([]byte(password), []byte(pepper), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

func CheckPassword(hash, password, pepper string) bool {
	calculated := HashPassword(password, pepper)
	return subtle.ConstantTimeCompare([]byte(calculated), []byte(hash)) == 1
}
