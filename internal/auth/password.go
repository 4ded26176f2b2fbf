package auth

import "github.com/alexedwards/argon2id"

// HashPassword hashes a plaintext password with argon2id default parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}

// ComparePassword reports whether plain matches the encoded argon2id hash.
func ComparePassword(hashed, plain string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plain, hashed)
}
