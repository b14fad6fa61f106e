// Package password is the credential store: it hashes transaction secrets
// with a deliberately expensive, per-call salted scheme and verifies
// candidates against stored digests.
package password

import "golang.org/x/crypto/bcrypt"

// cost trades login latency for offline brute-force resistance.
const cost = 12

// Hash derives a salted digest from the secret. Every call draws a fresh
// random salt, which bcrypt embeds in the returned digest so Verify can
// reproduce the derivation. Two hashes of the same secret never compare equal
// as strings.
func Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify recomputes the digest for candidate using the salt embedded in
// digest and compares in constant time.
func Verify(digest, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate)) == nil
}
