package session

import (
	"crypto/subtle"

	"github.com/frahmantamala/performance-dashboard/internal/identity"
	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier decides whether secret unlocks the given identity.
type CredentialVerifier interface {
	Verify(id *identity.Identity, secret string) bool
}

// VerifierFunc adapts a plain function to CredentialVerifier.
type VerifierFunc func(id *identity.Identity, secret string) bool

func (f VerifierFunc) Verify(id *identity.Identity, secret string) bool {
	return f(id, secret)
}

// SharedSecretVerifier accepts one demo password for every identity.
type SharedSecretVerifier struct {
	secret []byte
}

func NewSharedSecretVerifier(secret string) *SharedSecretVerifier {
	return &SharedSecretVerifier{secret: []byte(secret)}
}

func (v *SharedSecretVerifier) Verify(_ *identity.Identity, secret string) bool {
	return subtle.ConstantTimeCompare(v.secret, []byte(secret)) == 1
}

// BcryptVerifier checks the shared secret against a bcrypt hash so the
// plaintext is not kept in memory after construction.
type BcryptVerifier struct {
	hash []byte
}

func NewBcryptVerifier(secret string, cost int) (*BcryptVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return nil, err
	}
	return &BcryptVerifier{hash: hash}, nil
}

func NewBcryptVerifierFromHash(hash []byte) *BcryptVerifier {
	return &BcryptVerifier{hash: append([]byte(nil), hash...)}
}

func (v *BcryptVerifier) Verify(_ *identity.Identity, secret string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(secret)) == nil
}
