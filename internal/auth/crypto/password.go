package crypto

import (
	"github.com/jmartinemployment/acord-pcs-crm/pkg/constant"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt digest with a per-call random salt.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), constant.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plain matches the stored digest. A mismatch
// is not an error; malformed digests also simply fail the check.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
