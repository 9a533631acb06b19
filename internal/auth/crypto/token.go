package crypto

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/jmartinemployment/acord-pcs-crm/pkg/constant"
)

// NewResetToken returns an opaque password-reset token: 32 random bytes,
// hex encoded. Compared by exact value in the store.
func NewResetToken() (string, error) {
	buf := make([]byte, constant.ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
