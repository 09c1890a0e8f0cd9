package websub

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidSignature indicates the payload signature did not match the
	// digest computed with the subscription secret
	ErrInvalidSignature = errors.New("signature does not match payload")

	// ErrUnsupportedAlgorithm indicates a signature header with an
	// algorithm other than sha256
	ErrUnsupportedAlgorithm = errors.New("unsupported signature algorithm")
)

// VerifySignature checks an "algorithm=hexdigest" signature header against
// the HMAC-SHA256 digest of the raw body under the given secret. The digest
// comparison is constant-time; a plain byte comparison would leak match
// length through timing
func VerifySignature(body []byte, header, secret string) error {
	parts := strings.SplitN(header, "=", 2)
	if len(parts) != 2 {
		return ErrInvalidSignature
	}

	if parts[0] != "sha256" {
		return ErrUnsupportedAlgorithm
	}

	claimed, err := hex.DecodeString(parts[1])
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	if !hmac.Equal(mac.Sum(nil), claimed) {
		return ErrInvalidSignature
	}

	return nil
}
