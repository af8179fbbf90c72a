// Package interactions provides the building blocks for handling Discord
// HTTP interactions: request signature verification, a process-wide event
// bus, and time-bounded collectors for awaiting follow-up interactions.
package interactions

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// ErrInvalidPublicKey is returned when the configured public key is not a
// valid hex-encoded Ed25519 public key.
var ErrInvalidPublicKey = errors.New("invalid ed25519 public key")

// ParsePublicKey decodes a hex-encoded Ed25519 public key as distributed
// by Discord in the application settings.
func ParsePublicKey(value string) (ed25519.PublicKey, error) {
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	return key, nil
}

// Verify reports whether signature is a valid Ed25519 signature over
// timestamp+body under the given public key. Both timestamp and signature
// arrive as hex strings in the X-Signature-* headers. Any decoding failure
// yields false; Verify never panics on malformed input.
func Verify(body []byte, timestamp, signature string, key ed25519.PublicKey) bool {
	if timestamp == "" || signature == "" {
		return false
	}
	if len(key) != ed25519.PublicKeySize {
		return false
	}

	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	if len(sig) != ed25519.SignatureSize {
		return false
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)

	return ed25519.Verify(key, message, sig)
}

// Fresh reports whether the signature timestamp is within maxAge of now.
// A maxAge of zero disables the check entirely, matching deployments that
// rely on signature verification alone.
func Fresh(timestamp string, maxAge time.Duration, now time.Time) bool {
	if maxAge == 0 {
		return true
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}

	age := now.Sub(time.Unix(unix, 0))
	return age >= -maxAge && age <= maxAge
}
