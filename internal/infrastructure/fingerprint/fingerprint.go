// Package fingerprint derives the stable, opaque identifier that binds a
// token to the client environment that requested it, blunting token theft and
// replay from a different client.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/linegroup/authcore/internal/domain/models"
	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/errors"
)

// Fingerprinter computes device fingerprints over a fixed, explicitly
// enumerated attribute list. Two request contexts produce equal fingerprints
// iff every enumerated attribute is byte-identical between them; there is no
// fuzzy or partial matching.
type Fingerprinter struct {
	attributes []string
}

// New builds a fingerprinter for the configured attribute names. An empty
// list falls back to the default pair of client address and user agent.
func New(attributes []string) *Fingerprinter {
	if len(attributes) == 0 {
		attributes = []string{constants.AttributeClientIP, constants.AttributeUserAgent}
	}
	attrs := make([]string, len(attributes))
	copy(attrs, attributes)
	return &Fingerprinter{attributes: attrs}
}

// Compute returns the hex digest of the canonicalized attribute tuple. A
// required attribute missing from the request context fails closed: the error
// surfaces as a device mismatch at verification time and is never silently
// skipped.
func (f *Fingerprinter) Compute(rctx models.RequestContext) (string, error) {
	h := sha256.New()
	var lenBuf [binary.MaxVarintLen64]byte
	for _, name := range f.attributes {
		value, ok := rctx.Attribute(name)
		if !ok {
			return "", errors.ErrDeviceMismatch().
				WithCause(fmt.Errorf("required fingerprint attribute %q is absent", name))
		}
		// Length-prefixed framing keeps ("ab","c") distinct from ("a","bc").
		n := binary.PutUvarint(lenBuf[:], uint64(len(name)))
		h.Write(lenBuf[:n])
		h.Write([]byte(name))
		n = binary.PutUvarint(lenBuf[:], uint64(len(value)))
		h.Write(lenBuf[:n])
		h.Write([]byte(value))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Attributes returns the enumerated attribute names in their configured
// order.
func (f *Fingerprinter) Attributes() []string {
	out := make([]string, len(f.attributes))
	copy(out, f.attributes)
	return out
}
