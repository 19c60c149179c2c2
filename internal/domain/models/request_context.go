package models

import "github.com/linegroup/authcore/pkg/constants"

// RequestContext carries the client attributes a device fingerprint is
// computed from. It is assembled once at the HTTP boundary and passed
// explicitly into issuance and verification.
type RequestContext struct {
	// ClientIP is the resolved originating network address.
	ClientIP string

	// UserAgent is the client-declared software identifier string.
	UserAgent string

	// Extra holds any additional configured fingerprint attributes.
	Extra map[string]string
}

// Attribute looks up a fingerprint attribute by its configured name. The
// second return value is false when the attribute is absent or empty, which
// callers must treat as a fingerprinting failure (fail closed), never as a
// skippable input.
func (r RequestContext) Attribute(name string) (string, bool) {
	var v string
	switch name {
	case constants.AttributeClientIP:
		v = r.ClientIP
	case constants.AttributeUserAgent:
		v = r.UserAgent
	default:
		v = r.Extra[name]
	}
	return v, v != ""
}
