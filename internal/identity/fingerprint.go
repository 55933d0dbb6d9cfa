// Package identity derives stable identities for saved addresses. The
// backend's address sub-resource has no durable, independently-addressable id
// that is consistent across the checkout and profile surfaces, so both agree
// on an address through its content instead: a deterministic hash over the
// normalized fields. Two addresses with identical normalized content are
// indistinguishable on purpose.
package identity

import (
	"strconv"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
)

// Fingerprint returns the content-derived identity of an address: the
// concatenation {street}{houseNumber}{houseAddition}{postalCode} (no
// separators, case preserved as entered) run through a 31-multiplier rolling
// hash wrapped to signed 32-bit, rendered as the absolute value in base 16.
//
// The algorithm is part of the data contract: derived ids are persisted in
// the tombstone store and must stay stable across releases.
func Fingerprint(a domain.Address) string {
	content := a.Street + a.HouseNumber + a.HouseAddition + a.PostalCode

	var h int32
	for _, r := range content {
		h = h*31 + int32(r)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}

// ID returns the address's identity: the backend-issued id when present,
// otherwise the content fingerprint.
func ID(a domain.Address) string {
	if a.ID != "" {
		return a.ID
	}
	return Fingerprint(a)
}
