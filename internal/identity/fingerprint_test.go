package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := domain.Address{Street: "Kerkstraat", HouseNumber: "12", PostalCode: "1017AB"}
	b := domain.Address{Street: "Kerkstraat", HouseNumber: "12", PostalCode: "1017AB"}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_StableValue(t *testing.T) {
	// Derived ids are persisted in the tombstone store, so the exact output
	// is a compatibility contract.
	a := domain.Address{Street: "Kerkstraat", HouseNumber: "12", PostalCode: "1017AB"}
	assert.Equal(t, "19703e3d", Fingerprint(a))
}

func TestFingerprint_FieldOrderFixed(t *testing.T) {
	a := domain.Address{Street: "Kerkstraat", HouseNumber: "12", PostalCode: "1017AB"}
	// Same characters distributed differently across fields must not collide
	// by construction of the concatenation order.
	b := domain.Address{Street: "Kerkstraat12", HouseNumber: "1017AB", PostalCode: ""}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_DifferentContent(t *testing.T) {
	a := domain.Address{Street: "Kerkstraat", HouseNumber: "12", PostalCode: "1017AB"}
	b := domain.Address{Street: "Dorpsstraat", HouseNumber: "5", PostalCode: "1017AB"}

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_HouseAdditionIncluded(t *testing.T) {
	a := domain.Address{Street: "Kerkstraat", HouseNumber: "12", PostalCode: "1017AB"}
	b := domain.Address{Street: "Kerkstraat", HouseNumber: "12", HouseAddition: "B", PostalCode: "1017AB"}

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_CasePreserved(t *testing.T) {
	a := domain.Address{Street: "kerkstraat", HouseNumber: "12", PostalCode: "1017ab"}
	b := domain.Address{Street: "Kerkstraat", HouseNumber: "12", PostalCode: "1017AB"}

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_EmptyAddress(t *testing.T) {
	assert.Equal(t, "0", Fingerprint(domain.Address{}))
}

func TestID_PrefersBackendID(t *testing.T) {
	a := domain.Address{ID: "addr-9", Street: "Kerkstraat", HouseNumber: "12", PostalCode: "1017AB"}
	assert.Equal(t, "addr-9", ID(a))
}

func TestID_FallsBackToFingerprint(t *testing.T) {
	a := domain.Address{Street: "Kerkstraat", HouseNumber: "12", PostalCode: "1017AB"}
	assert.Equal(t, Fingerprint(a), ID(a))
}
