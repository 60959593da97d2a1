package kernel

import "tripledger/internal/pkg/errs"

// ErrUnitIDIsInvalid indicates that a candidate identifier is not a
// 16-digit ledger unit identifier.
var ErrUnitIDIsInvalid = errs.NewValueIsInvalidError("unit identifier must be exactly 16 decimal digits")

// UnitID is the compliance ledger's addressable handle for a physical
// inventory unit: a string of exactly 16 ASCII decimal digits. Leading
// zeros are allowed; signs, separators and whitespace are not.
//
// Both trip validation and stop processing filter line items through the
// same predicate, so the two phases always agree on which units the ledger
// can address.
type UnitID string

// unitIDLength is the fixed width of a ledger unit identifier.
const unitIDLength = 16

// IsValidUnitID reports whether candidate is a well-formed ledger unit
// identifier.
func IsValidUnitID(candidate string) bool {
	if len(candidate) != unitIDLength {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		if candidate[i] < '0' || candidate[i] > '9' {
			return false
		}
	}
	return true
}

// NewUnitID validates candidate and returns it as a UnitID.
func NewUnitID(candidate string) (UnitID, error) {
	if !IsValidUnitID(candidate) {
		return "", ErrUnitIDIsInvalid
	}
	return UnitID(candidate), nil
}

// String returns the raw identifier.
func (u UnitID) String() string {
	return string(u)
}

// Validate re-checks the identifier, catching zero values and direct casts.
func (u UnitID) Validate() error {
	if !IsValidUnitID(string(u)) {
		return ErrUnitIDIsInvalid
	}
	return nil
}
