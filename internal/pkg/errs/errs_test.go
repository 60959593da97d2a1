package errs_test

import (
	"errors"
	"testing"

	"tripledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("tripId", "b51e")

		assert.Equal(t, "tripId", err.ParamName)
		assert.Equal(t, "b51e", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: b51e", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("row scan failed")
		err := errs.NewObjectNotFoundErrorWithCause("stopId", "42", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: stopId, ID is: 42 (cause: row scan failed)",
			err.Error())
	})

	t.Run("non-string id", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("sequence", 7)
		assert.Equal(t, "object not found: %!s(int=7)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	err := errs.NewValueIsInvalidError("orderRef")
	assert.Equal(t, "value is invalid: orderRef", err.Error())

	withCause := errs.NewValueIsInvalidErrorWithCause("orderRef", errors.New("bad format"))
	assert.Equal(t, "value is invalid: orderRef (cause: bad format)", withCause.Error())
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("deliveryDate")
	assert.Equal(t, "deliveryDate", err.ParamName)
	assert.Equal(t, "value is required: deliveryDate", err.Error())

	withCause := errs.NewValueIsRequiredErrorWithCause("deliveryDate", errors.New("field missing"))
	assert.Equal(t, "value is required: deliveryDate (cause: field missing)", withCause.Error())
}

func TestValueIsOutOfRangeError(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("progress", 140, 0, 100)

	assert.Equal(t, 140, err.Value)
	assert.Equal(t, 0, err.Min)
	assert.Equal(t, 100, err.Max)
	assert.Equal(t, "value is invalid: 140 is progress, min value is 0, max value is 100", err.Error())

	withCause := errs.NewValueIsOutOfRangeErrorWithCause("progress", -1, 0, 100, errors.New("tracker"))
	assert.Equal(t,
		"value is invalid: -1 is progress, min value is 0, max value is 100 (cause: tracker)",
		withCause.Error())
}

func TestVersionIsInvalidError(t *testing.T) {
	err := errs.NewVersionIsInvalidError("tripVersion", errors.New("stale"))
	assert.Equal(t, "version is invalid: tripVersion (cause: stale)", err.Error())

	noCause := errs.NewVersionIsInvalidErrorWithCause("tripVersion")
	assert.Equal(t, "version is invalid: tripVersion", noCause.Error())
}

func TestMessagesAreSanitized(t *testing.T) {
	err := errs.NewValueIsInvalidErrorWithCause("payload", errors.New("line one\nline two"))

	assert.NotContains(t, err.Error(), "\n")
	assert.Contains(t, err.Error(), "line one line two")
}

func TestSentinelUnwrapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"object not found", errs.NewObjectNotFoundError("tripId", "b51e"), errs.ErrObjectNotFound},
		{"value is invalid", errs.NewValueIsInvalidError("orderRef"), errs.ErrValueIsInvalid},
		{"value is out of range", errs.NewValueIsOutOfRangeError("progress", 140, 0, 100), errs.ErrValueIsOutOfRange},
		{"value is required", errs.NewValueIsRequiredError("deliveryDate"), errs.ErrValueIsRequired},
		{"version is invalid", errs.NewVersionIsInvalidError("tripVersion", errors.New("stale")), errs.ErrVersionIsInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.err, tc.sentinel)
			assert.Equal(t, tc.name, tc.sentinel.Error())
		})
	}
}
