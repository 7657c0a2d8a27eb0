package fdwerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("validating: %w", UnknownOption("foo", "Valid options in this context are: db"))

	assert.True(t, errors.Is(err, ErrUnknownOption))
	assert.False(t, errors.Is(err, ErrConflictingOption))
	assert.True(t, errors.Is(err, &Error{Kind: KindUnknownOption}))
	assert.Equal(t, KindUnknownOption, KindOf(err))
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Connection(cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrConnection))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPgError(t *testing.T) {
	err := UnknownOption("foo", "Valid options in this context are: db, option2, allow")
	pgErr := err.PgError()

	require.NotNil(t, pgErr)
	assert.Equal(t, "ERROR", pgErr.Severity)
	assert.Equal(t, CodeFdwInvalidOptionName, pgErr.Code)
	assert.Equal(t, `invalid option "foo"`, pgErr.Message)
	assert.Equal(t, "Valid options in this context are: db, option2, allow", pgErr.Hint)
}

func TestUnsupportedNamesOperation(t *testing.T) {
	err := Unsupported("UPDATE")

	assert.Equal(t, "not supported: UPDATE", err.Message)
	assert.Equal(t, CodeFdwInvalidHandle, err.Code)
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("boom")))
	assert.Equal(t, "Kind(0)", Kind(0).String())
}
