package fdw

import (
	"errors"

	"github.com/turbot/pg-fdw/fdwerr"
)

// asConnectionError reports a backend error as a connection error, unless the
// backend already returned an adapter error.
func asConnectionError(err error) error {
	var fdwErr *fdwerr.Error
	if errors.As(err, &fdwErr) {
		return err
	}
	return fdwerr.Connection(err)
}

// asApplyError reports a backend error as an apply error, unless the backend
// already returned an adapter error.
func asApplyError(err error) error {
	var fdwErr *fdwerr.Error
	if errors.As(err, &fdwErr) {
		return err
	}
	return fdwerr.Apply(err)
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
