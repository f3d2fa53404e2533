package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/groupsync/internal/reconcile"
	"github.com/mmynk/groupsync/internal/session"
)

// toConnectError maps command failures to RPC codes. Validation messages
// are passed through; unexpected failures are reported generically.
func toConnectError(err error) error {
	var validationErr *session.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Reason {
		case session.Conflict:
			return connect.NewError(connect.CodeAlreadyExists, validationErr)
		case session.NotFound:
			return connect.NewError(connect.CodeNotFound, validationErr)
		default:
			return connect.NewError(connect.CodeInvalidArgument, validationErr)
		}
	}

	var providerErr *reconcile.ProviderError
	if errors.As(err, &providerErr) {
		return connect.NewError(connect.CodeUnavailable,
			errors.New("change saved, but room membership could not be fully synced: "+providerErr.Error()))
	}

	return connect.NewError(connect.CodeInternal, session.ErrUnexpected)
}
