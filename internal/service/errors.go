package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/partio/internal/apperr"
)

// ErrorCodeHeader carries the domain error code on failed responses.
const ErrorCodeHeader = "Partio-Error-Code"

// toConnectError maps a domain error onto a connect error. The domain code and
// metadata travel as response metadata so clients can branch on them.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return connect.NewError(connect.CodeInternal, err)
	}

	ce := connect.NewError(connectCode(appErr.Code), err)
	ce.Meta().Set(ErrorCodeHeader, string(appErr.Code))
	for k, v := range appErr.Metadata {
		ce.Meta().Set("Partio-Error-"+k, v)
	}
	return ce
}

func connectCode(code apperr.Code) connect.Code {
	switch code {
	case apperr.CodeInvalidInput, apperr.CodeImport:
		return connect.CodeInvalidArgument
	case apperr.CodeNotFound:
		return connect.CodeNotFound
	case apperr.CodeStaleRevision:
		return connect.CodeAborted
	default:
		return connect.CodeInternal
	}
}
