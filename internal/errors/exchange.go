package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"golang.org/x/oauth2"
)

// MapExchangeError maps failures from the authorization-code exchange to AppError instances.
// It handles:
// - Context timeouts/cancellations → ExchangeTransport
// - net.Error / *url.Error (DNS, dial, TLS, client timeout) → ExchangeTransport
// - *oauth2.RetrieveError (non-2xx, provider error payload) → ExchangeRejected
//
// Errors that are already AppErrors are returned unchanged; anything else is
// treated as a rejected exchange.
func MapExchangeError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeExchangeTransport, "token request did not complete")
	}

	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		return Wrap(err, ErrCodeExchangeRejected, describeRetrieveError(rErr))
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Wrap(err, ErrCodeExchangeTransport, "token endpoint unreachable")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Wrap(err, ErrCodeExchangeTransport, "token endpoint unreachable")
	}

	return Wrap(err, ErrCodeExchangeRejected, "token exchange failed")
}

// describeRetrieveError renders the provider's error fields for server-side logs.
func describeRetrieveError(rErr *oauth2.RetrieveError) string {
	status := 0
	if rErr.Response != nil {
		status = rErr.Response.StatusCode
	}
	code := rErr.ErrorCode
	if code == "" {
		code = "Unknown error"
	}
	desc := rErr.ErrorDescription
	if desc == "" {
		desc = "No description"
	}
	return fmt.Sprintf("token endpoint rejected exchange (status %d): %s - %s", status, code, desc)
}
