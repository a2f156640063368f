package utils

import (
	"context"
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidInput ErrorKind = "INVALID_INPUT"
	KindCancelled    ErrorKind = "CANCELLED"
	KindNoData       ErrorKind = "NO_DATA"
	KindNetwork      ErrorKind = "NETWORK"
	KindUnknown      ErrorKind = "UNKNOWN"
)

const (
	MsgMissingUsername = "Username is required"
	MsgCancelled       = "Download cancelled"
	MsgNoData          = "No games found for the specified criteria"
	MsgGenericFailure  = "Failed to download games"
)

// DownloadError is the single failure type that leaves the orchestrator.
type DownloadError struct {
	Kind     ErrorKind
	Message  string
	Platform Platform
	Err      error
}

func (e *DownloadError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return MsgGenericFailure
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

var (
	ErrMissingUsername = errors.New("missing username")
	ErrNoData          = errors.New("empty payload")
)

func NewInvalidInputError(message string) *DownloadError {
	return &DownloadError{Kind: KindInvalidInput, Message: message}
}

func NewCancelledError(platform Platform, err error) *DownloadError {
	return &DownloadError{Kind: KindCancelled, Message: MsgCancelled, Platform: platform, Err: err}
}

func NewNoDataError(platform Platform) *DownloadError {
	return &DownloadError{Kind: KindNoData, Message: MsgNoData, Platform: platform, Err: ErrNoData}
}

// NewNetworkError reports a terminal non-success response or transport failure.
func NewNetworkError(platform Platform, message string, err error) *DownloadError {
	return &DownloadError{Kind: KindNetwork, Message: message, Platform: platform, Err: err}
}

// NewStatusError builds the network failure for a non-2xx response.
func NewStatusError(platform Platform, label string, statusCode int, status string) *DownloadError {
	return NewNetworkError(platform,
		fmt.Sprintf("Failed to fetch %s games: %s", label, StatusText(statusCode, status)),
		fmt.Errorf("unexpected status code: %d", statusCode))
}

// StatusText strips the numeric prefix Go puts in resp.Status.
func StatusText(statusCode int, status string) string {
	prefix := fmt.Sprintf("%d ", statusCode)
	if len(status) > len(prefix) && status[:len(prefix)] == prefix {
		return status[len(prefix):]
	}
	if status == "" {
		return fmt.Sprintf("status %d", statusCode)
	}
	return status
}

// IsContextError reports whether err came from a cancelled or expired context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *DownloadError
	if errors.As(err, &de) {
		return de.Kind
	}
	if IsContextError(err) {
		return KindCancelled
	}
	return KindUnknown
}

// IsCancelled lets callers present a cancellation without alarming the user.
func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}
