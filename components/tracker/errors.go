package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable wraps transport failures talking to the fish API.
	ErrUnreachable = errors.New("fish api unreachable")
	// ErrFishNotFound is returned when no fish matches the requested id.
	ErrFishNotFound = errors.New("fish not found")
	// ErrMissingSource is returned when the service has no FishSource.
	ErrMissingSource = errors.New("tracker: fish source not configured")
	// ErrMissingWriter is returned when admin writes have no AdminWriter.
	ErrMissingWriter = errors.New("tracker: admin writer not configured")
)

// RemoteError is a non-success response from the fish API.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("fish api returned status %d", e.Status)
	}
	return fmt.Sprintf("fish api returned status %d: %s", e.Status, e.Detail)
}

// ValidationError reports a missing or invalid admin form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DisplayMessage collapses an error into the inline message shown to users.
func DisplayMessage(err error, apiURL string) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	var invalid *ValidationError
	switch {
	case errors.Is(err, ErrUnreachable):
		if apiURL == "" {
			return "Could not reach the fish API. Is it running?"
		}
		return fmt.Sprintf("Could not reach the fish API at %s. Is it running?", apiURL)
	case errors.As(err, &remote):
		if remote.Detail != "" {
			return remote.Detail
		}
		return fmt.Sprintf("The fish API responded with status %d.", remote.Status)
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.Is(err, ErrFishNotFound):
		return "That fish could not be found."
	default:
		return err.Error()
	}
}
