package domain

import (
	"context"
	"errors"
)

// Sentinel errors for domain operations
var (
	// ErrNetwork indicates the movie database could not be reached or answered with a non-2xx status
	ErrNetwork = errors.New("check your internet connection")

	// ErrNoResults indicates a successful search with zero matches
	ErrNoResults = errors.New("movie not found")

	// ErrParse indicates the movie database returned a body that does not match the expected schema
	ErrParse = errors.New("unexpected response from the movie database")

	// ErrAlreadyWatched indicates an add for an id that is already on the watched list
	ErrAlreadyWatched = errors.New("movie is already on the watched list")

	// ErrInvalidEntry indicates a watched entry failed validation
	ErrInvalidEntry = errors.New("invalid watched entry")

	// ErrNotLoaded indicates an action that needs a loaded movie detail
	ErrNotLoaded = errors.New("movie details are not loaded")
)

// UserMessage maps an error to the text shown to the user.
// Cancellation is not an error and maps to "".
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, ErrNetwork):
		return ErrNetwork.Error()
	case errors.Is(err, ErrNoResults):
		return ErrNoResults.Error()
	case errors.Is(err, ErrParse):
		return ErrParse.Error()
	case errors.Is(err, ErrAlreadyWatched):
		return ErrAlreadyWatched.Error()
	case errors.Is(err, ErrNotLoaded):
		return ErrNotLoaded.Error()
	case errors.Is(err, ErrInvalidEntry):
		return ErrInvalidEntry.Error()
	default:
		return "something went wrong"
	}
}
