package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveLocation is returned when an operation needs a current location and there is none.
	ErrNoActiveLocation = errors.New("no active location")

	// ErrDuplicateSameName is matched by a DuplicateFavouriteError whose existing
	// favourite is saved under the location's own name.
	ErrDuplicateSameName = errors.New("location already saved under the same name")

	// ErrDuplicateDifferentName is matched by a DuplicateFavouriteError whose existing
	// favourite uses a custom alias.
	ErrDuplicateDifferentName = errors.New("location already saved as a favourite")

	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrUnknownCode      = errors.New("unknown code")
	ErrAlreadySelected  = errors.New("favourite is already the current location")
	ErrLocationNotFound = errors.New("location not found")
	ErrUnknownSetting   = errors.New("unknown setting")

	// ErrConnectivity is returned when the connectivity probe reports the network unreachable.
	ErrConnectivity = errors.New("no network connection")

	// ErrProviderFetch wraps any failure to retrieve data from the forecast provider.
	ErrProviderFetch = errors.New("forecast provider fetch failed")
)

// DuplicateFavouriteError reports an attempt to add a location that is already a favourite.
type DuplicateFavouriteError struct {
	Index         int
	FavouriteName string
	SameName      bool
}

func (e *DuplicateFavouriteError) Error() string {
	if e.SameName {
		return fmt.Sprintf("you already have this location saved under the name %s", e.FavouriteName)
	}
	return "you already have this location saved as a favourite"
}

func (e *DuplicateFavouriteError) Unwrap() error {
	if e.SameName {
		return ErrDuplicateSameName
	}
	return ErrDuplicateDifferentName
}

// IndexError reports an index outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// SettingError reports an unrecognised setting name.
type SettingError struct {
	Name string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("unknown setting %q", e.Name)
}

func (e *SettingError) Unwrap() error {
	return ErrUnknownSetting
}
