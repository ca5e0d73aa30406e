package weather

import (
	"strings"

	"github.com/i474232898/weather-favourites/internal/common"
)

// AddFavourite returns favourites with a copy of current appended under alias.
// Every existing record is checked; if any shares current's provider id nothing is
// appended and a *DuplicateFavouriteError describes the last such record. The input
// slice is never modified.
func AddFavourite(current LocationRecord, favourites []LocationRecord, alias string) ([]LocationRecord, error) {
	if current.IsZero() {
		return favourites, ErrNoActiveLocation
	}

	var dup *DuplicateFavouriteError
	for i, f := range favourites {
		if f.ProviderID != current.ProviderID {
			continue
		}
		dup = &DuplicateFavouriteError{
			Index:         i,
			FavouriteName: f.FavouriteName,
			SameName:      f.FavouriteName == current.DisplayName,
		}
	}
	if dup != nil {
		return favourites, dup
	}

	fav := current.Clone()
	fav.FavouriteName = common.SanitiseAlias(alias)
	if strings.TrimSpace(fav.FavouriteName) == "" {
		fav.FavouriteName = current.DisplayName
	}

	out := make([]LocationRecord, 0, len(favourites)+1)
	out = append(out, favourites...)
	out = append(out, fav)
	return out, nil
}

// RemoveFavourite returns favourites without the element at index.
func RemoveFavourite(index int, favourites []LocationRecord) ([]LocationRecord, error) {
	if index < 0 || index >= len(favourites) {
		return favourites, &IndexError{Index: index, Len: len(favourites)}
	}

	out := make([]LocationRecord, 0, len(favourites)-1)
	out = append(out, favourites[:index]...)
	out = append(out, favourites[index+1:]...)
	return out, nil
}

// SelectFavourite builds the record that replaces current when the user picks the
// favourite at index. The returned record carries the favourite's cached forecast so
// that it can be shown as-is when a live refetch is not possible.
func SelectFavourite(index int, favourites []LocationRecord, current LocationRecord) (LocationRecord, error) {
	if index < 0 || index >= len(favourites) {
		return LocationRecord{}, &IndexError{Index: index, Len: len(favourites)}
	}

	fav := favourites[index]
	if fav.ProviderID == current.ProviderID {
		return LocationRecord{}, ErrAlreadySelected
	}

	return fav.Clone(), nil
}

// SelectionOutcome describes the result of switching to a favourite.
// Live is false when the cached forecast is shown because refetching failed; Cause
// then holds the reason (wrapping ErrConnectivity or ErrProviderFetch).
type SelectionOutcome struct {
	Location LocationRecord
	Live     bool
	Cause    error
}
