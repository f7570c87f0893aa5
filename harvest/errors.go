package harvest

import "errors"

var (
	// ErrFetcherRequired indicates a nil fetcher was passed.
	ErrFetcherRequired = errors.New("harvest: fetcher is required")

	// ErrHarvestPartial indicates a fetch stopped early. The items gathered
	// before the failure are still returned and should be ingested; the
	// remainder is picked up on the next run from the un-advanced cursor.
	ErrHarvestPartial = errors.New("harvest: fetch stopped early")
)
