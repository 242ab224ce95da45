package transactions

import (
	"fmt"
	"net/http"
)

// RemoteError is returned when the source answers a page request with a
// non-success status.
type RemoteError struct {
	StatusCode int
	URL        string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: status code = %d for %s", e.StatusCode, e.URL)
}

// EndOfData reports whether the status marks the page past the last one,
// rather than a fault on a page that should exist.
func (e *RemoteError) EndOfData() bool {
	return e.StatusCode == http.StatusNotFound
}

// CountMismatchError means the number of transactions received differs from
// the total the source declared. Transactions holds what was received.
type CountMismatchError struct {
	Received     int
	Expected     int
	Transactions []Transaction
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("the number of transactions given (%d) and the number of transactions received (%d) do not match, there may be some transactions missing", e.Expected, e.Received)
}

// PageLimitError is returned when the source keeps serving pages past the
// configured ceiling.
type PageLimitError struct {
	Limit int
}

func (e *PageLimitError) Error() string {
	return fmt.Sprintf("source returned more than %d pages", e.Limit)
}
