package checkin

import "errors"

// ErrSystem means the outcome of a scan is unknown. The scan may be retried.
var ErrSystem = errors.New("check-in unavailable")
