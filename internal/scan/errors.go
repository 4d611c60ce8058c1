package scan

import "errors"

// errEmptyReport covers a scanner that returns neither a report nor an error
var errEmptyReport = errors.New("scanner returned no report")
