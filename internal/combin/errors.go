// Package combin enumerates, counts, ranks and unranks k-combinations of an
// n-element index universe in lexicographic order.
// This file defines the sentinel errors returned by the package.
package combin

import "errors"

// Sentinel errors. Callers branch on them with errors.Is; every error
// returned by this package wraps exactly one of them with call context.
var (
	// ErrInvalidArgument reports a malformed space or worker count, such as
	// n < k, a negative n or k, or a non-positive number of workers.
	ErrInvalidArgument = errors.New("combin: invalid argument")

	// ErrInvalidCombination reports a tuple that is not a member of the
	// space: wrong length, an entry outside [0, n), or entries that are not
	// strictly increasing.
	ErrInvalidCombination = errors.New("combin: invalid combination")

	// ErrOutOfRange reports a rank outside [0, C(n,k)).
	ErrOutOfRange = errors.New("combin: rank out of range")
)
