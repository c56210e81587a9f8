package common

import (
	"github.com/pingcap/errors"
)

// error classes of the query processor. concrete errors wrap one of these
// with errors.Annotate(f) and are classified by errors.Cause.
var (
	// malformed plan or query request. detected before execution starts
	ErrConfiguration = errors.New("configuration error")
	// I/O failure on a base relation page or a sorted run. fatal to the query
	ErrStorage = errors.New("storage error")
	// buffer budget is insufficient for the chosen algorithm
	ErrResource = errors.New("resource error")
)

func IsConfigurationError(err error) bool {
	return err != nil && errors.Cause(err) == ErrConfiguration
}

func IsStorageError(err error) bool {
	return err != nil && errors.Cause(err) == ErrStorage
}

func IsResourceError(err error) bool {
	return err != nil && errors.Cause(err) == ErrResource
}
