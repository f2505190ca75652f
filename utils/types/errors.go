package types

import "errors"

var (
	ErrNotFound             = errors.New("no such file or directory")
	ErrInaccessible         = errors.New("permission denied")
	ErrRepositoryOpenFailed = errors.New("unable to open git repository")
	ErrStatusLookupFailed   = errors.New("status lookup failed")
	ErrUnsupported          = errors.New("unsupported file type")
)
