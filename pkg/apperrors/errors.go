package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrNotProductionData = errors.New("export lacks production data fingerprints")
	ErrVerifyFailed      = errors.New("post-import verification failed")
	ErrRunAborted        = errors.New("import run aborted")
)
