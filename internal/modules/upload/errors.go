package upload

import "errors"

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrInvalidMimeType = errors.New("only JPEG, PNG, GIF and WebP images are accepted")
	ErrNotOwner        = errors.New("upload belongs to another user")
)
