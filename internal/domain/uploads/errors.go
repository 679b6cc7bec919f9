package uploads

import "errors"

var (
	ErrUnsupportedField = errors.New("file is not supported")
	ErrUnsupportedMIME  = errors.New("only .jpeg, .png, .jpg, .mp4, .mp3, or .pdf files are supported")
	ErrTooManyFiles     = errors.New("too many files for field")
)
