package formdata

import "errors"

var ErrMalformedKey = errors.New("malformed form field name")
