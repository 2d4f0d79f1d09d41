package document

import "errors"

// ErrMetaKeyExists indicates a plugin tried to set a metadata key an earlier plugin already populated.
var ErrMetaKeyExists = errors.New("metadata key already set")
