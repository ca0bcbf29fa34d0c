package glyphcache

import "errors"

// ErrNoFont is returned by Lookup before SetFont was called.
var ErrNoFont = errors.New("glyphcache: font settings not set")
