// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
)

// ErrShaderRejected is returned by a hot reload whose shader source did not
// compile. The previous pipeline stays in use.
var ErrShaderRejected = errors.New("render: shader rejected")

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("render: invalid config %s: %s", e.Field, e.Reason)
}
