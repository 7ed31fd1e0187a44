// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
)

// Server is the subset of the echo server used by the API layer. It allows
// tests to replace the underlying server implementation.
type Server interface {
	Start(address string) error
	Shutdown(context.Context) error
}
