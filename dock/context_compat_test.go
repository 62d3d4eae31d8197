package dock

import (
	"context"
	"testing"
)

// testContext stands in for testing.T.Context, which is unavailable on the
// Go 1.21 toolchain: the returned context is canceled when the test ends.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
