// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package randomx

import (
	"fmt"
	"runtime"
)

// IsRealImplementation reports whether this binary was built with CGO and
// is therefore backed by the real RandomX library rather than the
// deterministic-but-non-consensus randomx_stub.go fallback. A node running
// the stub must never be used for mainnet validation or mining: it produces
// a SHA256-derived digest of its key and input, not a genuine RandomX hash,
// so its proof-of-work checks would accept (or reject) the wrong blocks.
// The two backends are mutually exclusive build-tagged files
// (randomx_cgo.go vs randomx_stub.go), each of which sets backendIsReal at
// compile time; there is no runtime probing to get wrong.
func IsRealImplementation() bool {
	return backendIsReal
}

// ImplementationInfo describes which RandomX backend is active, for
// startup logging and the consensus CLI harness.
func ImplementationInfo() string {
	if IsRealImplementation() {
		return fmt.Sprintf("RandomX (cgo, flags=0x%x, arch=%s)", GetFlags(), runtime.GOARCH)
	}
	return "RandomX stub (CGO disabled; validation/mining results are not consensus-valid)"
}
