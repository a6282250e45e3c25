// Package shared holds code used across fedlease packages that belongs to no
// single layer.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, a slog.Handler that keeps records for assertions
//   - FakeRegistry, an httptest server speaking the fedresurs.ru backend API
//   - canned message-detail payloads for every message shape
//
// Example:
//
//	func TestCollect(t *testing.T) {
//	    reg := testutil.NewFakeRegistry(t)
//	    reg.AddCompany("1234567890", "c-1")
//	    logger, logs := testutil.NewTestLogger(t)
//	    // ...
//	}
package shared
