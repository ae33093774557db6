//go:build !marcherdebug

// Package invariant guards preconditions whose violation is a programmer
// error rather than a runtime condition. Checks panic only in builds tagged
// marcherdebug; release builds compile them away and callers degrade.
package invariant

// Enabled reports whether checks are active in this build.
const Enabled = false

// Check panics with msg when cond is false in debug builds.
func Check(cond bool, msg string) {}
