//go:build marcherdebug

package invariant

// Enabled reports whether checks are active in this build.
const Enabled = true

// Check panics with msg when cond is false in debug builds.
func Check(cond bool, msg string) {
	if !cond {
		panic("invariant violated: " + msg)
	}
}
