package invariant

import "testing"

func TestCheck(t *testing.T) {
	Check(true, "never fires")

	defer func() {
		r := recover()
		if Enabled && r == nil {
			t.Error("expected panic in debug build")
		}
		if !Enabled && r != nil {
			t.Errorf("unexpected panic in release build: %v", r)
		}
	}()
	Check(false, "fires only in debug builds")
}
