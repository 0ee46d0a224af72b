package address

import (
	"testing"

	"github.com/rcarmo/go-red/pkg/testutil"
)

func FuzzResolve(f *testing.F) {
	for _, seed := range []string{"1", "p", "%s/a/b/", ",3d", "2,%n", "w out", "wq", "/x"} {
		f.Add(seed, 10, 3)
	}
	if testing.Short() {
		f.Skip("fuzzing skipped in short mode")
	}
	f.Fuzz(func(t *testing.T, cmd string, length, cursor int) {
		cmd = testutil.ClampString(cmd, testutil.MaxFuzzBytes)
		if length < 0 || length > 1<<16 {
			return
		}
		if cursor < 0 || (length > 0 && cursor >= length) || (length == 0 && cursor != 0) {
			return
		}
		a, err := Resolve(cmd, length, cursor)
		if err != nil {
			return
		}
		switch a.Kind {
		case Goto, Command, Substitute:
			if a.Start > a.End {
				t.Fatalf("Resolve(%q) produced inverted range %+v", cmd, a)
			}
		}
	})
}
