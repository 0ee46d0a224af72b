package subst

import (
	"testing"

	"github.com/rcarmo/go-red/pkg/testutil"
)

func FuzzParse(f *testing.F) {
	f.Add("s/a/b/", "abc")
	f.Add("s|x|&&|g", "xx")
	f.Add(`s/(\d)/\1\1/2`, "a1b2")
	if testing.Short() {
		f.Skip("fuzzing skipped in short mode")
	}
	f.Fuzz(func(t *testing.T, directive, line string) {
		directive = testutil.ClampString(directive, testutil.MaxFuzzBytes)
		line = testutil.ClampString(line, testutil.MaxFuzzBytes)
		d, err := Parse(directive)
		if err != nil {
			return
		}
		got, changed := d.Substitute(line)
		if !changed && got != line {
			t.Fatalf("unchanged substitution rewrote %q to %q", line, got)
		}
	})
}
