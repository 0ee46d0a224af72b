package integration_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rcarmo/go-red/pkg/testutil"
)

var (
	buildOnce sync.Once
	buildErr  error
	redBinary string
)

type sessionTestCase struct {
	name      string
	args      []string
	input     string
	files     map[string]string
	wantOut   string
	wantFiles map[string]string
}

func TestSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("integration sessions skipped in short mode")
	}
	bin := getRed(t)

	tests := []sessionTestCase{
		{
			name:      "create_and_save",
			args:      []string{"todo.txt"},
			input:     testutil.Script("a", "milk", "eggs", ".", "wq"),
			wantOut:   "Creating a new file\n0\n9\nHave a nice day !\n",
			wantFiles: map[string]string{"todo.txt": "milk\neggs"},
		},
		{
			name:      "range_edit",
			args:      []string{"list.txt"},
			input:     testutil.Script("1,2d", "%s/c/C/", "w", "q"),
			files:     map[string]string{"list.txt": "a\nb\nc\nd\n"},
			wantOut:   "8\n1   C\n3\nHave a nice day !\n",
			wantFiles: map[string]string{"list.txt": "C\nd"},
		},
		{
			name:    "numbered_whole_buffer",
			args:    []string{"list.txt"},
			input:   testutil.Script("%n", "Q"),
			files:   map[string]string{"list.txt": strings.Repeat("x\n", 10)},
			wantOut: "20\n" + numbered(10, "x") + "Have a nice day !\n",
		},
		{
			name:    "errors_keep_going",
			input:   testutil.Script("p", "9", "x", "a", "only", ".", "p", "Q"),
			wantOut: "?\n?\n?\nonly\nHave a nice day !\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.TempDirWithFiles(t, tt.files)
			out, errOut, code := runRed(t, bin, tt.args, tt.input, dir)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr %q", code, errOut)
			}
			testutil.AssertOutput(t, out, tt.wantOut)
			for name, want := range tt.wantFiles {
				testutil.AssertFileContent(t, filepath.Join(dir, name), want)
			}
		})
	}
}

func numbered(n int, text string) string {
	var b strings.Builder
	width := len(fmt.Sprint(n))
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%*d   %s\n", width, i, text)
	}
	return b.String()
}

func getRed(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		root, err := repoRoot()
		if err != nil {
			buildErr = err
			return
		}
		out, err := os.MkdirTemp("", "red-bin-")
		if err != nil {
			buildErr = err
			return
		}
		redBinary = filepath.Join(out, "red")
		cmd := testutil.Command("go", "build", "-o", redBinary, "./cmd/red")
		cmd.Dir = root
		cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build red: %v (%s)", err, output)
		}
	})
	if buildErr != nil {
		t.Fatalf("failed to build red: %v", buildErr)
	}
	return redBinary
}

func runRed(t *testing.T, bin string, args []string, input string, dir string) (string, string, int) {
	t.Helper()
	cmd := testutil.Command(bin, args...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = append(os.Environ(),
		"RED_CONFIG="+filepath.Join(dir, "missing.toml"),
		"RED_PROMPT=", "RED_COLOR=", "RED_RESTRICTED=", "RED_DEBUG=", "RED_GOODBYE=", "NO_COLOR=")
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			t.Fatalf("run red: %v", err)
		}
		exitCode = ee.ExitCode()
	}
	return outBuf.String(), errBuf.String(), exitCode
}

func repoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	// Tests run from pkg/integration.
	return filepath.Dir(filepath.Dir(cwd)), nil
}
