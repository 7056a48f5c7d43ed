package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testTag = "ghostman-test"

func TestMain(m *testing.M) {
	if os.Getenv("GHOSTMAN_LOCK_HELPER") == "1" {
		runLockHelper()
		return
	}
	os.Exit(m.Run())
}

// runLockHelper is the second process in cross-process tests. It tries to
// acquire the guard at GHOSTMAN_LOCK_PATH, reports the outcome on stdout,
// optionally holds until stdin closes, and always exits without calling
// Release so the parent can observe OS-level cleanup.
func runLockHelper() {
	path := os.Getenv("GHOSTMAN_LOCK_PATH")
	if path == "" {
		os.Exit(0)
	}

	g := NewGuard(path, testTag)
	if err := g.Acquire(); err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			fmt.Println("already-running")
			os.Exit(3)
		}
		fmt.Println("error:", err)
		os.Exit(1)
	}
	fmt.Println("acquired")

	if os.Getenv("GHOSTMAN_LOCK_HOLD") == "1" {
		io.Copy(io.Discard, os.Stdin)
	}
	os.Exit(0)
}

// deadPID returns the pid of a process that is guaranteed to have exited.
func deadPID(t *testing.T) int {
	t.Helper()
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), "GHOSTMAN_LOCK_HELPER=1")
	require.NoError(t, cmd.Run())
	return cmd.Process.Pid
}

// lockHelperOnce runs the helper against path and returns its combined
// output and exit code.
func lockHelperOnce(t *testing.T, path string) (string, int) {
	t.Helper()
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(),
		"GHOSTMAN_LOCK_HELPER=1",
		"GHOSTMAN_LOCK_PATH="+path,
	)
	out, err := cmd.CombinedOutput()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return string(out), code
}

// startHoldingHelper starts a helper that acquires path and holds the
// claim until the returned stop function is called.
func startHoldingHelper(t *testing.T, path string) (stop func()) {
	t.Helper()
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(),
		"GHOSTMAN_LOCK_HELPER=1",
		"GHOSTMAN_LOCK_PATH="+path,
		"GHOSTMAN_LOCK_HOLD=1",
	)
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	line, err := bufio.NewReader(stdout).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "acquired\n", line)

	return func() {
		stdin.Close()
		_ = cmd.Wait()
	}
}

// stubStrategy lets tests dictate what TryLock reports.
type stubStrategy struct {
	handle *Handle
	err    error
	method Method
}

func (s stubStrategy) TryLock(string) (*Handle, error) {
	return s.handle, s.err
}

func (s stubStrategy) Method() Method {
	return s.method
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
