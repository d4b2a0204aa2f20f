package cache

import (
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// DaemonBinary is the cache daemon's executable name.
const DaemonBinary = "sw-cache-daemon"

// Connect dials the daemon socket and returns a client for it.
func Connect(sock string) (*Client, error) {
	// quick liveness check
	conn, err := net.DialTimeout("unix", sock, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	_ = conn.Close()
	return NewClient(sock), nil
}

// ConnectOrStart connects to the daemon at sock, starting it if nothing
// answers and waiting up to wait for the socket to appear. started reports
// whether a daemon was launched.
func ConnectOrStart(sock string, wait time.Duration) (c *Client, started bool, err error) {
	if c, err = Connect(sock); err == nil {
		return c, false, nil
	}
	if startErr := StartDaemon(); startErr != nil {
		return nil, false, startErr
	}
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if c, err = Connect(sock); err == nil {
			return c, true, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return nil, true, err
}

// StartDaemon launches the cache daemon in the background.
func StartDaemon() error {
	// 1) Try daemon binary next to this executable (works with absolute invocation)
	if exePath, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exePath), DaemonBinary)
		if _, statErr := os.Stat(sibling); statErr == nil {
			return spawn(sibling)
		}
	}

	// 2) Try PATH binary
	if path, err := exec.LookPath(DaemonBinary); err == nil {
		return spawn(path)
	}

	// 3) Try local binary in current working directory (best-effort)
	if _, err := os.Stat("./" + DaemonBinary); err == nil {
		return spawn("./" + DaemonBinary)
	}

	return exec.ErrNotFound
}

func spawn(path string) error {
	cmd := exec.Command(path)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Env = os.Environ()
	return cmd.Start()
}
