package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/AlphaDora/YCSB/pkg/config"
	"github.com/AlphaDora/YCSB/pkg/extract"
	log "github.com/AlphaDora/YCSB/pkg/logging"
	"github.com/AlphaDora/YCSB/pkg/sample"
	"github.com/melbahja/goph"
	"golang.org/x/crypto/ssh"
)

const sshPort = 22

// CheckScript verifies the test script exists before any run starts and
// makes sure it is executable. A missing script is a fatal condition for
// the caller.
func CheckScript(s config.Scenario) error {
	if len(s.RemoteHost) > 0 {
		return nil
	}
	fi, err := os.Stat(s.Script)
	if err != nil {
		return fmt.Errorf("test script %q not found", s.Script)
	}
	if fi.IsDir() {
		return fmt.Errorf("test script %q is a directory", s.Script)
	}
	if err := os.Chmod(s.Script, 0o755); err != nil {
		return fmt.Errorf("unable to mark %q executable : %v", s.Script, err)
	}
	return nil
}

// SSHConnect builds the ssh client used to drive the test script on a
// remote host. Expects "user@host" and the callers ~/.ssh/id_rsa key.
func SSHConnect(remote string) (*goph.Client, error) {
	user, addr, ok := strings.Cut(remote, "@")
	if !ok {
		return nil, fmt.Errorf("remote host must be in user@host format, got %q", remote)
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("Unable to retrieve users homedir. %s", err)
	}
	key := fmt.Sprintf("%s/.ssh/id_rsa", dir)
	keyd, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("Unable to read key. Error : %s", err)
	}
	auth, err := goph.RawKey(string(keyd), "")
	if err != nil {
		return nil, fmt.Errorf("Unable to retrieve sshkey. Error : %s", err)
	}
	log.Debugf("Attempting to connect with : %s@%s", user, addr)
	return goph.NewConn(&goph.Config{
		User:     user,
		Addr:     addr,
		Port:     sshPort,
		Auth:     auth,
		Callback: ssh.InsecureIgnoreHostKey(),
	})
}

// Run executes one iteration of the test script and returns its captured
// stdout. A non-zero exit or hitting the per-run timeout is an error.
func Run(ctx context.Context, s config.Scenario, runID int) (bytes.Buffer, error) {
	var stdout, stderr bytes.Buffer
	log.Infof("Running test %d/%d...", runID, s.Runs)
	if s.SSHClient != nil {
		out, err := s.SSHClient.Run(s.Script)
		if err != nil {
			return *bytes.NewBuffer(out), fmt.Errorf("test %d failed on %s : %v", runID, s.RemoteHost, err)
		}
		return *bytes.NewBuffer(out), nil
	}
	rctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	cmd := exec.CommandContext(rctx, s.Script)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if errors.Is(rctx.Err(), context.DeadlineExceeded) {
		return stdout, fmt.Errorf("test %d timed out after %s", runID, s.Timeout)
	}
	if err != nil {
		return stdout, fmt.Errorf("test %d failed : %v : %s", runID, err, strings.TrimSpace(stderr.String()))
	}
	log.Debug(strings.TrimSpace(stdout.String()))
	return stdout, nil
}

// RunAll drives the full sequence of test runs. Failed or timed-out runs
// are logged and skipped, runs without any time series records are kept
// out of the result set, and a fixed delay separates consecutive runs.
func RunAll(ctx context.Context, s config.Scenario, uid string) ([]sample.RunResult, error) {
	log.Infof("Starting %d test runs...", s.Runs)
	var results []sample.RunResult
	for i := 0; i < s.Runs; i++ {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		runID := i + 1
		stdout, err := Run(ctx, s, runID)
		if err == nil {
			points := extract.Timeseries(&stdout)
			phases := extract.Phases(&stdout)
			if len(points) > 0 {
				results = append(results, sample.RunResult{
					RunID:      runID,
					UUID:       uid,
					Timeseries: points,
					Phases:     phases,
					Collected:  time.Now(),
				})
				log.Infof("Test %d completed: %d data points", runID, len(points))
			} else {
				log.Infof("Test %d completed but no time series data found", runID)
			}
		} else {
			log.Error(err)
		}
		if i < s.Runs-1 {
			log.Infof("Waiting %s before next test...", s.Delay)
			select {
			case <-time.After(s.Delay):
			case <-ctx.Done():
				return results, ctx.Err()
			}
		}
	}
	return results, nil
}
