// Package adb drives the Android debug bridge binary and turns its plain
// text output into something the metrics layer can parse. One Client talks
// to one device; there are no concurrent sessions.
package adb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ConnectivityError means the bridge invocation could not start or the
// device is unreachable. It is fatal to the request that triggered it and
// is never retried here.
type ConnectivityError struct {
	Command string
	Err     error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("adb unreachable running %q: %v", e.Command, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// Device is one row of `adb devices` output.
type Device struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// runnerFunc executes a prepared argv and streams stdout/stderr into the
// given writers. Tests swap it out for a fake.
type runnerFunc func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error

type Client struct {
	binary         string
	serial         string
	commandTimeout time.Duration
	maxOutputBytes int

	logger *slog.Logger
	runner runnerFunc
}

func NewClient(binary, serial string, commandTimeout time.Duration, maxOutputBytes int, logger *slog.Logger) *Client {
	return &Client{
		binary:         binary,
		serial:         serial,
		commandTimeout: commandTimeout,
		maxOutputBytes: maxOutputBytes,
		logger:         logger,
		runner:         runSubprocess,
	}
}

func runSubprocess(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	command := exec.CommandContext(ctx, name, args...)
	command.Stdout = stdout
	command.Stderr = stderr
	return command.Run()
}

// Shell runs one `adb shell` invocation and returns its stdout with
// surrounding whitespace trimmed. Non-zero exit or a dead bridge comes back
// as a ConnectivityError.
func (c *Client) Shell(ctx context.Context, command string) (string, error) {
	output, err := c.run(ctx, c.shellArgs(command))
	if err != nil {
		return "", &ConnectivityError{Command: command, Err: err}
	}
	return strings.TrimSpace(output), nil
}

// ShellSoft is the best-effort variant: on failure it still hands back
// whatever the device printed, together with the error. Batched sysfs reads
// use it so that one missing file does not abort sibling reads.
func (c *Client) ShellSoft(ctx context.Context, command string) (string, error) {
	output, err := c.run(ctx, c.shellArgs(command))
	if err != nil {
		return strings.TrimSpace(output), &ConnectivityError{Command: command, Err: err}
	}
	return strings.TrimSpace(output), nil
}

// Devices lists currently reachable devices, one `<id> <state>` per line
// after the header. Malformed lines are skipped.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	output, err := c.run(ctx, []string{"devices"})
	if err != nil {
		return nil, &ConnectivityError{Command: "devices", Err: err}
	}

	var devices []Device
	for i, line := range strings.Split(output, "\n") {
		if i == 0 {
			// "List of devices attached" header
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, Device{ID: fields[0], State: fields[1]})
	}

	return devices, nil
}

func (c *Client) shellArgs(command string) []string {
	args := []string{}
	if c.serial != "" {
		args = append(args, "-s", c.serial)
	}
	return append(args, "shell", command)
}

func (c *Client) run(parentCtx context.Context, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(parentCtx, c.commandTimeout)
	defer cancel()

	stdout := &limitedOutputBuffer{maxBytes: c.maxOutputBytes}
	stderr := &limitedOutputBuffer{maxBytes: c.maxOutputBytes}

	start := time.Now()
	err := c.runner(ctx, c.binary, args, stdout, stderr)
	if stdout.truncated {
		c.logger.Warn("Adb output truncated", "args", strings.Join(args, " "), "max_bytes", c.maxOutputBytes)
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return stdout.String(), fmt.Errorf("command timed out after %s", c.commandTimeout)
		}
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return stdout.String(), fmt.Errorf("%w: %s", err, detail)
		}
		return stdout.String(), err
	}

	c.logger.Debug("Adb command completed", "args", strings.Join(args, " "), "duration", time.Since(start))
	return stdout.String(), nil
}

// limitedOutputBuffer caps how much device output is retained; a runaway
// command must not exhaust process memory.
type limitedOutputBuffer struct {
	buf       bytes.Buffer
	maxBytes  int
	truncated bool
}

func (b *limitedOutputBuffer) Write(p []byte) (int, error) {
	if b.maxBytes <= 0 {
		return len(p), nil
	}

	if b.buf.Len() >= b.maxBytes {
		b.truncated = true
		return len(p), nil
	}

	remaining := b.maxBytes - b.buf.Len()
	if len(p) > remaining {
		_, _ = b.buf.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}

	_, _ = b.buf.Write(p)
	return len(p), nil
}

func (b *limitedOutputBuffer) String() string {
	return b.buf.String()
}
