package adb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(runner runnerFunc) *Client {
	client := NewClient("adb", "", 5*time.Second, 1<<20, testLogger())
	client.runner = runner
	return client
}

func TestShellReturnsTrimmedOutput(t *testing.T) {
	client := testClient(func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
		fmt.Fprint(stdout, "  hello world \n")
		return nil
	})

	output, err := client.Shell(context.Background(), "echo hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "hello world" {
		t.Errorf("unexpected output: %q", output)
	}
}

func TestShellArgsIncludeSerial(t *testing.T) {
	var gotArgs []string
	client := NewClient("adb", "emulator-5554", 5*time.Second, 1<<20, testLogger())
	client.runner = func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
		gotArgs = args
		return nil
	}

	if _, err := client.Shell(context.Background(), "uname -r"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "-s emulator-5554 shell uname -r"
	if got := strings.Join(gotArgs, " "); got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestShellFailureIsConnectivityError(t *testing.T) {
	client := testClient(func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
		fmt.Fprint(stderr, "error: no devices/emulators found")
		return errors.New("exit status 1")
	})

	_, err := client.Shell(context.Background(), "cat /proc/meminfo")
	if err == nil {
		t.Fatal("expected error")
	}

	var connectivity *ConnectivityError
	if !errors.As(err, &connectivity) {
		t.Fatalf("expected ConnectivityError, got %T", err)
	}
	if !strings.Contains(connectivity.Error(), "no devices/emulators found") {
		t.Errorf("error should carry stderr detail: %v", connectivity)
	}
}

func TestShellSoftReturnsPartialOutput(t *testing.T) {
	client := testClient(func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
		fmt.Fprint(stdout, "1800000\n")
		fmt.Fprint(stderr, "cat: /sys/devices/system/cpu/cpu1/cpufreq/cpuinfo_min_freq: No such file or directory")
		return errors.New("exit status 1")
	})

	output, err := client.ShellSoft(context.Background(), "cat freq files")
	if err == nil {
		t.Fatal("expected error alongside output")
	}
	if output != "1800000" {
		t.Errorf("soft mode should hand back best-effort output, got %q", output)
	}
}

func TestShellOutputCapped(t *testing.T) {
	client := NewClient("adb", "", 5*time.Second, 16, testLogger())
	client.runner = func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
		fmt.Fprint(stdout, strings.Repeat("x", 1024))
		return nil
	}

	output, err := client.Shell(context.Background(), "yes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output) != 16 {
		t.Errorf("output should be capped at 16 bytes, got %d", len(output))
	}
}

func TestDevices(t *testing.T) {
	client := testClient(func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
		fmt.Fprint(stdout, "List of devices attached\nemulator-5554\tdevice\nRF8M33XXXXX\tunauthorized\n\n")
		return nil
	})

	devices, err := client.Devices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	if devices[0].ID != "emulator-5554" || devices[0].State != "device" {
		t.Errorf("unexpected first device: %+v", devices[0])
	}
	if devices[1].State != "unauthorized" {
		t.Errorf("unexpected second device: %+v", devices[1])
	}
}

func TestDevicesFailure(t *testing.T) {
	client := testClient(func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
		return errors.New("adb: not found")
	})

	if _, err := client.Devices(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
