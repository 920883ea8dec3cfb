// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/bluetooth"

	"github.com/kortschak/azmuth/remote"
)

type fakeAdapter struct {
	names      []string
	connectErr error

	once    sync.Once
	stopped chan struct{}

	char     bluetooth.UUID
	connects []string
	writes   []string
	closes   int
}

func (a *fakeAdapter) Scan(found func(remote.Device)) error {
	for _, n := range a.names {
		select {
		case <-a.stopped:
			return nil
		default:
		}
		found(remote.Device{Name: n})
	}
	<-a.stopped
	return nil
}

func (a *fakeAdapter) StopScan() error {
	a.once.Do(func() { close(a.stopped) })
	return nil
}

func (a *fakeAdapter) Connect(d remote.Device) (remote.Conn, error) {
	a.connects = append(a.connects, d.Name)
	if a.connectErr != nil {
		return nil, a.connectErr
	}
	return fakeConn{a}, nil
}

type fakeConn struct{ a *fakeAdapter }

func (c fakeConn) Write(p []byte) error {
	c.a.writes = append(c.a.writes, string(p))
	return nil
}

func (c fakeConn) Close() error {
	c.a.closes++
	return nil
}

func useFakeAdapter(t *testing.T, a *fakeAdapter) {
	t.Helper()
	a.stopped = make(chan struct{})
	orig := newAdapter
	newAdapter = func(char bluetooth.UUID) (adapter, error) {
		a.char = char
		return a, nil
	}
	t.Cleanup(func() { newAdapter = orig })
}

func noConfig(t *testing.T) string {
	return "-config=" + filepath.Join(t.TempDir(), "missing.yaml")
}

func TestRunSendsCommands(t *testing.T) {
	a := &fakeAdapter{names: []string{"AzmuthDevice", "OtherThing"}}
	useFakeAdapter(t, a)

	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{noConfig(t)}, strings.NewReader("volup\nmove 10 0\nexit\nmute\n"), &stdout, &stderr)
	require.Equal(t, 0, status, stderr.String())
	assert.Equal(t, []string{"AzmuthDevice"}, a.connects)
	assert.Equal(t, []string{"volup", "move 10 0"}, a.writes)
	assert.Equal(t, 1, a.closes)
	assert.Equal(t, remote.CommandCharacteristic, a.char)
	assert.Contains(t, stdout.String(), "found: AzmuthDevice")
	assert.NotContains(t, stdout.String(), "Enter command: ")
}

func TestRunNotFound(t *testing.T) {
	var names []string
	for i := range 10 {
		names = append(names, fmt.Sprintf("Speaker%d", i))
	}
	a := &fakeAdapter{names: names}
	useFakeAdapter(t, a)

	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{noConfig(t), "-timeout=20ms"}, strings.NewReader("volup\n"), &stdout, &stderr)
	assert.Equal(t, 1, status)
	assert.Empty(t, a.connects)
	out := stdout.String()
	assert.Contains(t, out, "device not found")
	assert.NotContains(t, out, "Speaker0 (")
	assert.NotContains(t, out, "Speaker1 (")
	assert.Contains(t, out, "Speaker2")
	assert.Contains(t, out, "Speaker9")
}

func TestRunConnectFailure(t *testing.T) {
	a := &fakeAdapter{names: []string{"Azmuth"}, connectErr: errors.New("link refused")}
	useFakeAdapter(t, a)

	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{noConfig(t)}, strings.NewReader("volup\n"), &stdout, &stderr)
	assert.Equal(t, 1, status)
	assert.Contains(t, stderr.String(), "link refused")
	assert.Empty(t, a.writes)
	assert.Zero(t, a.closes)
}

func TestRunFlags(t *testing.T) {
	a := &fakeAdapter{names: []string{"Azmuth", "remote-two"}}
	useFakeAdapter(t, a)

	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{
		noConfig(t),
		"-name=TWO",
		"-char=0000ffe1-0000-1000-8000-00805f9b34fb",
	}, strings.NewReader("play\n"), &stdout, &stderr)
	require.Equal(t, 0, status, stderr.String())
	assert.Equal(t, []string{"remote-two"}, a.connects)
	assert.Equal(t, "0000ffe1-0000-1000-8000-00805f9b34fb", a.char.String())
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{
		{"-bogus"},
		{"extra"},
	} {
		var stdout, stderr bytes.Buffer
		status := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
		assert.Equal(t, 2, status, "args: %q", args)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	for _, args := range [][]string{
		{"-name="},
		{"-timeout=0s"},
		{"-char=not-a-uuid"},
	} {
		var stdout, stderr bytes.Buffer
		status := run(context.Background(), append([]string{noConfig(t)}, args...), strings.NewReader(""), &stdout, &stderr)
		assert.Equal(t, 1, status, "args: %q", args)
		assert.Contains(t, stderr.String(), "error:")
	}
}

func TestRunInterrupted(t *testing.T) {
	a := &fakeAdapter{names: []string{"OtherThing"}}
	useFakeAdapter(t, a)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	status := run(ctx, []string{noConfig(t)}, strings.NewReader("volup\n"), &stdout, &stderr)
	assert.Equal(t, 0, status, stderr.String())
	assert.Empty(t, stderr.String())
	assert.Empty(t, a.connects)
	assert.NotContains(t, stdout.String(), "device not found")
}
