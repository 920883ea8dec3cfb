// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The azmuth command is a keyboard remote control for the Azmuth
// Bluetooth LE media controller. It finds the device by name, connects
// and sends each line typed on standard input as a command until exit
// or quit is entered.
//
// Usage:
//
//	azmuth [-config path] [-name substring] [-char uuid] [-timeout duration] [-log-level level]
//
// Parameters not given as flags are taken from the YAML config file,
// by default $XDG_CONFIG_HOME/azmuth/config.yaml, for example
//
//	name: Azmuth
//	characteristic: 00000000-0000-0000-0000-0000000000a1
//	timeout: 5s
//	log_level: debug
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"
	"tinygo.org/x/bluetooth"

	"github.com/kortschak/azmuth/cmd/internal/ring"
	"github.com/kortschak/azmuth/remote"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(status)
}

type adapter interface {
	remote.Scanner
	remote.Connector
}

var newAdapter = func(char bluetooth.UUID) (adapter, error) {
	return remote.NewAdapter(bluetooth.DefaultAdapter, char)
}

// recentDevices is the number of named advertisements listed when the
// target is not found.
const recentDevices = 8

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("azmuth", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", configPath(), "config file path")
	name := fs.String("name", remote.DefaultName, "device name substring")
	char := fs.String("char", remote.CommandCharacteristicID, "command characteristic UUID")
	timeout := fs.Duration("timeout", defaults().Timeout, "scan timeout")
	level := fs.String("log-level", defaults().LogLevel, "diagnostic log level (debug, info, warn or error)")
	err := fs.Parse(args)
	if err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			cfg.Name = *name
		case "char":
			cfg.Characteristic = *char
		case "timeout":
			cfg.Timeout = *timeout
		case "log-level":
			cfg.LogLevel = *level
		}
	})
	charID, err := cfg.validate()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	log := newLogger(stderr, cfg.LogLevel)

	a, err := newAdapter(charID)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "scanning for %q...\n", cfg.Name)
	recent := ring.NewBuffer[remote.Device](recentDevices)
	dev, err := remote.Find(ctx, a, cfg.Name, cfg.Timeout, func(d remote.Device) {
		log.Debug("advertisement", "name", d.Name, "address", d.Address.String())
		recent.Write(d)
	})
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return 0
	case errors.Is(err, remote.ErrNotFound):
		fmt.Fprintln(stdout, "device not found")
		if recent.Len() != 0 {
			fmt.Fprintln(stdout, "recently seen:")
			for _, d := range recent.Values() {
				fmt.Fprintf(stdout, "  %s\n", d)
			}
		}
		return 1
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	recent.Reset()
	fmt.Fprintf(stdout, "found: %s\n", dev)

	opts := []remote.Option{
		remote.WithOutput(stdout),
		remote.WithLogger(log),
	}
	if isTerminal(stdin) {
		opts = append(opts, remote.WithPrompt("Enter command: "))
	}
	err = remote.Run(ctx, a, dev, stdin, opts...)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
