// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remote

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Scanner is a source of advertisements.
type Scanner interface {
	// Scan calls found for each received advertisement and blocks
	// until StopScan is called or the scan fails.
	Scan(found func(Device)) error
	// StopScan stops a running scan. It is safe to call from
	// within the found callback.
	StopScan() error
}

// Find scans for a device advertising a name containing name, ignoring
// case, and returns the first match. If no device matches within timeout,
// ErrNotFound is returned. If seen is not nil it is called with each named
// advertisement received.
func Find(ctx context.Context, s Scanner, name string, timeout time.Duration, seen func(Device)) (Device, error) {
	if name == "" {
		return Device{}, fmt.Errorf("%w: empty device name", ErrInvalidArgument)
	}
	if timeout <= 0 {
		return Device{}, fmt.Errorf("%w: non-positive scan timeout: %v", ErrInvalidArgument, timeout)
	}
	want := strings.ToLower(name)

	found := make(chan Device, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.Scan(func(d Device) {
			if d.Name == "" {
				return
			}
			if seen != nil {
				seen(d)
			}
			if !strings.Contains(strings.ToLower(d.Name), want) {
				return
			}
			select {
			case found <- d:
				s.StopScan()
			default:
				// Already have a match; the scan is stopping.
			}
		})
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case d := <-found:
		halt(s, done)
		return d, nil
	case err := <-done:
		select {
		case d := <-found:
			return d, nil
		default:
		}
		if err != nil {
			return Device{}, fmt.Errorf("%w: %w", ErrDiscovery, err)
		}
		return Device{}, ErrNotFound
	case <-timer.C:
		return stop(s, found, done, ErrNotFound)
	case <-ctx.Done():
		return stop(s, found, done, ctx.Err())
	}
}

// stop terminates a running scan and waits for it to return. A match that
// raced with the stop is still returned.
func stop(s Scanner, found <-chan Device, done <-chan error, reason error) (Device, error) {
	err := halt(s, done)
	select {
	case d := <-found:
		return d, nil
	default:
	}
	if err != nil {
		return Device{}, fmt.Errorf("%w: %w", ErrDiscovery, err)
	}
	return Device{}, reason
}

// stopRetry is the interval between attempts to stop a scan that the
// scanner has not yet registered.
const stopRetry = 10 * time.Millisecond

// halt stops the scan and returns its result. StopScan fails until the
// scan is registered with the adapter, so it is retried until the scan
// returns.
func halt(s Scanner, done <-chan error) error {
	tick := time.NewTicker(stopRetry)
	defer tick.Stop()
	for {
		if s.StopScan() == nil {
			return <-done
		}
		select {
		case err := <-done:
			return err
		case <-tick.C:
		}
	}
}
