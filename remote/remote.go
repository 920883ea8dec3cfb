// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package remote implements a keyboard to Bluetooth LE bridge for the
// Azmuth media remote. A peripheral is found by advertised name and
// text commands are written to its command characteristic without
// response.
package remote

import (
	"errors"
	"fmt"

	"tinygo.org/x/bluetooth"
)

// Default peripheral parameters.
const (
	// DefaultName is the name advertised by the Azmuth firmware.
	DefaultName = "Azmuth"

	// CommandCharacteristicID is the write characteristic accepting
	// text commands.
	CommandCharacteristicID = "00000000-0000-0000-0000-0000000000a1"
)

// CommandCharacteristic is the parsed CommandCharacteristicID.
var CommandCharacteristic = must(bluetooth.ParseUUID(CommandCharacteristicID))

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

var (
	// ErrInvalidArgument is returned for unusable discovery parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDiscovery is returned when the adapter cannot scan.
	ErrDiscovery = errors.New("discovery failed")
	// ErrNotFound is returned when no advertisement matched before
	// the scan timed out.
	ErrNotFound = errors.New("device not found")
	// ErrConnection is returned when a link to the device could not
	// be established.
	ErrConnection = errors.New("connection failed")
	// ErrWrite is returned when a command could not be sent.
	ErrWrite = errors.New("write failed")
)

// Device is a peripheral seen during a scan.
type Device struct {
	Address bluetooth.Address
	Name    string
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Address)
}
