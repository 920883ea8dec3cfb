// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remote

// State is the connection state of a Session.
type State uint8

//go:generate go tool golang.org/x/tools/cmd/stringer -type State
const (
	Disconnected State = iota
	Connected
	Sending
)
