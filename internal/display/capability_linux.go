// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build linux

package display

import "github.com/syndtr/gocapability/capability"

// procCaps wraps the process's effective capability set so permission
// diagnostics can tell a genuine EACCES (wrong group, wrong DRM node) apart
// from a process that simply never had CAP_SYS_ADMIN to begin with.
type procCaps struct {
	c capability.Capabilities
}

func loadCapabilities() (procCaps, error) {
	c, err := capability.NewPid2(0)
	if err != nil {
		return procCaps{}, err
	}
	if err := c.Load(); err != nil {
		return procCaps{}, err
	}
	return procCaps{c: c}, nil
}

func (p procCaps) hasSysAdmin() bool {
	return p.c.Get(capability.EFFECTIVE, capability.CAP_SYS_ADMIN)
}
