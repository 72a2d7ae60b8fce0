// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package display

import "os"

// drmDeviceNodes lists the conventional Linux DRM primary device nodes,
// checked in order.
var drmDeviceNodes = []string{"/dev/dri/card0", "/dev/dri/card1"}

// graphicalSessionEnvVars are set by a running desktop/compositor session;
// their presence is treated as "a graphical session is already driving the
// display", so the direct backend should not try to take it over.
var graphicalSessionEnvVars = []string{"WAYLAND_DISPLAY", "DISPLAY"}

// ProbeDirectCapable reports whether the direct DRM backend should be
// selected: a DRM device node exists, is openable by this process, and no
// graphical-session environment hint is set. reason explains a negative
// result for logging.
func ProbeDirectCapable() (ok bool, reason string) {
	for _, v := range graphicalSessionEnvVars {
		if os.Getenv(v) != "" {
			return false, "graphical session env var set: " + v
		}
	}
	node := findDRMNode()
	if node == "" {
		return false, "no DRM device node found"
	}
	f, err := os.OpenFile(node, os.O_RDWR, 0)
	if err != nil {
		return false, "DRM device node not openable: " + err.Error()
	}
	f.Close()
	return true, "DRM device node openable: " + node
}

func findDRMNode() string {
	for _, node := range drmDeviceNodes {
		if info, err := os.Stat(node); err == nil && !info.IsDir() {
			return node
		}
	}
	return ""
}
