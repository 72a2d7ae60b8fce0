// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package input

import "errors"

var errUnsupportedPlatform = errors.New("evdev input source is only available on linux")
var errNoTouchDevice = errors.New("no /dev/input device exposes multi-touch position axes")
