// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package display

import "errors"

var errUnsupportedPlatform = errors.New("direct DRM backend is only available on linux")
