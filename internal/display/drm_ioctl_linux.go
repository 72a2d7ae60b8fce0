// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build linux

package display

import "unsafe"

// Mirrors the subset of <drm/drm.h> and <drm/drm_mode.h> the direct backend
// needs: resource/connector/mode enumeration, dumb-buffer create/map/
// destroy, framebuffer add, and CRTC mode-set. Field layouts follow the
// kernel UAPI struct order; ioctl numbers are computed with the same
// _IOWR/_IO encoding the kernel headers use, since golang.org/x/sys/unix
// does not ship DRM's command table.

const drmIoctlBase = 0x64 // 'd'

const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return (dir << 30) | (size << 16) | (typ << 8) | nr
}

func iowr(nr, size uintptr) uintptr { return ioc(iocRead|iocWrite, drmIoctlBase, nr, size) }
func io_(nr uintptr) uintptr        { return ioc(iocNone, drmIoctlBase, nr, 0) }

var (
	drmIoctlSetMaster  = io_(0x1e)
	drmIoctlDropMaster = io_(0x1f)
)

type drmModeCardRes struct {
	FbIDPtr        uint64
	CrtcIDPtr      uint64
	ConnectorIDPtr uint64
	EncoderIDPtr   uint64
	CountFbs       uint32
	CountCrtcs     uint32
	CountConnectors uint32
	CountEncoders  uint32
	MinWidth       uint32
	MaxWidth       uint32
	MinHeight      uint32
	MaxHeight      uint32
}

var drmIoctlModeGetResources = iowr(0xA0, unsafe.Sizeof(drmModeCardRes{}))

type drmModeModeInfo struct {
	Clock      uint32
	Hdisplay   uint16
	HsyncStart uint16
	HsyncEnd   uint16
	Htotal     uint16
	Hskew      uint16
	Vdisplay   uint16
	VsyncStart uint16
	VsyncEnd   uint16
	Vtotal     uint16
	Vscan      uint16
	Vrefresh   uint32
	Flags      uint32
	Type       uint32
	Name       [32]byte
}

type drmModeGetConnector struct {
	EncodersPtr   uint64
	ModesPtr      uint64
	PropsPtr      uint64
	PropValuesPtr uint64

	CountModes    uint32
	CountProps    uint32
	CountEncoders uint32

	EncoderID      uint32
	ConnectorID    uint32
	ConnectorType  uint32
	ConnectorTypeID uint32

	Connection      uint32
	MmWidth         uint32
	MmHeight        uint32
	Subpixel        uint32

	Pad uint32
}

var drmIoctlModeGetConnector = iowr(0xA7, unsafe.Sizeof(drmModeGetConnector{}))

const drmModeConnected = 1

type drmModeCreateDumb struct {
	Height uint32
	Width  uint32
	Bpp    uint32
	Flags  uint32

	Handle uint32
	Pitch  uint32
	Size   uint64
}

var drmIoctlModeCreateDumb = iowr(0xB2, unsafe.Sizeof(drmModeCreateDumb{}))

type drmModeMapDumb struct {
	Handle uint32
	Pad    uint32
	Offset uint64
}

var drmIoctlModeMapDumb = iowr(0xB3, unsafe.Sizeof(drmModeMapDumb{}))

type drmModeDestroyDumb struct {
	Handle uint32
}

var drmIoctlModeDestroyDumb = iowr(0xB4, unsafe.Sizeof(drmModeDestroyDumb{}))

type drmModeFBCmd struct {
	FbID   uint32
	Width  uint32
	Height uint32
	Pitch  uint32
	Bpp    uint32
	Depth  uint32
	Handle uint32
}

var drmIoctlModeAddFB = iowr(0xAE, unsafe.Sizeof(drmModeFBCmd{}))
var drmIoctlModeRmFB = iowr(0xAF, unsafe.Sizeof(uint32(0)))

type drmModeCrtc struct {
	SetConnectorsPtr uint64
	CountConnectors  uint32

	CrtcID uint32
	FbID   uint32

	X, Y uint32

	GammaSize uint32
	ModeValid uint32
	Mode      drmModeModeInfo
}

var drmIoctlModeGetCrtc = iowr(0xA1, unsafe.Sizeof(drmModeCrtc{}))
var drmIoctlModeSetCrtc = iowr(0xA2, unsafe.Sizeof(drmModeCrtc{}))
