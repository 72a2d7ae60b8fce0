// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build linux

package display

import (
	"fmt"
	"image"
	"os"
	"unsafe"

	"golang.org/x/image/draw"
	"golang.org/x/sys/unix"

	"github.com/brandonfranzke/panelkit/internal/errs"
)

// directBackend renders into an in-memory software surface and scans it
// out through a Linux DRM dumb buffer: one connected connector, its
// preferred mode, one dumb buffer sized to that mode, mapped and wired to
// a framebuffer object set on the connector's CRTC.
type directBackend struct {
	fd     int
	handle uint32
	fbID   uint32
	crtcID uint32
	connID uint32
	mode   drmModeModeInfo

	width, height int
	pitch         uint32
	mmap          []byte

	surface *image.RGBA
	scope   *errs.Scope
}

func openDirect(cfg Config, scope *errs.Scope) (Backend, error) {
	node := findDRMNode()
	if node == "" {
		return nil, errs.New(scope, errs.DisplayInitFailed, "display.openDirect:node", nil)
	}

	fd, err := unix.Open(node, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, permissionDiagnostic(scope, node, err)
	}

	if err := drmIoctl(fd, drmIoctlSetMaster, 0); err != nil {
		unix.Close(fd)
		return nil, errs.New(scope, errs.PermissionDenied, "display.openDirect:setMaster", err)
	}

	connID, mode, err := findConnectedMode(fd)
	if err != nil {
		unix.Close(fd)
		return nil, errs.New(scope, errs.DisplayInitFailed, "display.openDirect:connector", err)
	}

	w, h := int(mode.Hdisplay), int(mode.Vdisplay)
	handle, pitch, size, err := createDumbBuffer(fd, uint32(w), uint32(h))
	if err != nil {
		unix.Close(fd)
		return nil, errs.New(scope, errs.DisplayInitFailed, "display.openDirect:createDumb", err)
	}

	fbID, err := addFB(fd, uint32(w), uint32(h), pitch, handle)
	if err != nil {
		destroyDumbBuffer(fd, handle)
		unix.Close(fd)
		return nil, errs.New(scope, errs.DisplayInitFailed, "display.openDirect:addFB", err)
	}

	mm, err := mapDumbBuffer(fd, handle, size)
	if err != nil {
		drmIoctl(fd, drmIoctlModeRmFB, uintptr(unsafe.Pointer(&fbID)))
		destroyDumbBuffer(fd, handle)
		unix.Close(fd)
		return nil, errs.New(scope, errs.DisplayInitFailed, "display.openDirect:mmap", err)
	}

	crtcID, err := findCRTCForConnector(fd, connID)
	if err != nil {
		unix.Munmap(mm)
		drmIoctl(fd, drmIoctlModeRmFB, uintptr(unsafe.Pointer(&fbID)))
		destroyDumbBuffer(fd, handle)
		unix.Close(fd)
		return nil, errs.New(scope, errs.DisplayInitFailed, "display.openDirect:crtc", err)
	}

	if err := setCRTC(fd, crtcID, fbID, connID, mode); err != nil {
		unix.Munmap(mm)
		drmIoctl(fd, drmIoctlModeRmFB, uintptr(unsafe.Pointer(&fbID)))
		destroyDumbBuffer(fd, handle)
		unix.Close(fd)
		return nil, errs.New(scope, errs.DisplayInitFailed, "display.openDirect:setCrtc", err)
	}

	return &directBackend{
		fd: fd, handle: handle, fbID: fbID, crtcID: crtcID, connID: connID, mode: mode,
		width: w, height: h, pitch: pitch, mmap: mm,
		surface: image.NewRGBA(image.Rect(0, 0, w, h)),
		scope:   scope,
	}, nil
}

func (b *directBackend) ActualWidth() int       { return b.width }
func (b *directBackend) ActualHeight() int      { return b.height }
func (b *directBackend) Surface() *image.RGBA   { return b.surface }

// Present blits the software surface into the mmap'd scanout buffer,
// respecting pitch (which may exceed width*4 for alignment), then issues a
// page flip via a CRTC mode-set onto the same framebuffer. Loss of
// display-master privileges surfaces as DisplayDisconnected, which the
// application loop treats as fatal.
func (b *directBackend) Present() error {
	bpp := 4
	for y := 0; y < b.height; y++ {
		srcOff := y * b.surface.Stride
		dstOff := y * int(b.pitch)
		draw.Draw(
			&image.RGBA{Pix: b.mmap[dstOff : dstOff+b.width*bpp], Stride: b.width * bpp, Rect: image.Rect(0, 0, b.width, 1)},
			image.Rect(0, 0, b.width, 1),
			&image.RGBA{Pix: b.surface.Pix[srcOff : srcOff+b.width*bpp], Stride: b.width * bpp, Rect: image.Rect(0, 0, b.width, 1)},
			image.Point{},
			draw.Src,
		)
	}
	// Re-assert the mode-set on the existing framebuffer object as the
	// page-flip: the dumb-buffer path has no vblank-synced flip ioctl, so
	// each present is a synchronous CRTC mode-set onto the buffer just
	// written. EACCES/EPERM here means another process took display
	// mastership away from us mid-run, which is unrecoverable.
	connIDs := []uint32{b.connID}
	req := drmModeCrtc{
		SetConnectorsPtr: uint64(uintptr(unsafe.Pointer(&connIDs[0]))),
		CountConnectors:  1,
		CrtcID:           b.crtcID,
		FbID:             b.fbID,
		ModeValid:        1,
		Mode:             b.mode,
	}
	if err := drmIoctl(b.fd, drmIoctlModeSetCrtc, uintptr(unsafe.Pointer(&req))); err != nil {
		if err == unix.EACCES || err == unix.EPERM {
			return errs.New(b.scope, errs.DisplayDisconnected, "direct.Present:master", err)
		}
		return errs.New(b.scope, errs.RenderFailed, "direct.Present:setCrtc", err)
	}
	return nil
}

func (b *directBackend) Destroy() error {
	if b.mmap != nil {
		unix.Munmap(b.mmap)
	}
	fbID := b.fbID
	drmIoctl(b.fd, drmIoctlModeRmFB, uintptr(unsafe.Pointer(&fbID)))
	destroyDumbBuffer(b.fd, b.handle)
	drmIoctl(b.fd, drmIoctlDropMaster, 0)
	return unix.Close(b.fd)
}

func drmIoctl(fd int, req uintptr, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

func findConnectedMode(fd int) (connID uint32, mode drmModeModeInfo, err error) {
	var res drmModeCardRes
	if err = drmIoctl(fd, drmIoctlModeGetResources, uintptr(unsafe.Pointer(&res))); err != nil {
		return 0, mode, err
	}
	if res.CountConnectors == 0 {
		return 0, mode, fmt.Errorf("no connectors reported")
	}
	connIDs := make([]uint32, res.CountConnectors)
	res.ConnectorIDPtr = uint64(uintptr(unsafe.Pointer(&connIDs[0])))
	if err = drmIoctl(fd, drmIoctlModeGetResources, uintptr(unsafe.Pointer(&res))); err != nil {
		return 0, mode, err
	}

	for _, id := range connIDs {
		var conn drmModeGetConnector
		conn.ConnectorID = id
		if err = drmIoctl(fd, drmIoctlModeGetConnector, uintptr(unsafe.Pointer(&conn))); err != nil {
			continue
		}
		if conn.Connection != drmModeConnected || conn.CountModes == 0 {
			continue
		}
		modes := make([]drmModeModeInfo, conn.CountModes)
		conn.ModesPtr = uint64(uintptr(unsafe.Pointer(&modes[0])))
		if err = drmIoctl(fd, drmIoctlModeGetConnector, uintptr(unsafe.Pointer(&conn))); err != nil {
			continue
		}
		// The preferred mode is conventionally first in the kernel's list.
		return id, modes[0], nil
	}
	return 0, mode, fmt.Errorf("no connected connector with a usable mode")
}

func findCRTCForConnector(fd int, connID uint32) (uint32, error) {
	var res drmModeCardRes
	if err := drmIoctl(fd, drmIoctlModeGetResources, uintptr(unsafe.Pointer(&res))); err != nil {
		return 0, err
	}
	if res.CountCrtcs == 0 {
		return 0, fmt.Errorf("no CRTCs reported")
	}
	crtcIDs := make([]uint32, res.CountCrtcs)
	res.CrtcIDPtr = uint64(uintptr(unsafe.Pointer(&crtcIDs[0])))
	if err := drmIoctl(fd, drmIoctlModeGetResources, uintptr(unsafe.Pointer(&res))); err != nil {
		return 0, err
	}
	return crtcIDs[0], nil
}

func createDumbBuffer(fd int, w, h uint32) (handle, pitch uint32, size uint64, err error) {
	req := drmModeCreateDumb{Width: w, Height: h, Bpp: 32}
	if err = drmIoctl(fd, drmIoctlModeCreateDumb, uintptr(unsafe.Pointer(&req))); err != nil {
		return 0, 0, 0, err
	}
	return req.Handle, req.Pitch, req.Size, nil
}

func destroyDumbBuffer(fd int, handle uint32) {
	req := drmModeDestroyDumb{Handle: handle}
	drmIoctl(fd, drmIoctlModeDestroyDumb, uintptr(unsafe.Pointer(&req)))
}

func addFB(fd int, w, h, pitch, handle uint32) (uint32, error) {
	req := drmModeFBCmd{Width: w, Height: h, Pitch: pitch, Bpp: 32, Depth: 24, Handle: handle}
	if err := drmIoctl(fd, drmIoctlModeAddFB, uintptr(unsafe.Pointer(&req))); err != nil {
		return 0, err
	}
	return req.FbID, nil
}

func mapDumbBuffer(fd int, handle uint32, size uint64) ([]byte, error) {
	req := drmModeMapDumb{Handle: handle}
	if err := drmIoctl(fd, drmIoctlModeMapDumb, uintptr(unsafe.Pointer(&req))); err != nil {
		return nil, err
	}
	return unix.Mmap(fd, int64(req.Offset), int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func setCRTC(fd int, crtcID, fbID, connID uint32, mode drmModeModeInfo) error {
	connIDs := []uint32{connID}
	req := drmModeCrtc{
		SetConnectorsPtr: uint64(uintptr(unsafe.Pointer(&connIDs[0]))),
		CountConnectors:  1,
		CrtcID:           crtcID,
		FbID:             fbID,
		ModeValid:        1,
		Mode:             mode,
	}
	return drmIoctl(fd, drmIoctlModeSetCrtc, uintptr(unsafe.Pointer(&req)))
}

// permissionDiagnostic upgrades a bare EACCES/EPERM opening the DRM node
// into an actionable message using the process's effective capability set,
// matching the §7 permission-denied kind.
func permissionDiagnostic(scope *errs.Scope, node string, cause error) error {
	msg := fmt.Sprintf("open %s: %v", node, cause)
	if caps, capErr := loadCapabilities(); capErr == nil {
		if !caps.hasSysAdmin() {
			msg += " (process lacks CAP_SYS_ADMIN; run as a member of the video/render group or with elevated capabilities)"
		}
	}
	if _, statErr := os.Stat(node); statErr != nil {
		msg += "; device node stat failed: " + statErr.Error()
	}
	return errs.New(scope, errs.PermissionDenied, "display.openDirect:open", fmt.Errorf("%s", msg))
}
