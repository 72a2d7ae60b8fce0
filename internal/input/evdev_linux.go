// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build linux

package input

import (
	"path/filepath"
	"sort"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/brandonfranzke/panelkit/internal/errs"
)

const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0

	absMTSlot        = 0x2f
	absMTTrackingID  = 0x39
	absMTPositionX   = 0x35
	absMTPositionY   = 0x36
	absMTPressure    = 0x3a
)

type inputEvent struct {
	Sec, Usec  int64
	Type, Code uint16
	Value      int32
}

type absInfo struct {
	Value, Minimum, Maximum, Fuzz, Flat, Resolution int32
}

// ioctl direction/encoding constants, mirrored locally rather than shared
// with internal/display since the two packages target unrelated ioctl
// families (evdev vs DRM) and keeping each self-contained avoids a
// cross-package coupling neither needs otherwise.
const (
	iocNone  = 0
	iocRead  = 2
	iocWrite = 1
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return (dir << 30) | (size << 16) | (typ << 8) | nr
}

func iowr(nr, size uintptr) uintptr { return ioc(iocRead|iocWrite, 'E', nr, size) }

func eviocgbit(ev, length uintptr) uintptr { return ioc(iocRead, 'E', 0x20+ev, length) }

// evdevSource implements Source by scanning /dev/input device nodes for one
// whose absolute capabilities include multi-touch X/Y, then translating
// the MT slot protocol into normalized finger events on a background
// reader goroutine.
type evdevSource struct {
	fd   int
	caps Capabilities
	q    *queue

	slotFinger  map[int]int // slot -> stable finger id
	slotX       map[int]int
	slotY       map[int]int
	downSentMap map[int]bool
	curSlot     int
	nextFinger  int

	group *errgroup.Group
	stop  chan struct{}
	mu    sync.Mutex

	scope *errs.Scope
}

// NewEvdevSource scans /dev/input/event* for a device exposing
// ABS_MT_POSITION_X and ABS_MT_POSITION_Y, or opens devicePath directly
// when non-empty.
func NewEvdevSource(devicePath string, scope *errs.Scope) (Source, error) {
	path := devicePath
	if path == "" {
		var err error
		path, err = findTouchDevice()
		if err != nil {
			return nil, errs.New(scope, errs.InputDeviceUnavailable, "input.NewEvdevSource:scan", err)
		}
	}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, errs.New(scope, errs.InputDeviceUnavailable, "input.NewEvdevSource:open:"+path, err)
	}

	xInfo, yInfo, err := readMTRange(fd)
	if err != nil {
		unix.Close(fd)
		return nil, errs.New(scope, errs.InputDeviceUnavailable, "input.NewEvdevSource:absinfo", err)
	}

	return &evdevSource{
		fd: fd,
		caps: Capabilities{
			HasTouch: true, MaxTouchPoints: 10,
			TouchXMin: int(xInfo.Minimum), TouchXMax: int(xInfo.Maximum),
			TouchYMin: int(yInfo.Minimum), TouchYMax: int(yInfo.Maximum),
		},
		q:           newQueue(1024),
		slotFinger:  map[int]int{},
		slotX:       map[int]int{},
		slotY:       map[int]int{},
		downSentMap: map[int]bool{},
		scope:       scope,
	}, nil
}

func (e *evdevSource) Capabilities() Capabilities { return e.caps }

func (e *evdevSource) Start() error {
	e.mu.Lock()
	e.stop = make(chan struct{})
	e.mu.Unlock()
	var g errgroup.Group
	g.Go(e.readLoop)
	e.group = &g
	return nil
}

// stopJoinTimeout bounds how long Stop waits for readLoop to notice e.stop
// and return. The fd is non-blocking and readLoop polls e.stop at most
// 2ms apart between reads, so this should never actually trigger; it exists
// so a wedged reader is detached and leaked rather than hanging teardown.
const stopJoinTimeout = 500 * time.Millisecond

func (e *evdevSource) Stop() error {
	e.mu.Lock()
	if e.stop != nil {
		close(e.stop)
	}
	e.mu.Unlock()
	if e.group != nil {
		done := make(chan struct{})
		go func() {
			e.group.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(stopJoinTimeout):
			// readLoop did not exit in time; detach and leak the fd rather
			// than block shutdown on it.
			return nil
		}
	}
	return unix.Close(e.fd)
}

func (e *evdevSource) Drain() []Event { return e.q.drain() }

const eventSize = int(unsafe.Sizeof(inputEvent{}))

func (e *evdevSource) readLoop() error {
	buf := make([]byte, eventSize*64)
	for {
		select {
		case <-e.stop:
			return nil
		default:
		}
		n, err := unix.Read(e.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				time.Sleep(2 * time.Millisecond)
				continue
			}
			return err
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			ev := (*inputEvent)(unsafe.Pointer(&buf[off]))
			e.handle(*ev)
		}
	}
}

func (e *evdevSource) handle(ev inputEvent) {
	switch ev.Type {
	case evAbs:
		switch ev.Code {
		case absMTSlot:
			e.curSlot = int(ev.Value)
		case absMTTrackingID:
			if ev.Value == -1 {
				if fid, ok := e.slotFinger[e.curSlot]; ok {
					x, y := e.slotX[e.curSlot], e.slotY[e.curSlot]
					e.q.push(Event{Kind: FingerUp, TouchID: e.curSlot, FingerID: fid,
						X: e.normX(x), Y: e.normY(y)})
					delete(e.slotFinger, e.curSlot)
				}
			} else {
				e.nextFinger++
				e.slotFinger[e.curSlot] = e.nextFinger
				delete(e.downSentMap, e.curSlot)
			}
		case absMTPositionX:
			e.slotX[e.curSlot] = int(ev.Value)
		case absMTPositionY:
			e.slotY[e.curSlot] = int(ev.Value)
		}
	case evSyn:
		if ev.Code == synReport {
			e.emitSlotState()
		}
	}
}

// emitSlotState emits a FingerDown for any slot that just gained tracking
// this report, otherwise a FingerMotion, for every currently tracked slot.
// This runs once per SYN_REPORT rather than per ABS_MT_* field, matching
// the glossary's "SYN_REPORT with an active finger emits motion".
func (e *evdevSource) emitSlotState() {
	slots := make([]int, 0, len(e.slotFinger))
	for s := range e.slotFinger {
		slots = append(slots, s)
	}
	sort.Ints(slots)
	for _, slot := range slots {
		fid := e.slotFinger[slot]
		x, y := e.slotX[slot], e.slotY[slot]
		kind := FingerMotion
		if !e.downSent(slot) {
			kind = FingerDown
			e.markDownSent(slot)
		}
		e.q.push(Event{Kind: kind, TouchID: slot, FingerID: fid, X: e.normX(x), Y: e.normY(y), Pressure: 1})
	}
}

func (e *evdevSource) downSent(slot int) bool {
	if e.downSentMap == nil {
		return false
	}
	return e.downSentMap[slot]
}
func (e *evdevSource) markDownSent(slot int) {
	if e.downSentMap == nil {
		e.downSentMap = map[int]bool{}
	}
	e.downSentMap[slot] = true
}

func (e *evdevSource) normX(raw int) float64 {
	span := e.caps.TouchXMax - e.caps.TouchXMin
	if span <= 0 {
		return 0
	}
	return float64(raw-e.caps.TouchXMin) / float64(span)
}
func (e *evdevSource) normY(raw int) float64 {
	span := e.caps.TouchYMax - e.caps.TouchYMin
	if span <= 0 {
		return 0
	}
	return float64(raw-e.caps.TouchYMin) / float64(span)
}

func findTouchDevice() (string, error) {
	nodes, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return "", err
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if hasMultitouch(node) {
			return node, nil
		}
	}
	return "", errNoTouchDevice
}

func hasMultitouch(path string) bool {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return false
	}
	defer unix.Close(fd)
	var bits [(absMTPositionY/8 + 1 + 7) / 8 * 8]byte
	if err := ioctlRaw(fd, eviocgbit(evAbs, uintptr(len(bits))), unsafe.Pointer(&bits[0])); err != nil {
		return false
	}
	return bitSet(bits[:], absMTPositionX) && bitSet(bits[:], absMTPositionY)
}

func bitSet(bits []byte, n int) bool {
	idx := n / 8
	if idx >= len(bits) {
		return false
	}
	return bits[idx]&(1<<uint(n%8)) != 0
}

func readMTRange(fd int) (x, y absInfo, err error) {
	if err = ioctlAbs(fd, absMTPositionX, &x); err != nil {
		return
	}
	if err = ioctlAbs(fd, absMTPositionY, &y); err != nil {
		return
	}
	return
}

func ioctlAbs(fd int, abs uintptr, info *absInfo) error {
	req := iowr(0x40+abs, unsafe.Sizeof(absInfo{}))
	return ioctlRaw(fd, req, unsafe.Pointer(info))
}

func ioctlRaw(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
