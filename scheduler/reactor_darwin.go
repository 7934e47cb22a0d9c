//go:build darwin

package scheduler

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// kqueuePoller is the Darwin Poller backend, adapted from the teacher's
// eventloop.FastPoller (poller_darwin.go).
type kqueuePoller struct {
	kq     int
	mu     sync.Mutex
	events map[int]IOEvents
	closed bool
}

func newPoller() (Poller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &kqueuePoller{kq: kq, events: make(map[int]IOEvents)}, nil
}

func (p *kqueuePoller) Register(fd int, events IOEvents) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPollerClosed
	}
	if _, exists := p.events[fd]; exists {
		return ErrFDAlreadyRegistered
	}

	var changes []unix.Kevent_t
	if events&EventRead != 0 {
		changes = append(changes, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: unix.EV_ADD | unix.EV_ENABLE})
	}
	if events&EventWrite != 0 {
		changes = append(changes, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: unix.EV_ADD | unix.EV_ENABLE})
	}
	if _, err := unix.Kevent(p.kq, changes, nil, nil); err != nil {
		return err
	}
	p.events[fd] = events
	return nil
}

func (p *kqueuePoller) Unregister(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	events, exists := p.events[fd]
	if !exists {
		return ErrFDNotRegistered
	}
	var changes []unix.Kevent_t
	if events&EventRead != 0 {
		changes = append(changes, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: unix.EV_DELETE})
	}
	if events&EventWrite != 0 {
		changes = append(changes, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: unix.EV_DELETE})
	}
	_, _ = unix.Kevent(p.kq, changes, nil, nil)
	delete(p.events, fd)
	return nil
}

func (p *kqueuePoller) Wait(timeout time.Duration) ([]int, error) {
	ts := unix.NsecToTimespec(timeout.Nanoseconds())
	var buf [256]unix.Kevent_t
	n, err := unix.Kevent(p.kq, nil, buf[:], &ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	seen := make(map[int]struct{}, n)
	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		fd := int(buf[i].Ident)
		if _, dup := seen[fd]; dup {
			continue
		}
		seen[fd] = struct{}{}
		ready = append(ready, fd)
	}
	return ready, nil
}

func (p *kqueuePoller) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return unix.Close(p.kq)
}
