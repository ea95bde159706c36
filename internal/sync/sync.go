//go:build !sio_deadlock

// Package sync lets the module's locks be swapped for deadlock-detecting
// ones by building with the sio_deadlock tag.
package sync

import "sync"

type (
	Mutex     = sync.Mutex
	RWMutex   = sync.RWMutex
	Once      = sync.Once
	WaitGroup = sync.WaitGroup
	Locker    = sync.Locker
)
