package interceptor

import "github.com/tomruk/socket.io-mock/internal/sync"

// eventLoop runs the callbacks of a connection one at a time. After every
// task, the microtasks queued meanwhile run before the next task.
type eventLoop struct {
	mu         sync.Mutex
	tasks      []func()
	microtasks []func()
	wake       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (l *eventLoop) post(task func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
	l.notify()
}

func (l *eventLoop) postMicrotask(task func()) {
	l.mu.Lock()
	l.microtasks = append(l.microtasks, task)
	l.mu.Unlock()
	l.notify()
}

func (l *eventLoop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *eventLoop) run() {
	for {
		l.drainMicrotasks()

		task, ok := l.next()
		if ok {
			task()
			continue
		}

		select {
		case <-l.wake:
		case <-l.done:
			return
		}
	}
}

func (l *eventLoop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task, true
}

func (l *eventLoop) drainMicrotasks() {
	for {
		l.mu.Lock()
		if len(l.microtasks) == 0 {
			l.mu.Unlock()
			return
		}
		task := l.microtasks[0]
		l.microtasks[0] = nil
		l.microtasks = l.microtasks[1:]
		l.mu.Unlock()

		task()
	}
}

// stop makes run return once it is idle. Queued tasks are discarded.
func (l *eventLoop) stop() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}
