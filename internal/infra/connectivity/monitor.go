package connectivity

import (
	"log/slog"
	"sync"
)

// Monitor holds the online state reported by the UI shell. It does not probe the network.
type Monitor struct {
	mu        sync.RWMutex
	online    bool
	listeners map[int]func(online bool)
	nextID    int
}

func NewMonitor(initiallyOnline bool) *Monitor {
	return &Monitor{
		online:    initiallyOnline,
		listeners: make(map[int]func(online bool)),
	}
}

func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.online
}

// SetOnline records the state and notifies listeners when it changed. It reports whether a
// transition happened.
func (m *Monitor) SetOnline(online bool) bool {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()

		return false
	}

	m.online = online

	listeners := make([]func(bool), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	slog.Info("connectivity changed", "online", online)

	for _, fn := range listeners {
		fn(online)
	}

	return true
}

func (m *Monitor) Subscribe(fn func(online bool)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		delete(m.listeners, id)
	}
}
