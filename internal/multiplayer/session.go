package multiplayer

import "sync"

// Watcher receives events for one room over a buffered channel.
// Used by the HTTP event stream and the terminal client.
type Watcher struct {
	room     RoomID
	events   chan RoomEvent
	done     chan struct{}
	doneOnce sync.Once
}

func newWatcher(room RoomID, bufferSize int) *Watcher {
	if bufferSize < 1 {
		bufferSize = 16 // Default buffer size
	}
	return &Watcher{
		room:   room,
		events: make(chan RoomEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

// send delivers an event without blocking.
// If the buffer is full, the oldest event is dropped.
func (w *Watcher) send(evt RoomEvent) {
	select {
	case <-w.done:
		return
	default:
	}

	select {
	case w.events <- evt:
	default:
		select {
		case <-w.events:
		default:
		}
		select {
		case w.events <- evt:
		default:
		}
	}
}

// Events returns the channel to receive events from.
func (w *Watcher) Events() <-chan RoomEvent {
	return w.events
}

// Done returns a channel that closes when the watcher is closed.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops delivery. Safe to call multiple times.
func (w *Watcher) Close() {
	w.doneOnce.Do(func() {
		close(w.done)
	})
}

// watchers tracks subscribers per room.
type watchers struct {
	mu     sync.Mutex
	byRoom map[RoomID]map[*Watcher]struct{}
}

func newWatchers() *watchers {
	return &watchers{byRoom: make(map[RoomID]map[*Watcher]struct{})}
}

func (ws *watchers) add(w *Watcher) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	set, ok := ws.byRoom[w.room]
	if !ok {
		set = make(map[*Watcher]struct{})
		ws.byRoom[w.room] = set
	}
	set[w] = struct{}{}
}

func (ws *watchers) remove(w *Watcher) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if set, ok := ws.byRoom[w.room]; ok {
		delete(set, w)
		if len(set) == 0 {
			delete(ws.byRoom, w.room)
		}
	}
}

func (ws *watchers) publish(room RoomID, evt RoomEvent) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for w := range ws.byRoom[room] {
		w.send(evt)
	}
}

// closeRoom closes and forgets every watcher of a room.
func (ws *watchers) closeRoom(room RoomID) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for w := range ws.byRoom[room] {
		w.Close()
	}
	delete(ws.byRoom, room)
}
