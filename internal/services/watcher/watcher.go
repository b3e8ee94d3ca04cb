// Package watcher reports changes to a single configuration file.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/flight-delay-tui/internal/logger"
)

// EventType defines the type of watcher event.
type EventType int

const (
	// EventChanged means the file was written or recreated.
	EventChanged EventType = iota
	// EventError carries a watcher failure.
	EventError
)

// Event represents a watcher event.
type Event struct {
	Error error
	Path  string
	Type  EventType
}

const debounceInterval = 100 * time.Millisecond

// Service watches one file and debounces bursts of writes.
type Service struct {
	watcher       *fsnotify.Watcher
	debounceTimer *time.Timer
	eventChan     chan Event
	stopChan      chan struct{}
	filePath      string
	mu            sync.Mutex
}

// New starts watching filePath. The parent directory is watched so that
// editors which replace the file are still noticed.
func New(filePath string) (*Service, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(filePath)); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", filePath, err)
	}

	s := &Service{
		watcher:   w,
		filePath:  filePath,
		eventChan: make(chan Event, 10),
		stopChan:  make(chan struct{}),
	}
	go s.watchLoop()

	return s, nil
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Path returns the watched file.
func (s *Service) Path() string {
	return s.filePath
}

func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.sendEvent(Event{Type: EventChanged, Path: s.filePath})
				})
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Path: s.filePath, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher.
func (s *Service) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	return s.watcher.Close()
}
