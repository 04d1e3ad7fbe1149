package util

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/FuturFusion/compute-manager/internal/logger"
)

// RunConcurrentList runs the given function concurrently for each entity in the given list.
// Any encountered errors will be logged, and when the run finishes, the last encountered error is returned.
func RunConcurrentList[T any](entities []T, f func(T) error) error {
	if len(entities) == 0 {
		return nil
	}

	wg := sync.WaitGroup{}
	mu := sync.Mutex{}
	errs := make([]error, 0, len(entities))

	for _, e := range entities {
		wg.Add(1)

		go func(e T) {
			defer wg.Done()
			err := f(e)
			if err != nil {
				slog.Error("Failed concurrent action", logger.Err(err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(e)
	}

	wg.Wait()
	if len(errs) > 0 {
		return fmt.Errorf("Failed to run %d concurrent actions. Last error: %w", len(errs), errs[len(errs)-1])
	}

	return nil
}

type idLockEntry struct {
	mu sync.Mutex

	// Number of goroutines holding or waiting for the mutex. The map entry
	// may only be removed once this drops to zero, otherwise a late waiter
	// ends up on a different mutex than a fresh locker of the same ID.
	refs int
}

type IDLock[T comparable] struct {
	accessLock sync.Mutex
	lockMap    map[T]*idLockEntry
}

// NewIDLock creates a thread-safe map of sync.Mutexes keyed by ID.
func NewIDLock[T comparable]() IDLock[T] {
	return IDLock[T]{lockMap: make(map[T]*idLockEntry)}
}

// Lock fetches the existing lock, or creates a new lock for the given ID, and locks it.
func (l *IDLock[T]) Lock(key T) {
	l.accessLock.Lock()

	entry, ok := l.lockMap[key]
	if !ok {
		entry = &idLockEntry{}
		l.lockMap[key] = entry
	}

	entry.refs++

	l.accessLock.Unlock()

	entry.mu.Lock()
}

// Unlock releases the lock for the given ID and drops it from the map once no
// goroutine is using it anymore.
func (l *IDLock[T]) Unlock(key T) {
	l.accessLock.Lock()
	defer l.accessLock.Unlock()

	entry, ok := l.lockMap[key]
	if !ok {
		return
	}

	entry.refs--
	if entry.refs == 0 {
		delete(l.lockMap, key)
	}

	entry.mu.Unlock()
}
