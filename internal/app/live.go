package service

import (
	"github.com/okian/prochallenge/internal/domain/types"
	"github.com/okian/prochallenge/pkg/metrics"
)

// Subscribe registers a live board listener. The channel holds at most the
// latest board; a slow reader skips intermediate versions. The returned
// function unsubscribes and closes the channel.
func (s *Service) Subscribe() (<-chan types.Board, func()) {
	ch := make(chan types.Board, liveBuffer)

	s.mu.Lock()
	id := s.nextSubscriber
	s.nextSubscriber++
	s.subscribers[id] = ch
	metrics.UpdateLiveSubscribers(len(s.subscribers))
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			close(sub)
			delete(s.subscribers, id)
			metrics.UpdateLiveSubscribers(len(s.subscribers))
		}
	}
}

func (s *Service) publish(b types.Board) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- b:
			continue
		default:
		}
		// Replace the stale board with the latest one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- b:
		default:
		}
	}
}
