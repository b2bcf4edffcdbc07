package utils

import "sync/atomic"

// Sequencer hands out increasing tickets for one endpoint so that only the
// response to the most recent request is applied.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a ticket for a new request
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest reports whether ticket still belongs to the newest request
func (s *Sequencer) IsLatest(ticket uint64) bool {
	return s.latest.Load() == ticket
}
