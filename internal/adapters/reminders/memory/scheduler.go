package memory

import (
	"context"
	"sync"

	"herp-husbandry/internal/ports/reminders"
)

// Scheduler guarda los recordatorios en memoria. Sirve para desarrollo y
// tests; se pierde todo al reiniciar el proceso.
type Scheduler struct {
	mu   sync.RWMutex
	byID map[string]reminders.Reminder
}

func NewScheduler() *Scheduler {
	return &Scheduler{byID: map[string]reminders.Reminder{}}
}

var _ reminders.Scheduler = (*Scheduler)(nil)

func (s *Scheduler) Schedule(ctx context.Context, r reminders.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// mismo ID reemplaza: re-agendar es idempotente
	s.byID[r.ID] = r
	return nil
}

func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

// Pending devuelve una copia de los recordatorios vigentes.
func (s *Scheduler) Pending() []reminders.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reminders.Reminder, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	return out
}
