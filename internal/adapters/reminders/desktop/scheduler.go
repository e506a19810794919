package desktop

import (
	"context"
	"sync"
	"time"

	"herp-husbandry/internal/platform/logger"
	"herp-husbandry/internal/ports/reminders"

	"github.com/gen2brain/beeep"
)

// Scheduler entrega recordatorios como notificaciones de escritorio.
// Los inmediatos (FireAt nulo) se notifican en el momento; los programados
// quedan pendientes hasta que el barrido los encuentre vencidos.
type Scheduler struct {
	log logger.Logger

	mu      sync.Mutex
	pending map[string]reminders.Reminder
}

func NewScheduler(log logger.Logger) *Scheduler {
	return &Scheduler{
		log:     log,
		pending: map[string]reminders.Reminder{},
	}
}

var _ reminders.Scheduler = (*Scheduler)(nil)

func (s *Scheduler) Schedule(ctx context.Context, r reminders.Reminder) error {
	if r.FireAt == nil {
		return s.notify(r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// mismo ID reemplaza: re-agendar es idempotente
	s.pending[r.ID] = r
	return nil
}

func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	return nil
}

// Deliver notifica y descarta todos los pendientes ya vencidos a `now`.
// Devuelve cuántos entregó.
func (s *Scheduler) Deliver(now time.Time) int {
	s.mu.Lock()
	due := make([]reminders.Reminder, 0)
	for id, r := range s.pending {
		if r.FireAt != nil && !r.FireAt.After(now) {
			due = append(due, r)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	delivered := 0
	for _, r := range due {
		if err := s.notify(r); err != nil {
			s.warn("desktop notification failed", map[string]any{"reminder_id": r.ID, "err": err.Error()})
			continue
		}
		delivered++
	}
	return delivered
}

// Run barre los pendientes cada `interval` hasta que el contexto muera.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Deliver(now)
		}
	}
}

func (s *Scheduler) notify(r reminders.Reminder) error {
	return beeep.Notify(r.Title, r.Body, "")
}

func (s *Scheduler) warn(msg string, fields map[string]any) {
	if s.log == nil {
		return
	}
	s.log.Warn(msg, fields)
}
