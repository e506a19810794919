package webhook

import (
	"context"
	"errors"
	"strings"
	"time"

	"herp-husbandry/internal/platform/httpclient"
	"herp-husbandry/internal/ports/reminders"
)

var ErrNotConfigured = errors.New("webhook scheduler not configured")

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Scheduler delega la entrega a un servicio externo de notificaciones vía
// HTTP. El servicio es quien dispara en el momento indicado; acá solo se
// publica o retira la intención.
type Scheduler struct {
	apiKey string
	http   *httpclient.Client
}

func NewScheduler(cfg Config) (*Scheduler, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		apiKey: strings.TrimSpace(cfg.APIKey),
		http:   hc,
	}, nil
}

var _ reminders.Scheduler = (*Scheduler)(nil)

type scheduleRequest struct {
	ID       string     `json:"id"`
	FireAt   *time.Time `json:"fire_at,omitempty"`
	Category string     `json:"category"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
}

func (s *Scheduler) Schedule(ctx context.Context, r reminders.Reminder) error {
	return s.http.DoJSON(ctx, "POST", "/v1/reminders", s.headers(), scheduleRequest{
		ID:       r.ID,
		FireAt:   r.FireAt,
		Category: string(r.Category),
		Title:    r.Title,
		Body:     r.Body,
	}, nil)
}

func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	err := s.http.DoJSON(ctx, "DELETE", "/v1/reminders/"+id, s.headers(), nil, nil)
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == 404 {
		// cancelar lo que ya no existe es un no-op
		return nil
	}
	return err
}

func (s *Scheduler) headers() map[string]string {
	if s.apiKey == "" {
		return nil
	}
	return map[string]string{"X-Api-Key": s.apiKey}
}
