package plansfeatures

import (
	"context"
	"errors"
	"os"
	"strings"

	"herp-husbandry/internal/ports/capabilities"
)

// Resolver implementa capabilities.CapabilitiesResolver contra el servicio
// plans-features. Con ALLOW_ALL_CAPABILITIES=true (env) responde siempre
// true, para desarrollo o cuando el servicio todavía no está desplegado.
type Resolver struct {
	client   *Client
	allowAll bool
}

func NewResolver(client *Client) *Resolver {
	allowAll := strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_ALL_CAPABILITIES")), "true")
	return &Resolver{
		client:   client,
		allowAll: allowAll,
	}
}

var _ capabilities.CapabilitiesResolver = (*Resolver)(nil)

// HasFeature responde si el usuario tiene habilitada la feature pedida
// (p.ej. "routines:unlimited", "brumation:track").
func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	feature := strings.TrimSpace(in.Feature)
	if feature == "" {
		return false, errors.New("feature required")
	}

	if r.allowAll {
		return true, nil
	}

	if r == nil || r.client == nil || !r.client.IsConfigured() {
		// Sin configurar preferimos fallar explícito antes que permitir.
		return false, ErrPlansNotConfigured
	}

	resp, err := r.client.GetFeatures(ctx, in.UserID)
	if err != nil {
		return false, err
	}
	return resp.Features[feature], nil
}

// Resolve devuelve el mapa completo de features del usuario.
func (r *Resolver) Resolve(ctx context.Context, userID string) (map[string]bool, error) {
	if r.allowAll {
		return map[string]bool{"*": true}, nil
	}
	if r == nil || r.client == nil || !r.client.IsConfigured() {
		return nil, ErrPlansNotConfigured
	}
	resp, err := r.client.GetFeatures(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resp.Features, nil
}
