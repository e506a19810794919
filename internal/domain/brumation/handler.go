package brumation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"herp-husbandry/internal/domain/animals"
	"herp-husbandry/internal/middleware"
	"herp-husbandry/internal/ports/auth"
	"herp-husbandry/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, animalsSvc *animals.Service, caps capabilities.CapabilitiesResolver) {
	r.Route("/animals/{animalID}/brumation", func(br chi.Router) {
		br.Post("/", createCycleHandler(svc, animalsSvc, caps))
		br.Get("/", listCyclesHandler(svc, animalsSvc))
	})

	r.Route("/brumation/{cycleID}", func(cr chi.Router) {
		cr.Get("/", getCycleHandler(svc))
		cr.Patch("/", updateCycleHandler(svc))
		cr.Post("/cancel", cancelCycleHandler(svc))
		cr.Post("/complete", completeCycleHandler(svc))
		cr.Get("/phase", phaseReportHandler(svc))
	})
}

type createCycleRequest struct {
	Season             string   `json:"season"`
	CooldownStart      string   `json:"cooldown_start"`       // YYYY-MM-DD opcional
	FullBrumationStart string   `json:"full_brumation_start"` // YYYY-MM-DD opcional
	WarmupStart        string   `json:"warmup_start"`         // YYYY-MM-DD opcional
	BrumationEnd       string   `json:"brumation_end"`        // YYYY-MM-DD opcional
	PreWeightGrams     *float64 `json:"pre_weight_grams"`
	LastFeedingDate    string   `json:"last_feeding_date"` // YYYY-MM-DD opcional
	Notes              string   `json:"notes"`
}

type updateCycleRequest struct {
	CooldownStart      string   `json:"cooldown_start"`
	FullBrumationStart string   `json:"full_brumation_start"`
	WarmupStart        string   `json:"warmup_start"`
	BrumationEnd       string   `json:"brumation_end"`
	PreWeightGrams     *float64 `json:"pre_weight_grams"`
	PostWeightGrams    *float64 `json:"post_weight_grams"`
	LastFeedingDate    string   `json:"last_feeding_date"`
	FirstFeedingDate   string   `json:"first_feeding_date"`
	Notes              *string  `json:"notes"`
}

type cycleResponse struct {
	ID                 string      `json:"id"`
	AnimalID           string      `json:"animal_id"`
	Season             string      `json:"season"`
	CooldownStart      *time.Time  `json:"cooldown_start,omitempty"`
	FullBrumationStart *time.Time  `json:"full_brumation_start,omitempty"`
	WarmupStart        *time.Time  `json:"warmup_start,omitempty"`
	BrumationEnd       *time.Time  `json:"brumation_end,omitempty"`
	Status             CycleStatus `json:"status"`
	PreWeightGrams     *float64    `json:"pre_weight_grams,omitempty"`
	PostWeightGrams    *float64    `json:"post_weight_grams,omitempty"`
	LastFeedingDate    *time.Time  `json:"last_feeding_date,omitempty"`
	FirstFeedingDate   *time.Time  `json:"first_feeding_date,omitempty"`
	Notes              string      `json:"notes"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

type phaseReportResponse struct {
	CycleID            string  `json:"cycle_id"`
	Phase              Phase   `json:"phase"`
	DaysInPhase        *int    `json:"days_in_phase,omitempty"`
	DaysUntilNextPhase *int    `json:"days_until_next_phase,omitempty"`
	Progress           float64 `json:"progress"`
}

// createCycleHandler godoc
// @Summary Crear ciclo de brumación
// @Description Registra el ciclo de la temporada con las fechas límite que ya estén programadas. Requiere el feature brumation:track del tier.
// @Tags brumation
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Param payload body createCycleRequest true "Temporada y fechas; fechas YYYY-MM-DD"
// @Success 201 {object} cycleResponse
// @Failure 400 {string} string "invalid json / boundary dates out of order"
// @Failure 401 {string} string "unauthorized"
// @Failure 402 {string} string "brumation tracking not available on this tier"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/brumation [post]
func createCycleHandler(svc *Service, animalsSvc *animals.Service, caps capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		// Gate de tier: el seguimiento de brumación es de pago.
		if caps != nil {
			allowed, err := caps.HasFeature(r.Context(), capabilities.CapabilityCheck{
				UserID:  claims.UserID,
				Feature: "brumation:track",
			})
			if err != nil || !allowed {
				http.Error(w, "brumation tracking not available on this tier", http.StatusPaymentRequired)
				return
			}
		}

		var req createCycleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CreateCycleInput{
			Season:         req.Season,
			PreWeightGrams: req.PreWeightGrams,
			Notes:          req.Notes,
		}
		var err error
		if in.CooldownStart, err = parseOptionalDate(req.CooldownStart); err != nil {
			http.Error(w, "cooldown_start must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.FullBrumationStart, err = parseOptionalDate(req.FullBrumationStart); err != nil {
			http.Error(w, "full_brumation_start must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.WarmupStart, err = parseOptionalDate(req.WarmupStart); err != nil {
			http.Error(w, "warmup_start must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.BrumationEnd, err = parseOptionalDate(req.BrumationEnd); err != nil {
			http.Error(w, "brumation_end must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.LastFeedingDate, err = parseOptionalDate(req.LastFeedingDate); err != nil {
			http.Error(w, "last_feeding_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		c, err := svc.CreateCycle(r.Context(), a.ID, claims.UserID, in)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toCycleResponse(c))
	}
}

// listCyclesHandler godoc
// @Summary Listar ciclos de brumación de un animal
// @Tags brumation
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Success 200 {array} cycleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/brumation [get]
func listCyclesHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		items, err := svc.ListByAnimal(r.Context(), a.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]cycleResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCycleResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getCycleHandler godoc
// @Summary Obtener un ciclo
// @Tags brumation
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param cycleID path string true "ID del ciclo"
// @Success 200 {object} cycleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "cycle not found"
// @Router /brumation/{cycleID} [get]
func getCycleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedCycle(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toCycleResponse(c))
	}
}

// updateCycleHandler godoc
// @Summary Actualizar fechas límite y metadata del ciclo
// @Description PATCH parcial. El orden cooldown ≤ full ≤ warmup ≤ end se revalida sobre el resultado.
// @Tags brumation
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param cycleID path string true "ID del ciclo"
// @Param payload body updateCycleRequest true "Campos a modificar"
// @Success 200 {object} cycleResponse
// @Failure 400 {string} string "invalid json / boundary dates out of order"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "cycle not found"
// @Failure 409 {string} string "invalid transition"
// @Router /brumation/{cycleID} [patch]
func updateCycleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedCycle(w, r, svc)
		if !ok {
			return
		}

		var req updateCycleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateCycleInput{
			PreWeightGrams:  req.PreWeightGrams,
			PostWeightGrams: req.PostWeightGrams,
			Notes:           req.Notes,
		}
		var err error
		if in.CooldownStart, err = parseOptionalDate(req.CooldownStart); err != nil {
			http.Error(w, "cooldown_start must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.FullBrumationStart, err = parseOptionalDate(req.FullBrumationStart); err != nil {
			http.Error(w, "full_brumation_start must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.WarmupStart, err = parseOptionalDate(req.WarmupStart); err != nil {
			http.Error(w, "warmup_start must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.BrumationEnd, err = parseOptionalDate(req.BrumationEnd); err != nil {
			http.Error(w, "brumation_end must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.LastFeedingDate, err = parseOptionalDate(req.LastFeedingDate); err != nil {
			http.Error(w, "last_feeding_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.FirstFeedingDate, err = parseOptionalDate(req.FirstFeedingDate); err != nil {
			http.Error(w, "first_feeding_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateCycle(r.Context(), c.ID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				http.Error(w, "invalid transition", http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toCycleResponse(updated))
	}
}

// cancelCycleHandler godoc
// @Summary Cancelar el ciclo
// @Tags brumation
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param cycleID path string true "ID del ciclo"
// @Success 200 {object} cycleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "cycle not found"
// @Failure 409 {string} string "invalid transition"
// @Router /brumation/{cycleID}/cancel [post]
func cancelCycleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedCycle(w, r, svc)
		if !ok {
			return
		}

		updated, err := svc.Cancel(r.Context(), c.ID)
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				http.Error(w, "invalid transition", http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCycleResponse(updated))
	}
}

// completeCycleHandler godoc
// @Summary Confirmar el cierre del ciclo
// @Description Solo válido cuando el calendario ya derivó la fase complete.
// @Tags brumation
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param cycleID path string true "ID del ciclo"
// @Success 200 {object} cycleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "cycle not found"
// @Failure 409 {string} string "invalid transition"
// @Router /brumation/{cycleID}/complete [post]
func completeCycleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedCycle(w, r, svc)
		if !ok {
			return
		}

		updated, err := svc.ConfirmComplete(r.Context(), c.ID)
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				http.Error(w, "invalid transition", http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCycleResponse(updated))
	}
}

// phaseReportHandler godoc
// @Summary Fase actual del ciclo
// @Description Derivada del calendario en el momento de la consulta; nunca se almacena.
// @Tags brumation
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param cycleID path string true "ID del ciclo"
// @Success 200 {object} phaseReportResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "cycle not found"
// @Router /brumation/{cycleID}/phase [get]
func phaseReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedCycle(w, r, svc)
		if !ok {
			return
		}

		rep, err := svc.PhaseReport(r.Context(), c.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, phaseReportResponse{
			CycleID:            rep.CycleID,
			Phase:              rep.Phase,
			DaysInPhase:        rep.DaysInPhase,
			DaysUntilNextPhase: rep.DaysUntilNextPhase,
			Progress:           rep.Progress,
		})
	}
}

func ownedAnimal(w http.ResponseWriter, r *http.Request, animalsSvc *animals.Service) (claims auth.Claims, a animals.Animal, ok bool) {
	claims, found := middleware.GetClaims(r.Context())
	if !found || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return claims, animals.Animal{}, false
	}

	a, err := animalsSvc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
	if err != nil || a.OwnerUserID != claims.UserID {
		http.Error(w, "animal not found", http.StatusNotFound)
		return claims, animals.Animal{}, false
	}
	return claims, a, true
}

func ownedCycle(w http.ResponseWriter, r *http.Request, svc *Service) (BrumationCycle, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return BrumationCycle{}, false
	}

	c, err := svc.GetByID(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil || c.OwnerUserID != claims.UserID {
		http.Error(w, "cycle not found", http.StatusNotFound)
		return BrumationCycle{}, false
	}
	return c, true
}

func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toCycleResponse(c BrumationCycle) cycleResponse {
	return cycleResponse{
		ID:                 c.ID,
		AnimalID:           c.AnimalID,
		Season:             c.Season,
		CooldownStart:      c.CooldownStart,
		FullBrumationStart: c.FullBrumationStart,
		WarmupStart:        c.WarmupStart,
		BrumationEnd:       c.BrumationEnd,
		Status:             c.Status,
		PreWeightGrams:     c.PreWeightGrams,
		PostWeightGrams:    c.PostWeightGrams,
		LastFeedingDate:    c.LastFeedingDate,
		FirstFeedingDate:   c.FirstFeedingDate,
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
