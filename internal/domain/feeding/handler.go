package feeding

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"herp-husbandry/internal/domain/animals"
	"herp-husbandry/internal/middleware"
	"herp-husbandry/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

// freeRoutineLimit: cantidad de rutinas incluidas en el tier gratuito.
// Superarlo requiere la capability routines:unlimited (decisión del caller,
// no del motor).
const freeRoutineLimit = 3

func RegisterRoutes(r chi.Router, svc *Service, animalsSvc *animals.Service, caps capabilities.CapabilitiesResolver) {
	r.Route("/routines", func(rr chi.Router) {
		rr.Post("/", createRoutineHandler(svc, caps))
		rr.Get("/", listRoutinesHandler(svc))
		rr.Get("/{routineID}", getRoutineHandler(svc))
		rr.Patch("/{routineID}", updateRoutineHandler(svc))
		rr.Get("/{routineID}/next", nextOccurrenceHandler(svc))
	})

	// Agenda combinada de todas las rutinas del usuario
	r.Get("/feedings/upcoming", upcomingHandler(svc))

	r.Route("/animals/{animalID}/feedings", func(fr chi.Router) {
		fr.Post("/", recordFeedingHandler(svc, animalsSvc))
		fr.Get("/", listFeedingsHandler(svc, animalsSvc))
	})

	r.Get("/animals/{animalID}/hunger", hungerHandler(svc, animalsSvc))
}

type timeSlotPayload struct {
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Label  string `json:"label"`
}

type createRoutineRequest struct {
	Name         string            `json:"name"`
	Rule         RuleType          `json:"rule" enums:"daily,every_other_day,weekly,every_n_days,custom"`
	Slots        []timeSlotPayload `json:"slots"`
	Weekdays     []int             `json:"weekdays"` // 1=domingo..7=sábado
	IntervalDays int               `json:"interval_days"`
	StartDate    string            `json:"start_date"` // YYYY-MM-DD
	EndDate      string            `json:"end_date"`   // YYYY-MM-DD opcional
	AnimalIDs    []string          `json:"animal_ids"`
}

type updateRoutineRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string            `json:"name"`
	Rule         *RuleType          `json:"rule"`
	Slots        *[]timeSlotPayload `json:"slots"`
	Weekdays     *[]int             `json:"weekdays"`
	IntervalDays *int               `json:"interval_days"`
	EndDate      *string            `json:"end_date"`
	AnimalIDs    *[]string          `json:"animal_ids"`
	Active       *bool              `json:"active"`
}

type routineResponse struct {
	ID           string            `json:"id"`
	OwnerUserID  string            `json:"owner_user_id"`
	Name         string            `json:"name"`
	Rule         RuleType          `json:"rule"`
	Slots        []timeSlotPayload `json:"slots"`
	Weekdays     []int             `json:"weekdays,omitempty"`
	IntervalDays int               `json:"interval_days,omitempty"`
	StartDate    string            `json:"start_date"`
	EndDate      *string           `json:"end_date,omitempty"`
	AnimalIDs    []string          `json:"animal_ids"`
	Active       bool              `json:"active"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type occurrenceResponse struct {
	RoutineID   string    `json:"routine_id"`
	RoutineName string    `json:"routine_name"`
	At          time.Time `json:"at"`
	SlotLabel   string    `json:"slot_label,omitempty"`
	AnimalIDs   []string  `json:"animal_ids"`
}

type recordFeedingRequest struct {
	RoutineID string   `json:"routine_id"`
	FedAt     string   `json:"fed_at"` // RFC3339
	PreyType  string   `json:"prey_type"`
	PreySize  string   `json:"prey_size"`
	PreyCount int      `json:"prey_count"`
	Response  Response `json:"response" enums:"struck_immediately,reluctant,assisted_feed,refused,regurgitated"`
	Notes     string   `json:"notes"`
}

type feedingEventResponse struct {
	ID        string    `json:"id"`
	AnimalID  string    `json:"animal_id"`
	RoutineID string    `json:"routine_id,omitempty"`
	FedAt     time.Time `json:"fed_at"`
	PreyType  string    `json:"prey_type"`
	PreySize  string    `json:"prey_size"`
	PreyCount int       `json:"prey_count"`
	Response  Response  `json:"response"`
	Notes     string    `json:"notes"`
}

type hungerResponse struct {
	DaysSinceLastMeal   *int        `json:"days_since_last_meal"` // null = sin datos
	ConsecutiveRefusals int         `json:"consecutive_refusals"`
	Level               HungerLevel `json:"level"`
	Advisory            string      `json:"advisory"`
	WeightTrend         string      `json:"weight_trend,omitempty"`
}

// createRoutineHandler godoc
// @Summary Crear rutina de alimentación
// @Description Crea una rutina de recurrencia. Reglas weekly/custom requieren al menos un día de la semana; every_n_days requiere interval_days >= 1. Más de 3 rutinas requiere la capability routines:unlimited.
// @Tags feeding
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param payload body createRoutineRequest true "Datos de la rutina; fechas en YYYY-MM-DD"
// @Success 201 {object} routineResponse
// @Failure 400 {string} string "invalid json / regla mal formada"
// @Failure 401 {string} string "unauthorized"
// @Failure 402 {string} string "routine limit reached"
// @Router /routines [post]
func createRoutineHandler(svc *Service, caps capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createRoutineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		var end *time.Time
		if strings.TrimSpace(req.EndDate) != "" {
			t, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &t
		}

		// Gate de tier: el límite lo decide el caller, no el motor.
		if caps != nil {
			existing, err := svc.ListRoutines(r.Context(), claims.UserID)
			if err == nil && len(existing) >= freeRoutineLimit {
				allowed, err := caps.HasFeature(r.Context(), capabilities.CapabilityCheck{
					UserID:  claims.UserID,
					Feature: "routines:unlimited",
				})
				if err != nil || !allowed {
					http.Error(w, "routine limit reached", http.StatusPaymentRequired)
					return
				}
			}
		}

		routine, err := svc.CreateRoutine(r.Context(), claims.UserID, CreateRoutineInput{
			Name:         req.Name,
			Rule:         req.Rule,
			Slots:        fromSlotPayloads(req.Slots),
			Weekdays:     req.Weekdays,
			IntervalDays: req.IntervalDays,
			StartDate:    start,
			EndDate:      end,
			AnimalIDs:    req.AnimalIDs,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toRoutineResponse(routine))
	}
}

// listRoutinesHandler godoc
// @Summary Listar rutinas del usuario
// @Tags feeding
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Success 200 {array} routineResponse
// @Failure 401 {string} string "unauthorized"
// @Router /routines [get]
func listRoutinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListRoutines(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]routineResponse, 0, len(items))
		for _, rt := range items {
			out = append(out, toRoutineResponse(rt))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getRoutineHandler godoc
// @Summary Detalle de una rutina
// @Tags feeding
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param routineID path string true "ID de la rutina"
// @Success 200 {object} routineResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "routine not found"
// @Router /routines/{routineID} [get]
func getRoutineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rt, ok := ownedRoutine(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toRoutineResponse(rt))
	}
}

// updateRoutineHandler godoc
// @Summary Editar rutina (o activarla/desactivarla)
// @Tags feeding
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param routineID path string true "ID de la rutina"
// @Param payload body updateRoutineRequest true "Campos a modificar (PATCH)"
// @Success 200 {object} routineResponse
// @Failure 400 {string} string "invalid json / regla mal formada"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "routine not found"
// @Router /routines/{routineID} [patch]
func updateRoutineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rt, ok := ownedRoutine(w, r, svc)
		if !ok {
			return
		}

		var req updateRoutineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateRoutineInput{
			Name:         req.Name,
			Rule:         req.Rule,
			Weekdays:     req.Weekdays,
			IntervalDays: req.IntervalDays,
			AnimalIDs:    req.AnimalIDs,
			Active:       req.Active,
		}
		if req.Slots != nil {
			slots := fromSlotPayloads(*req.Slots)
			in.Slots = &slots
		}
		if req.EndDate != nil {
			t, err := time.Parse("2006-01-02", *req.EndDate)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.EndDate = &t
		}

		updated, err := svc.UpdateRoutine(r.Context(), rt.ID, in)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toRoutineResponse(updated))
	}
}

// nextOccurrenceHandler godoc
// @Summary Próxima ocurrencia de una rutina
// @Description Devuelve la próxima fecha debida con su slot más temprano. 204 si no hay ocurrencia dentro de la ventana de 30 días.
// @Tags feeding
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param routineID path string true "ID de la rutina"
// @Success 200 {object} occurrenceResponse
// @Success 204 {string} string "sin ocurrencias próximas"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "routine not found"
// @Router /routines/{routineID}/next [get]
func nextOccurrenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rt, ok := ownedRoutine(w, r, svc)
		if !ok {
			return
		}

		occ, found, err := svc.Next(r.Context(), rt.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !found {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, toOccurrenceResponse(occ))
	}
}

// upcomingHandler godoc
// @Summary Agenda de alimentación próxima
// @Description Expande todas las rutinas del usuario sobre los próximos días (default 7) y devuelve las ocurrencias ordenadas por fecha.
// @Tags feeding
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param days query int false "Días hacia adelante (1-30, default 7)"
// @Success 200 {array} occurrenceResponse
// @Failure 401 {string} string "unauthorized"
// @Router /feedings/upcoming [get]
func upcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		days := 7
		if v := r.URL.Query().Get("days"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 30 {
				days = n
			}
		}

		items, err := svc.Upcoming(r.Context(), claims.UserID, days)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]occurrenceResponse, 0, len(items))
		for _, occ := range items {
			out = append(out, toOccurrenceResponse(occ))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// recordFeedingHandler godoc
// @Summary Registrar intento de alimentación
// @Tags feeding
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Param payload body recordFeedingRequest true "Datos del intento; fed_at en RFC3339"
// @Success 201 {object} feedingEventResponse
// @Failure 400 {string} string "invalid json / response inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/feedings [post]
func recordFeedingHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		var req recordFeedingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, req.FedAt)
		if err != nil {
			http.Error(w, "fed_at must be RFC3339", http.StatusBadRequest)
			return
		}

		e, err := svc.RecordFeeding(r.Context(), a.ID, RecordFeedingInput{
			RoutineID: req.RoutineID,
			FedAt:     t,
			PreyType:  req.PreyType,
			PreySize:  req.PreySize,
			PreyCount: req.PreyCount,
			Response:  req.Response,
			Notes:     req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toFeedingEventResponse(e))
	}
}

// listFeedingsHandler godoc
// @Summary Historial de alimentación de un animal
// @Tags feeding
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Param limit query int false "Máximo de eventos (1-200, default 50)"
// @Param from query string false "Fecha/hora mínima fed_at (RFC3339)"
// @Param to query string false "Fecha/hora máxima fed_at (RFC3339)"
// @Param responses query string false "Lista CSV de respuestas a incluir (ej: refused,regurgitated)"
// @Success 200 {array} feedingEventResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/feedings [get]
func listFeedingsHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		filter, err := parseEventFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListFeedings(r.Context(), a.ID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]feedingEventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toFeedingEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// hungerHandler godoc
// @Summary Estado de ayuno de un animal
// @Description Deriva días desde la última comida efectiva, rechazos consecutivos y tendencia de peso en la ventana de ayuno. Valor calculado en cada consulta, nunca persistido.
// @Tags feeding
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Success 200 {object} hungerResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/hunger [get]
func hungerHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		lastMeal, refusals, err := svc.HungerBasis(r.Context(), a.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		var trend *TrendInfo
		var trendLabel string
		if lastMeal != nil {
			tr, pct, okTrend, err := animalsSvc.TrendSince(r.Context(), a.ID, *lastMeal)
			if err == nil && okTrend {
				trend = &TrendInfo{Trend: tr, Pct: pct}
				trendLabel = string(tr)
			}
		}

		h := ClassifyHunger(svc.now(), lastMeal, refusals, trend)

		writeJSON(w, http.StatusOK, hungerResponse{
			DaysSinceLastMeal:   h.DaysSinceLastMeal,
			ConsecutiveRefusals: h.ConsecutiveRefusals,
			Level:               h.Level,
			Advisory:            h.Advisory,
			WeightTrend:         trendLabel,
		})
	}
}

func ownedRoutine(w http.ResponseWriter, r *http.Request, svc *Service) (FeedingRoutine, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return FeedingRoutine{}, false
	}

	rt, err := svc.GetRoutine(r.Context(), chi.URLParam(r, "routineID"))
	if err != nil || rt.OwnerUserID != claims.UserID {
		http.Error(w, "routine not found", http.StatusNotFound)
		return FeedingRoutine{}, false
	}
	return rt, true
}

func ownedAnimal(w http.ResponseWriter, r *http.Request, animalsSvc *animals.Service) (animals.Animal, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return animals.Animal{}, false
	}

	a, err := animalsSvc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
	if err != nil || a.OwnerUserID != claims.UserID {
		http.Error(w, "animal not found", http.StatusNotFound)
		return animals.Animal{}, false
	}
	return a, true
}

func parseEventFilter(r *http.Request) (EventFilter, error) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	filter := EventFilter{Limit: limit}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return EventFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return EventFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	// responses=refused,regurgitated
	if v := strings.TrimSpace(r.URL.Query().Get("responses")); v != "" {
		parts := strings.Split(v, ",")
		out := make([]Response, 0, len(parts))
		for _, p := range parts {
			resp := Response(strings.TrimSpace(p))
			if resp == "" {
				continue
			}
			out = append(out, resp)
		}
		if len(out) > 0 {
			filter.Responses = out
		}
	}

	return filter, nil
}

func fromSlotPayloads(in []timeSlotPayload) []TimeSlot {
	out := make([]TimeSlot, 0, len(in))
	for _, s := range in {
		out = append(out, TimeSlot{Hour: s.Hour, Minute: s.Minute, Label: strings.TrimSpace(s.Label)})
	}
	return out
}

func toSlotPayloads(in []TimeSlot) []timeSlotPayload {
	out := make([]timeSlotPayload, 0, len(in))
	for _, s := range in {
		out = append(out, timeSlotPayload{Hour: s.Hour, Minute: s.Minute, Label: s.Label})
	}
	return out
}

func toRoutineResponse(r FeedingRoutine) routineResponse {
	var end *string
	if r.EndDate != nil {
		s := r.EndDate.Format("2006-01-02")
		end = &s
	}
	return routineResponse{
		ID:           r.ID,
		OwnerUserID:  r.OwnerUserID,
		Name:         r.Name,
		Rule:         r.Rule,
		Slots:        toSlotPayloads(r.Slots),
		Weekdays:     r.Weekdays,
		IntervalDays: r.IntervalDays,
		StartDate:    r.StartDate.Format("2006-01-02"),
		EndDate:      end,
		AnimalIDs:    r.AnimalIDs,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toOccurrenceResponse(o ScheduledFeeding) occurrenceResponse {
	return occurrenceResponse{
		RoutineID:   o.RoutineID,
		RoutineName: o.RoutineName,
		At:          o.At,
		SlotLabel:   o.SlotLabel,
		AnimalIDs:   o.AnimalIDs,
	}
}

func toFeedingEventResponse(e FeedingEvent) feedingEventResponse {
	return feedingEventResponse{
		ID:        e.ID,
		AnimalID:  e.AnimalID,
		RoutineID: e.RoutineID,
		FedAt:     e.FedAt,
		PreyType:  e.PreyType,
		PreySize:  e.PreySize,
		PreyCount: e.PreyCount,
		Response:  e.Response,
		Notes:     e.Notes,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
