package enclosures

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"herp-husbandry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/enclosures", func(er chi.Router) {
		er.Post("/", createEnclosureHandler(svc))
		er.Get("/", listEnclosuresHandler(svc))
		er.Get("/{enclosureID}", getEnclosureHandler(svc))
		er.Patch("/{enclosureID}", updateEnclosureHandler(svc))

		// Tareas de limpieza del recinto
		er.Put("/{enclosureID}/schedules", setScheduleHandler(svc))
		er.Get("/{enclosureID}/schedules", listSchedulesHandler(svc))
		er.Post("/{enclosureID}/cleanings", recordCleaningHandler(svc))
		er.Get("/{enclosureID}/cleanings", listCleaningsHandler(svc))
		er.Get("/{enclosureID}/status", statusHandler(svc))
	})
}

type createEnclosureRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

type updateEnclosureRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

type enclosureResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type setScheduleRequest struct {
	Type             string `json:"type"`
	IntervalDays     int    `json:"interval_days"`
	ReminderLeadDays int    `json:"reminder_lead_days"`
}

type scheduleResponse struct {
	ID               string       `json:"id"`
	EnclosureID      string       `json:"enclosure_id"`
	Type             CleaningType `json:"type"`
	IntervalDays     int          `json:"interval_days"`
	ReminderLeadDays int          `json:"reminder_lead_days"`
}

type recordCleaningRequest struct {
	Type      string   `json:"type"`
	CleanedAt string   `json:"cleaned_at"` // RFC3339 opcional; vacío = ahora
	Supplies  []string `json:"supplies"`
	Notes     string   `json:"notes"`
}

type cleaningEventResponse struct {
	ID          string       `json:"id"`
	EnclosureID string       `json:"enclosure_id"`
	Type        CleaningType `json:"type"`
	CleanedAt   time.Time    `json:"cleaned_at"`
	Supplies    []string     `json:"supplies,omitempty"`
	Notes       string       `json:"notes"`
}

type statusResponse struct {
	EnclosureID        string       `json:"enclosure_id"`
	EnclosureName      string       `json:"enclosure_name"`
	Type               CleaningType `json:"type"`
	LastCleanedAt      *time.Time   `json:"last_cleaned_at,omitempty"`
	IntervalDays       int          `json:"interval_days"`
	DaysSinceLastClean *int         `json:"days_since_last_clean,omitempty"`
	DaysUntilDue       int          `json:"days_until_due"`
	Urgency            Urgency      `json:"urgency"`
}

// createEnclosureHandler godoc
// @Summary Crear recinto
// @Tags enclosures
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param payload body createEnclosureRequest true "Datos del recinto"
// @Success 201 {object} enclosureResponse
// @Failure 400 {string} string "invalid json / name required"
// @Failure 401 {string} string "unauthorized"
// @Router /enclosures [post]
func createEnclosureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req createEnclosureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.CreateEnclosure(r.Context(), userID, CreateEnclosureInput{
			Name:        req.Name,
			Description: req.Description,
			Notes:       req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toEnclosureResponse(e))
	}
}

// listEnclosuresHandler godoc
// @Summary Listar recintos del usuario
// @Tags enclosures
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Success 200 {array} enclosureResponse
// @Failure 401 {string} string "unauthorized"
// @Router /enclosures [get]
func listEnclosuresHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]enclosureResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEnclosureResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getEnclosureHandler godoc
// @Summary Obtener un recinto
// @Tags enclosures
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param enclosureID path string true "ID del recinto"
// @Success 200 {object} enclosureResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "enclosure not found"
// @Router /enclosures/{enclosureID} [get]
func getEnclosureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := ownedEnclosure(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toEnclosureResponse(e))
	}
}

// updateEnclosureHandler godoc
// @Summary Actualizar un recinto
// @Description PATCH parcial: solo los campos presentes se modifican.
// @Tags enclosures
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param enclosureID path string true "ID del recinto"
// @Param payload body updateEnclosureRequest true "Campos a modificar"
// @Success 200 {object} enclosureResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "enclosure not found"
// @Router /enclosures/{enclosureID} [patch]
func updateEnclosureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := ownedEnclosure(w, r, svc)
		if !ok {
			return
		}

		var req updateEnclosureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateEnclosure(r.Context(), e.ID, UpdateEnclosureInput{
			Name:        req.Name,
			Description: req.Description,
			Notes:       req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toEnclosureResponse(updated))
	}
}

// setScheduleHandler godoc
// @Summary Configurar una tarea de limpieza
// @Description Upsert por (recinto, tipo): reemplaza el intervalo y la anticipación si la tarea ya estaba configurada.
// @Tags enclosures
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param enclosureID path string true "ID del recinto"
// @Param payload body setScheduleRequest true "Tipo, intervalo en días y anticipación del recordatorio"
// @Success 200 {object} scheduleResponse
// @Failure 400 {string} string "invalid json / interval_days < 1"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "enclosure not found"
// @Router /enclosures/{enclosureID}/schedules [put]
func setScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := ownedEnclosure(w, r, svc)
		if !ok {
			return
		}

		var req setScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sched, err := svc.SetSchedule(r.Context(), e.ID, SetScheduleInput{
			Type:             CleaningType(req.Type),
			IntervalDays:     req.IntervalDays,
			ReminderLeadDays: req.ReminderLeadDays,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(sched))
	}
}

// listSchedulesHandler godoc
// @Summary Listar tareas configuradas de un recinto
// @Tags enclosures
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param enclosureID path string true "ID del recinto"
// @Success 200 {array} scheduleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "enclosure not found"
// @Router /enclosures/{enclosureID}/schedules [get]
func listSchedulesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := ownedEnclosure(w, r, svc)
		if !ok {
			return
		}

		scheds, err := svc.ListSchedules(r.Context(), e.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]scheduleResponse, 0, len(scheds))
		for _, s := range scheds {
			out = append(out, toScheduleResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// recordCleaningHandler godoc
// @Summary Registrar una limpieza
// @Description Registra el evento y re-agenda el recordatorio de esa tarea (cleaned_at + intervalo − anticipación).
// @Tags enclosures
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param enclosureID path string true "ID del recinto"
// @Param payload body recordCleaningRequest true "Limpieza hecha; cleaned_at RFC3339, vacío = ahora"
// @Success 201 {object} cleaningEventResponse
// @Failure 400 {string} string "invalid json / unknown cleaning type"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "enclosure not found"
// @Router /enclosures/{enclosureID}/cleanings [post]
func recordCleaningHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := ownedEnclosure(w, r, svc)
		if !ok {
			return
		}

		var req recordCleaningRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var cleanedAt time.Time
		if strings.TrimSpace(req.CleanedAt) != "" {
			t, err := time.Parse(time.RFC3339, req.CleanedAt)
			if err != nil {
				http.Error(w, "cleaned_at must be RFC3339", http.StatusBadRequest)
				return
			}
			cleanedAt = t
		}

		ev, err := svc.RecordCleaning(r.Context(), e.ID, RecordCleaningInput{
			Type:      CleaningType(req.Type),
			CleanedAt: cleanedAt,
			Supplies:  req.Supplies,
			Notes:     req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toCleaningEventResponse(ev))
	}
}

// listCleaningsHandler godoc
// @Summary Historial de limpiezas de un recinto
// @Tags enclosures
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param enclosureID path string true "ID del recinto"
// @Success 200 {array} cleaningEventResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "enclosure not found"
// @Router /enclosures/{enclosureID}/cleanings [get]
func listCleaningsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := ownedEnclosure(w, r, svc)
		if !ok {
			return
		}

		events, err := svc.ListCleanings(r.Context(), e.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]cleaningEventResponse, 0, len(events))
		for _, ev := range events {
			out = append(out, toCleaningEventResponse(ev))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// statusHandler godoc
// @Summary Estado de limpieza del recinto
// @Description Un estado por tarea configurada, ordenado para alertar: nunca-limpiado primero, después ascendente por días hasta vencer.
// @Tags enclosures
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param enclosureID path string true "ID del recinto"
// @Success 200 {array} statusResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "enclosure not found"
// @Router /enclosures/{enclosureID}/status [get]
func statusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := ownedEnclosure(w, r, svc)
		if !ok {
			return
		}

		statuses, err := svc.Statuses(r.Context(), e.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]statusResponse, 0, len(statuses))
		for _, st := range statuses {
			out = append(out, statusResponse{
				EnclosureID:        st.EnclosureID,
				EnclosureName:      st.EnclosureName,
				Type:               st.Type,
				LastCleanedAt:      st.LastCleanedAt,
				IntervalDays:       st.IntervalDays,
				DaysSinceLastClean: st.DaysSinceLastClean,
				DaysUntilDue:       st.DaysUntilDue,
				Urgency:            st.Urgency,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func ownedEnclosure(w http.ResponseWriter, r *http.Request, svc *Service) (Enclosure, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return Enclosure{}, false
	}

	e, err := svc.GetEnclosure(r.Context(), chi.URLParam(r, "enclosureID"))
	if err != nil || e.OwnerUserID != userID {
		http.Error(w, "enclosure not found", http.StatusNotFound)
		return Enclosure{}, false
	}
	return e, true
}

func toEnclosureResponse(e Enclosure) enclosureResponse {
	return enclosureResponse{
		ID:          e.ID,
		OwnerUserID: e.OwnerUserID,
		Name:        e.Name,
		Description: e.Description,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toScheduleResponse(s CleaningSchedule) scheduleResponse {
	return scheduleResponse{
		ID:               s.ID,
		EnclosureID:      s.EnclosureID,
		Type:             s.Type,
		IntervalDays:     s.IntervalDays,
		ReminderLeadDays: s.ReminderLeadDays,
	}
}

func toCleaningEventResponse(ev CleaningEvent) cleaningEventResponse {
	return cleaningEventResponse{
		ID:          ev.ID,
		EnclosureID: ev.EnclosureID,
		Type:        ev.Type,
		CleanedAt:   ev.CleanedAt,
		Supplies:    ev.Supplies,
		Notes:       ev.Notes,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
