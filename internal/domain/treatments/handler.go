package treatments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"herp-husbandry/internal/domain/animals"
	"herp-husbandry/internal/middleware"
	"herp-husbandry/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, animalsSvc *animals.Service) {
	r.Route("/animals/{animalID}/treatments", func(tr chi.Router) {
		tr.Post("/", createPlanHandler(svc, animalsSvc))
		tr.Get("/", listPlansHandler(svc, animalsSvc))
	})

	r.Route("/treatments/{planID}", func(pr chi.Router) {
		pr.Get("/", getPlanHandler(svc))
		pr.Post("/pause", planTransitionHandler(svc, "pause"))
		pr.Post("/resume", planTransitionHandler(svc, "resume"))
		pr.Post("/discontinue", planTransitionHandler(svc, "discontinue"))
	})

	r.Route("/doses/{doseID}", func(dr chi.Router) {
		dr.Post("/administer", administerHandler(svc))
		dr.Post("/skip", skipHandler(svc))
		dr.Post("/missed", missedHandler(svc))
	})
}

type createPlanRequest struct {
	Medication     string `json:"medication"`
	Dosage         string `json:"dosage"`
	DoseUnit       string `json:"dose_unit"`
	FrequencyHours int    `json:"frequency_hours"`
	TotalDoses     *int   `json:"total_doses"` // null = plan abierto
	StartAt        string `json:"start_at"`    // RFC3339
	Notes          string `json:"notes"`
}

type planResponse struct {
	ID             string     `json:"id"`
	AnimalID       string     `json:"animal_id"`
	Medication     string     `json:"medication"`
	Dosage         string     `json:"dosage"`
	DoseUnit       string     `json:"dose_unit"`
	FrequencyHours int        `json:"frequency_hours"`
	TotalDoses     *int       `json:"total_doses"`
	StartAt        time.Time  `json:"start_at"`
	EndAt          *time.Time `json:"end_at"`
	Status         PlanStatus `json:"status"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type doseResponse struct {
	ID             string     `json:"id"`
	PlanID         string     `json:"plan_id"`
	Seq            int        `json:"seq"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	Status         DoseStatus `json:"status"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
	Overdue        bool       `json:"overdue"`
	Notes          string     `json:"notes"`
}

type planDetailResponse struct {
	Plan     planResponse   `json:"plan"`
	Doses    []doseResponse `json:"doses"`
	NextDose *doseResponse  `json:"next_dose,omitempty"`
}

type doseActionRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// createPlanHandler godoc
// @Summary Crear plan de tratamiento
// @Description Crea el plan y genera de una vez toda su línea de tiempo de dosis (start + k·frequency_hours). Con total_doses null el plan queda abierto y se genera una ventana inicial de 30 días.
// @Tags treatments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Param payload body createPlanRequest true "Prescripción; start_at en RFC3339"
// @Success 201 {object} planDetailResponse
// @Failure 400 {string} string "invalid json / frequency_hours < 1 / total_doses < 1"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/treatments [post]
func createPlanHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		var req createPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := time.Parse(time.RFC3339, req.StartAt)
		if err != nil {
			http.Error(w, "start_at must be RFC3339", http.StatusBadRequest)
			return
		}

		plan, doses, err := svc.CreatePlan(r.Context(), a.ID, claims.UserID, CreatePlanInput{
			Medication:     req.Medication,
			Dosage:         req.Dosage,
			DoseUnit:       req.DoseUnit,
			FrequencyHours: req.FrequencyHours,
			TotalDoses:     req.TotalDoses,
			StartAt:        start,
			Notes:          req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toPlanDetail(plan, doses, svc.now()))
	}
}

// listPlansHandler godoc
// @Summary Listar planes de un animal
// @Tags treatments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Success 200 {array} planResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/treatments [get]
func listPlansHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a, ok := ownedAnimal(w, r, animalsSvc)
		if !ok {
			return
		}

		items, err := svc.ListPlansByAnimal(r.Context(), a.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]planResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPlanResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPlanHandler godoc
// @Summary Detalle de un plan con sus dosis
// @Description Devuelve el plan, todas sus dosis (con flag overdue) y la próxima dosis scheduled.
// @Tags treatments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param planID path string true "ID del plan"
// @Success 200 {object} planDetailResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "plan not found"
// @Router /treatments/{planID} [get]
func getPlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plan, doses, ok := ownedPlan(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toPlanDetail(plan, doses, svc.now()))
	}
}

// planTransitionHandler godoc
// @Summary Pausar / reanudar / discontinuar un plan
// @Description pause: active→paused (cancela recordatorios). resume: paused→active (re-arma recordatorios de dosis scheduled). discontinue: active→discontinued, terminal, fija end_at en ahora. Transiciones inválidas devuelven 409.
// @Tags treatments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param planID path string true "ID del plan"
// @Success 200 {object} planResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "plan not found"
// @Failure 409 {string} string "invalid transition"
// @Router /treatments/{planID}/pause [post]
func planTransitionHandler(svc *Service, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plan, _, ok := ownedPlan(w, r, svc)
		if !ok {
			return
		}

		var (
			updated TreatmentPlan
			err     error
		)
		switch action {
		case "pause":
			updated, err = svc.Pause(r.Context(), plan.ID)
		case "resume":
			updated, err = svc.Resume(r.Context(), plan.ID)
		case "discontinue":
			updated, err = svc.Discontinue(r.Context(), plan.ID)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				http.Error(w, "invalid transition", http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPlanResponse(updated))
	}
}

// administerHandler godoc
// @Summary Administrar una dosis
// @Description Marca la dosis como administrada (solo desde scheduled). Si con esto se alcanza el objetivo del plan, el plan pasa a completed automáticamente.
// @Tags treatments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param doseID path string true "ID de la dosis"
// @Param payload body doseActionRequest false "Notas opcionales"
// @Success 200 {object} doseResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "dose not found"
// @Failure 409 {string} string "invalid transition"
// @Router /doses/{doseID}/administer [post]
func administerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doseID, ok := ownedDose(w, r, svc)
		if !ok {
			return
		}

		var req doseActionRequest
		_ = json.NewDecoder(r.Body).Decode(&req) // body opcional

		dose, err := svc.Administer(r.Context(), doseID, req.Notes)
		if err != nil {
			writeDoseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponse(dose, svc.now()))
	}
}

// skipHandler godoc
// @Summary Saltear una dosis
// @Tags treatments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param doseID path string true "ID de la dosis"
// @Param payload body doseActionRequest false "Motivo opcional"
// @Success 200 {object} doseResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "dose not found"
// @Failure 409 {string} string "invalid transition"
// @Router /doses/{doseID}/skip [post]
func skipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doseID, ok := ownedDose(w, r, svc)
		if !ok {
			return
		}

		var req doseActionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		dose, err := svc.Skip(r.Context(), doseID, req.Reason)
		if err != nil {
			writeDoseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponse(dose, svc.now()))
	}
}

// missedHandler godoc
// @Summary Marcar dosis como perdida
// @Tags treatments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param doseID path string true "ID de la dosis"
// @Success 200 {object} doseResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "dose not found"
// @Failure 409 {string} string "invalid transition"
// @Router /doses/{doseID}/missed [post]
func missedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doseID, ok := ownedDose(w, r, svc)
		if !ok {
			return
		}

		dose, err := svc.MarkMissed(r.Context(), doseID)
		if err != nil {
			writeDoseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponse(dose, svc.now()))
	}
}

func writeDoseError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidTransition) {
		http.Error(w, "invalid transition", http.StatusConflict)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
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

func ownedPlan(w http.ResponseWriter, r *http.Request, svc *Service) (TreatmentPlan, []MedicationDose, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return TreatmentPlan{}, nil, false
	}

	plan, doses, err := svc.GetPlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil || plan.OwnerUserID != claims.UserID {
		http.Error(w, "plan not found", http.StatusNotFound)
		return TreatmentPlan{}, nil, false
	}
	return plan, doses, true
}

// ownedDose valida dueño vía el plan de la dosis y devuelve el doseID.
func ownedDose(w http.ResponseWriter, r *http.Request, svc *Service) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	doseID := chi.URLParam(r, "doseID")
	dose, err := svc.repo.GetDose(r.Context(), doseID)
	if err != nil {
		http.Error(w, "dose not found", http.StatusNotFound)
		return "", false
	}
	plan, err := svc.repo.GetPlan(r.Context(), dose.PlanID)
	if err != nil || plan.OwnerUserID != claims.UserID {
		http.Error(w, "dose not found", http.StatusNotFound)
		return "", false
	}
	return doseID, true
}

func toPlanResponse(p TreatmentPlan) planResponse {
	return planResponse{
		ID:             p.ID,
		AnimalID:       p.AnimalID,
		Medication:     p.Medication,
		Dosage:         p.Dosage,
		DoseUnit:       p.DoseUnit,
		FrequencyHours: p.FrequencyHours,
		TotalDoses:     p.TotalDoses,
		StartAt:        p.StartAt,
		EndAt:          p.EndAt,
		Status:         p.Status,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toDoseResponse(d MedicationDose, now time.Time) doseResponse {
	return doseResponse{
		ID:             d.ID,
		PlanID:         d.PlanID,
		Seq:            d.Seq,
		ScheduledAt:    d.ScheduledAt,
		Status:         d.Status,
		AdministeredAt: d.AdministeredAt,
		Overdue:        IsOverdue(d, now),
		Notes:          d.Notes,
	}
}

func toPlanDetail(p TreatmentPlan, doses []MedicationDose, now time.Time) planDetailResponse {
	out := planDetailResponse{
		Plan:  toPlanResponse(p),
		Doses: make([]doseResponse, 0, len(doses)),
	}
	for _, d := range doses {
		out.Doses = append(out.Doses, toDoseResponse(d, now))
	}
	if next, ok := NextScheduledDose(doses); ok {
		nd := toDoseResponse(next, now)
		out.NextDose = &nd
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
