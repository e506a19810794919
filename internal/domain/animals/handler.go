package animals

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"herp-husbandry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))

		// Pesadas por animal
		ar.Post("/{animalID}/weights", recordWeightHandler(svc))
		ar.Get("/{animalID}/weights", listWeightsHandler(svc))
	})
}

type createAnimalRequest struct {
	Name       string `json:"name"`
	Species    string `json:"species"`
	Morph      string `json:"morph"`
	Sex        string `json:"sex"`
	HatchDate  string `json:"hatch_date"`  // YYYY-MM-DD opcional
	AcquiredAt string `json:"acquired_at"` // YYYY-MM-DD opcional
	Notes      string `json:"notes"`
}

type animalResponse struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Name        string     `json:"name"`
	Species     Species    `json:"species"`
	Morph       string     `json:"morph"`
	Sex         Sex        `json:"sex"`
	HatchDate   *time.Time `json:"hatch_date,omitempty"`
	AcquiredAt  *time.Time `json:"acquired_at,omitempty"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type updateAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name  *string `json:"name"`
	Morph *string `json:"morph"`
	Sex   *string `json:"sex"`
	Notes *string `json:"notes"`
}

type recordWeightRequest struct {
	WeighedAt string  `json:"weighed_at"` // RFC3339
	Grams     float64 `json:"grams"`
	Notes     string  `json:"notes"`
}

type weightResponse struct {
	ID        string    `json:"id"`
	AnimalID  string    `json:"animal_id"`
	WeighedAt time.Time `json:"weighed_at"`
	Grams     float64   `json:"grams"`
	Notes     string    `json:"notes"`
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Crea el perfil de un animal para el usuario autenticado.
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param payload body createAnimalRequest true "Datos del animal"
// @Success 201 {object} animalResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		hatch, err := parseOptionalDate(req.HatchDate)
		if err != nil {
			http.Error(w, "hatch_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		acquired, err := parseOptionalDate(req.AcquiredAt)
		if err != nil {
			http.Error(w, "acquired_at must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:       req.Name,
			Species:    req.Species,
			Morph:      req.Morph,
			Sex:        req.Sex,
			HatchDate:  hatch,
			AcquiredAt: acquired,
			Notes:      req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar animales del usuario
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Success 200 {array} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Perfil de un animal
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Success 200 {object} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Actualizar animal
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Param payload body updateAnimalRequest true "Campos a modificar (PATCH)"
// @Success 200 {object} animalResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [patch]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, svc)
		if !ok {
			return
		}

		var req updateAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Update(r.Context(), a.ID, UpdateInput{
			Name:  req.Name,
			Morph: req.Morph,
			Sex:   req.Sex,
			Notes: req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(updated))
	}
}

// recordWeightHandler godoc
// @Summary Registrar pesada
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Param payload body recordWeightRequest true "Pesada; weighed_at en RFC3339"
// @Success 201 {object} weightResponse
// @Failure 400 {string} string "invalid json / grams <= 0"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/weights [post]
func recordWeightHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, svc)
		if !ok {
			return
		}

		var req recordWeightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, req.WeighedAt)
		if err != nil {
			http.Error(w, "weighed_at must be RFC3339", http.StatusBadRequest)
			return
		}

		rec, err := svc.RecordWeight(r.Context(), a.ID, RecordWeightInput{
			WeighedAt: t,
			Grams:     req.Grams,
			Notes:     req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toWeightResponse(rec))
	}
}

// listWeightsHandler godoc
// @Summary Historial de pesadas
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param animalID path string true "ID del animal"
// @Success 200 {array} weightResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/weights [get]
func listWeightsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownedAnimal(w, r, svc)
		if !ok {
			return
		}

		items, err := svc.ListWeights(r.Context(), a.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]weightResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toWeightResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ownedAnimal resuelve claims + animal y corta con 401/404 si no corresponde.
func ownedAnimal(w http.ResponseWriter, r *http.Request, svc *Service) (Animal, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Animal{}, false
	}

	a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
	if err != nil || a.OwnerUserID != claims.UserID {
		http.Error(w, "animal not found", http.StatusNotFound)
		return Animal{}, false
	}
	return a, true
}

func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:          a.ID,
		OwnerUserID: a.OwnerUserID,
		Name:        a.Name,
		Species:     a.Species,
		Morph:       a.Morph,
		Sex:         a.Sex,
		HatchDate:   a.HatchDate,
		AcquiredAt:  a.AcquiredAt,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toWeightResponse(w WeightRecord) weightResponse {
	return weightResponse{
		ID:        w.ID,
		AnimalID:  w.AnimalID,
		WeighedAt: w.WeighedAt,
		Grams:     w.Grams,
		Notes:     w.Notes,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
