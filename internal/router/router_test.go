package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"herp-husbandry/internal/ports/capabilities"
	"herp-husbandry/internal/router"
)

func TestHTTP_EndToEnd_CareFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "keeper-1"
	strangerID := "keeper-2"

	// 1) Keeper crea un animal
	animalID := createAnimal(t, ts.URL, ownerID, map[string]any{
		"name":    "Nagini",
		"species": "ball_python",
		"morph":   "banana",
		"sex":     "female",
	})

	// 2) Otro usuario no ve el animal
	{
		st, _ := doReq(t, ts.URL, "GET", "/animals/"+animalID, strangerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 get animal by stranger, got %d", st)
		}
	}

	// 3) Plan de tratamiento acotado: 3 dosis cada 24h
	var detail struct {
		Plan struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"plan"`
		Doses []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"doses"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/treatments", ownerID, map[string]any{
			"medication":      "baytril",
			"dosage":          "0.3",
			"dose_unit":       "ml",
			"frequency_hours": 24,
			"total_doses":     3,
			"start_at":        time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create plan, got %d body=%s", st, string(body))
		}
		if err := json.Unmarshal(body, &detail); err != nil {
			t.Fatalf("decode plan detail: %v", err)
		}
		if len(detail.Doses) != 3 {
			t.Fatalf("expected 3 doses, got %d", len(detail.Doses))
		}
	}
	planID := detail.Plan.ID

	// 4) Administrar la primera dosis
	{
		st, body := doReq(t, ts.URL, "POST", "/doses/"+detail.Doses[0].ID+"/administer", ownerID, map[string]any{
			"notes": "sin resistencia",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 administer dose, got %d body=%s", st, string(body))
		}
	}

	// 5) Pausar dos veces: la segunda es transición inválida
	{
		st, body := doReq(t, ts.URL, "POST", "/treatments/"+planID+"/pause", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pause plan, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "POST", "/treatments/"+planID+"/pause", ownerID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 pausing a paused plan, got %d", st)
		}
		st, body = doReq(t, ts.URL, "POST", "/treatments/"+planID+"/resume", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 resume plan, got %d body=%s", st, string(body))
		}
	}

	// 6) Recinto con agenda de limpieza y estado
	enclosureID := createEnclosure(t, ts.URL, ownerID, map[string]any{
		"name": "Terrario 40g",
	})
	{
		st, body := doReq(t, ts.URL, "PUT", "/enclosures/"+enclosureID+"/schedules", ownerID, map[string]any{
			"type":               "spot_clean",
			"interval_days":      7,
			"reminder_lead_days": 1,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set schedule, got %d body=%s", st, string(body))
		}
	}
	{
		// Sin limpiezas registradas todavía: overdue
		st, body := doReq(t, ts.URL, "GET", "/enclosures/"+enclosureID+"/status", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 status, got %d body=%s", st, string(body))
		}
		var statuses []struct {
			Type    string `json:"type"`
			Urgency string `json:"urgency"`
		}
		if err := json.Unmarshal(body, &statuses); err != nil {
			t.Fatalf("decode statuses: %v body=%s", err, string(body))
		}
		if len(statuses) != 1 || statuses[0].Urgency != "overdue" {
			t.Fatalf("expected single overdue status, got %+v", statuses)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/enclosures/"+enclosureID+"/cleanings", ownerID, map[string]any{
			"type":     "spot_clean",
			"supplies": []string{"f10"},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 record cleaning, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/enclosures/"+enclosureID+"/status", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 status, got %d body=%s", st, string(body))
		}
		var statuses []struct {
			Urgency string `json:"urgency"`
		}
		_ = json.Unmarshal(body, &statuses)
		if len(statuses) != 1 || statuses[0].Urgency != "on_track" {
			t.Fatalf("expected on_track after cleaning, got %+v", statuses)
		}
	}

	// 7) Ciclo de brumación y fase derivada
	var cycle struct {
		ID string `json:"id"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/brumation", ownerID, map[string]any{
			"season":         "2026-2027",
			"cooldown_start": time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02"),
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create cycle, got %d body=%s", st, string(body))
		}
		_ = json.Unmarshal(body, &cycle)
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/brumation/"+cycle.ID+"/phase", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 phase report, got %d body=%s", st, string(body))
		}
		var report struct {
			Phase string `json:"phase"`
		}
		_ = json.Unmarshal(body, &report)
		if report.Phase != "planned" {
			t.Fatalf("expected planned phase before cooldown, got %q", report.Phase)
		}
	}

	// 8) Rutina de alimentación, evento y clasificación de hambre
	{
		st, body := doReq(t, ts.URL, "POST", "/routines", ownerID, map[string]any{
			"name":       "adultos viernes",
			"rule":       "weekly",
			"weekdays":   []int{6},
			"slots":      []map[string]any{{"hour": 18, "minute": 0}},
			"start_date": time.Now().UTC().Format("2006-01-02"),
			"animal_ids": []string{animalID},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create routine, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/feedings", ownerID, map[string]any{
			"fed_at":     time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339),
			"prey_type":  "rat",
			"prey_size":  "small",
			"prey_count": 1,
			"response":   "struck_immediately",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 record feeding, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/animals/"+animalID+"/hunger", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 hunger, got %d body=%s", st, string(body))
		}
		var hunger struct {
			DaysSinceLastMeal *int   `json:"days_since_last_meal"`
			Level             string `json:"level"`
		}
		_ = json.Unmarshal(body, &hunger)
		if hunger.DaysSinceLastMeal == nil || *hunger.DaysSinceLastMeal != 2 {
			t.Fatalf("expected 2 days since last meal, got %+v", hunger.DaysSinceLastMeal)
		}
	}
}

func TestHTTP_RequiresUser(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// Sin X-Debug-User-ID (y sin verifier) no hay claims => 401
	st, _ := doReq(t, ts.URL, "POST", "/animals", "", map[string]any{"name": "x", "species": "ball_python"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}
}

// denyAll niega toda feature: simula un usuario en tier free.
type denyAll struct{}

func (denyAll) HasFeature(context.Context, capabilities.CapabilityCheck) (bool, error) {
	return false, nil
}

func TestHTTP_RoutineLimit_PaymentRequired(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil,
		Capabilities: denyAll{},
	}))
	defer ts.Close()

	ownerID := "keeper-free"
	payload := func(name string) map[string]any {
		return map[string]any{
			"name":       name,
			"rule":       "daily",
			"slots":      []map[string]any{{"hour": 9, "minute": 0}},
			"start_date": time.Now().UTC().Format("2006-01-02"),
		}
	}

	for i, name := range []string{"r1", "r2", "r3"} {
		st, body := doReq(t, ts.URL, "POST", "/routines", ownerID, payload(name))
		if st != http.StatusCreated {
			t.Fatalf("routine %d: expected 201, got %d body=%s", i+1, st, string(body))
		}
	}

	st, _ := doReq(t, ts.URL, "POST", "/routines", ownerID, payload("r4"))
	if st != http.StatusPaymentRequired {
		t.Fatalf("expected 402 on fourth routine without capability, got %d", st)
	}
}

func TestHTTP_BrumationGate_PaymentRequired(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil,
		Capabilities: denyAll{},
	}))
	defer ts.Close()

	ownerID := "keeper-free"
	animalID := createAnimal(t, ts.URL, ownerID, map[string]any{
		"name":    "Rex",
		"species": "bearded_dragon",
	})

	st, _ := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/brumation", ownerID, map[string]any{
		"season": "2026-2027",
	})
	if st != http.StatusPaymentRequired {
		t.Fatalf("expected 402 creating cycle without capability, got %d", st)
	}
}

func createAnimal(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/animals", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create animal, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create animal: missing id body=%s", string(body))
	}
	return resp.ID
}

func createEnclosure(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/enclosures", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create enclosure, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create enclosure: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
