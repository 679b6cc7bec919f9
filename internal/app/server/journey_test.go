package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"onboarding/internal/app/server"
	"onboarding/internal/domain/auth"
	"onboarding/internal/platform/config"
)

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
	Error      any             `json:"error"`
}

func journeyConfig(t *testing.T, dbURL string) config.Config {
	t.Helper()
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		Environment:        "test",
		PublicBaseURL:      "http://localhost:8080",
		UploadDir:          t.TempDir(),
		MaxUploadBytes:     8 << 20,
		MaxBodyBytes:       1048576,
		PDFRenderTimeout:   10 * time.Second,
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		RunSeed:            true,
		RateLimitPerMinute: 1000,
	}
}

func TestInternOnboardingJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := journeyConfig(t, dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	email := fmt.Sprintf("intern-%d@example.com", time.Now().UnixNano())
	postJSON(t, client, ts.URL+"/api/v1/auth/register", "", map[string]any{
		"firstName":     "Jane",
		"lastName":      "Doe",
		"email":         email,
		"password":      "correct-horse",
		"employee_role": auth.EmployeeRoleIntern,
	}, http.StatusCreated)

	employeeToken, employeeID := login(t, client, ts.URL, email, "correct-horse")
	adminToken, _ := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	submitIntern(t, client, ts.URL, employeeToken)

	resp := getJSON(t, client, ts.URL+"/api/v1/internForm/intern", employeeToken, http.StatusOK)
	var latest map[string]any
	if err := json.Unmarshal(resp.Data, &latest); err != nil {
		t.Fatalf("failed to decode latest form: %v", err)
	}
	if latest["userId"] != employeeID {
		t.Fatalf("expected form owned by %s, got %v", employeeID, latest["userId"])
	}

	getJSON(t, client, ts.URL+"/api/v1/internForm/intern/all", employeeToken, http.StatusForbidden)
	getJSON(t, client, ts.URL+"/api/v1/internForm/intern/all", adminToken, http.StatusOK)

	pdfResp, err := client.Get(ts.URL + "/api/v1/internForm/pdf/" + employeeID)
	if err != nil {
		t.Fatalf("pdf request failed: %v", err)
	}
	defer pdfResp.Body.Close()
	if pdfResp.StatusCode != http.StatusOK || pdfResp.Header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("expected pdf, got %d %s", pdfResp.StatusCode, pdfResp.Header.Get("Content-Type"))
	}

	// The admin notice is queued; give the worker a moment to record it.
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp := getJSON(t, client, ts.URL+"/api/v1/admin/notifications", adminToken, http.StatusOK)
		var items []map[string]any
		if err := json.Unmarshal(resp.Data, &items); err != nil {
			t.Fatalf("failed to decode notifications: %v", err)
		}
		if len(items) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected an admin notification after submission")
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func TestTemporaryUpdateIsDisabled(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := journeyConfig(t, dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	adminToken, _ := login(t, ts.Client(), ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	req, err := http.NewRequest(http.MethodPatch, ts.URL+"/api/v1/temporaryForm/temporary/update/00000000-0000-0000-0000-000000000000", bytes.NewBufferString(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) (string, string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var session auth.Session
	if err := json.Unmarshal(resp.Data, &session); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if session.AccessToken == "" {
		t.Fatal("expected token")
	}
	return session.AccessToken, session.User.ID
}

func submitIntern(t *testing.T, client *http.Client, baseURL, token string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"generalInfo.firstName":                "Jane",
		"generalInfo.lastName":                 "Doe",
		"bankForm.name":                        "Jane Doe",
		"bankForm.checkingAccount.bankName":    "Chase",
		"bankForm.checkingAccount.transitNo":   "021000021",
		"bankForm.checkingAccount.accountNo":   "12345",
		"bankForm.checkingAccount.depositType": "full",
		"i9Form.lastName":                      "Doe",
		"i9Form.status":                        "US Citizen",
		"w4Form.lastName":                      "Doe",
		"citizenShipForm.citizenshipStatus":    "citizen",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/internForm/intern", &body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}
}

func postJSON(t *testing.T, client *http.Client, url, token string, payload any, wantStatus int) envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doJSON(t, client, req, wantStatus)
}

func getJSON(t *testing.T, client *http.Client, url, token string, wantStatus int) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doJSON(t, client, req, wantStatus)
}

func doJSON(t *testing.T, client *http.Client, req *http.Request, wantStatus int) envelope {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d: %s", req.Method, req.URL.Path, wantStatus, resp.StatusCode, raw)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}
