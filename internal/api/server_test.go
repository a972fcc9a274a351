package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lawdesk/internal/booking"
	"lawdesk/internal/config"
	"lawdesk/internal/database"
	"lawdesk/internal/session"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newTestServerWithRate(t, 1000)
}

func newTestServerWithRate(t *testing.T, ratePerMinute int) http.Handler {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Admin.Username = "admin"
	cfg.Admin.PasswordBcrypt = string(hash)
	cfg.Intake.RatePerMinute = ratePerMinute

	bookingSvc := booking.NewService(db, nil, &logger, booking.Config{SlotDuration: time.Hour})
	srv := NewServer(db, bookingSvc, session.NewMemoryStore(), cfg, &logger)
	return srv.Handler()
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env testEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func login(t *testing.T, handler http.Handler) *http.Cookie {
	t.Helper()
	rec, _ := doRequest(t, handler, http.MethodPost, "/api/admin/login",
		`{"username":"admin","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func futureDateStr(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t)
	rec, _ := doRequest(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIntakeScenario(t *testing.T) {
	handler := newTestServer(t)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/consultations",
		`{"request_type":"callback","name":"테스트","phone":"010-1234-5678"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)

	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Status)
	require.NotZero(t, created.ID)

	cookie := login(t, handler)

	rec, _ = doRequest(t, handler, http.MethodPatch,
		fmt.Sprintf("/api/admin/consultations/%d/status", created.ID),
		`{"status":"completed"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doRequest(t, handler, http.MethodGet,
		fmt.Sprintf("/api/admin/consultations/%d", created.ID), "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		Consultation struct {
			Status string `json:"status"`
		} `json:"consultation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "completed", detail.Consultation.Status)
}

func TestIntakeValidation(t *testing.T) {
	handler := newTestServer(t)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/consultations",
		`{"request_type":"callback","name":"테스트"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestIntakeRejectsUnknownFields(t *testing.T) {
	handler := newTestServer(t)

	rec, _ := doRequest(t, handler, http.MethodPost, "/api/consultations",
		`{"request_type":"callback","name":"테스트","phone":"010-1234-5678","admin":true}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlotConflictOverHTTP(t *testing.T) {
	handler := newTestServer(t)
	body := fmt.Sprintf(`{"request_type":"visit","name":"테스트","phone":"010-1234-5678",
		"preferred_date":"%s","preferred_time":"14:00","office_location":"서울"}`, futureDateStr(7))

	rec, _ := doRequest(t, handler, http.MethodPost, "/api/consultations", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/consultations", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
}

func TestAdminRequiresSession(t *testing.T) {
	handler := newTestServer(t)

	rec, _ := doRequest(t, handler, http.MethodGet, "/api/admin/consultations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bogus := &http.Cookie{Name: sessionCookie, Value: "bogus"}
	rec, _ = doRequest(t, handler, http.MethodGet, "/api/admin/consultations", "", bogus)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	handler := newTestServer(t)

	rec, _ := doRequest(t, handler, http.MethodPost, "/api/admin/login",
		`{"username":"admin","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doRequest(t, handler, http.MethodPost, "/api/admin/login",
		`{"username":"root","password":"secret"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	handler := newTestServer(t)
	cookie := login(t, handler)

	rec, _ := doRequest(t, handler, http.MethodPost, "/api/admin/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, handler, http.MethodGet, "/api/admin/consultations", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBlockedTimesCRUD(t *testing.T) {
	handler := newTestServer(t)
	cookie := login(t, handler)

	// time_slot without bounds is rejected.
	rec, _ := doRequest(t, handler, http.MethodPost, "/api/admin/blocked-times",
		fmt.Sprintf(`{"block_type":"time_slot","blocked_date":"%s"}`, futureDateStr(3)), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/admin/blocked-times",
		fmt.Sprintf(`{"block_type":"time_slot","blocked_date":"%s","blocked_time_start":"13:00","blocked_time_end":"15:00","reason":"법원 출석"}`, futureDateStr(3)), cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	var block struct {
		ID        int64  `json:"id"`
		CreatedBy string `json:"created_by"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &block))
	assert.Equal(t, "admin", block.CreatedBy)

	rec, env = doRequest(t, handler, http.MethodGet, "/api/admin/blocked-times", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var blocks []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &blocks))
	assert.Len(t, blocks, 1)

	rec, _ = doRequest(t, handler, http.MethodDelete,
		fmt.Sprintf("/api/admin/blocked-times/%d", block.ID), "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, handler, http.MethodDelete,
		fmt.Sprintf("/api/admin/blocked-times/%d", block.ID), "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlogPublishingFlow(t *testing.T) {
	handler := newTestServer(t)
	cookie := login(t, handler)

	rec, env := doRequest(t, handler, http.MethodPost, "/api/admin/blog",
		`{"slug":"divorce-guide","title":"이혼 절차 안내","content":"본문"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var post struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))

	// Duplicate slug is a conflict.
	rec, _ = doRequest(t, handler, http.MethodPost, "/api/admin/blog",
		`{"slug":"divorce-guide","title":"중복","content":"x"}`, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Draft is invisible publicly.
	rec, env = doRequest(t, handler, http.MethodGet, "/api/blog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var posts []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &posts))
	assert.Empty(t, posts)

	rec, _ = doRequest(t, handler, http.MethodGet, "/api/blog/divorce-guide", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Publish, then the public surface sees it.
	rec, _ = doRequest(t, handler, http.MethodPatch,
		fmt.Sprintf("/api/admin/blog/%d", post.ID), `{"published":true}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doRequest(t, handler, http.MethodGet, "/api/blog/divorce-guide", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, "이혼 절차 안내", fetched.Title)

	rec, _ = doRequest(t, handler, http.MethodDelete,
		fmt.Sprintf("/api/admin/blog/%d", post.ID), "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, handler, http.MethodGet,
		fmt.Sprintf("/api/admin/blog/%d", post.ID), "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTestimonialConsentGating(t *testing.T) {
	handler := newTestServer(t)
	cookie := login(t, handler)

	rec, _ := doRequest(t, handler, http.MethodPost, "/api/admin/testimonials",
		`{"slug":"case-a","title":"무죄 판결","content":"후기"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doRequest(t, handler, http.MethodGet, "/api/testimonials", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Empty(t, items)

	// Admin sees it regardless of consent.
	rec, env = doRequest(t, handler, http.MethodGet, "/api/admin/testimonials", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)
}

func TestMessageTemplateAdmin(t *testing.T) {
	handler := newTestServer(t)
	cookie := login(t, handler)

	rec, env := doRequest(t, handler, http.MethodGet, "/api/admin/message-templates", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var templates []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &templates))
	assert.Empty(t, templates)

	rec, _ = doRequest(t, handler, http.MethodPut, "/api/admin/message-templates/no_such_code",
		`{"title":"제목","body":"본문"}`, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doRequest(t, handler, http.MethodPut, "/api/admin/message-templates/consultation_confirmed",
		`{"title":"제목","body":""}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doRequest(t, handler, http.MethodPut, "/api/admin/message-templates/consultation_confirmed",
		`{"title":"상담 확정","body":"{{name}}님 {{date}} {{time}} 확정되었습니다."}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "consultation_confirmed", saved.Code)

	rec, env = doRequest(t, handler, http.MethodGet, "/api/admin/message-templates", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &templates))
	assert.Len(t, templates, 1)
}

func TestAutoConfirmEndpoint(t *testing.T) {
	handler := newTestServer(t)

	body := fmt.Sprintf(`{"request_type":"visit","name":"테스트","phone":"010-1234-5678",
		"preferred_date":"%s","preferred_time":"10:00","office_location":"서울"}`, futureDateStr(5))
	rec, _ := doRequest(t, handler, http.MethodPost, "/api/consultations", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := login(t, handler)
	rec, env := doRequest(t, handler, http.MethodPost, "/api/admin/auto-confirm/run", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		TotalProcessed int `json:"total_processed"`
		Confirmed      int `json:"confirmed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, 1, result.Confirmed)
}

func TestExportConsultations(t *testing.T) {
	handler := newTestServer(t)
	cookie := login(t, handler)

	rec, _ := doRequest(t, handler, http.MethodPost, "/api/consultations",
		`{"request_type":"callback","name":"테스트","phone":"010-1234-5678"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec2 := httptest.NewRequest(http.MethodGet, "/api/admin/export/consultations", nil)
	rec2.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, rec2)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestIntakeRateLimit(t *testing.T) {
	handler := newTestServerWithRate(t, 1)

	body := `{"request_type":"callback","name":"테스트","phone":"010-1234-5678"}`
	rec, _ := doRequest(t, handler, http.MethodPost, "/api/consultations", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doRequest(t, handler, http.MethodPost, "/api/consultations", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
