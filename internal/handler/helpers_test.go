package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mafia/backend/internal/database"
	"mafia/backend/internal/hub"
	"mafia/backend/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret   = "test-secret"
	testBotToken = "123456:TEST-TOKEN"
)

type testServer struct {
	*httptest.Server
	hub *hub.Hub
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithSecret(t, testSecret)
}

func newTestServerWithSecret(t *testing.T, secret string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("access test pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedAchievements(db); err != nil {
		t.Fatalf("seed achievements: %v", err)
	}

	events := hub.NewHub()
	svc := service.New(db, service.Options{TelegramBotToken: testBotToken, Publisher: events})
	router := gin.New()
	New(svc, events, secret).RegisterRoutes(router)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, hub: events, db: db}
}

func doRequest(t *testing.T, ts *testServer, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+"/api/v1"+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func assertString(t *testing.T, value any) string {
	t.Helper()
	s, ok := value.(string)
	if !ok {
		t.Fatalf("expected string, got %T", value)
	}
	return s
}

// register creates a user and returns its id and session token.
func register(t *testing.T, ts *testServer, username string) (uint, string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/auth/register", "", map[string]string{"username": username})
	assertStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	return uint(user["id"].(float64)), assertString(t, body["token"])
}

// createRoom creates a room hosted by the token's user and returns its id path segment.
func createRoom(t *testing.T, ts *testServer, token string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/rooms", token, map[string]any{"name": "Night Club"})
	assertStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	return jsonID(body["id"])
}

func jsonID(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
