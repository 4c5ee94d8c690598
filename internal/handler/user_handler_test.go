package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"testing"
	"time"

	"mafia/backend/internal/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestRegisterAndGetMe(t *testing.T) {
	ts := newTestServer(t)

	id, token := register(t, ts, "Ada")

	resp := doRequest(t, ts, http.MethodGet, "/users/me", token, nil)
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["username"] != "Ada" {
		t.Fatalf("expected username Ada, got %v", body["username"])
	}
	if uint(body["id"].(float64)) != id {
		t.Fatalf("expected id %d, got %v", id, body["id"])
	}
}

func TestGetMeRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodGet, "/users/me", "", nil)
	assertStatus(t, resp, http.StatusUnauthorized)

	resp = doRequest(t, ts, http.MethodGet, "/users/me", "not-a-token", nil)
	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestEmptySecretRejectsForgedTokens(t *testing.T) {
	ts := newTestServerWithSecret(t, "")

	resp := doRequest(t, ts, http.MethodPost, "/auth/register", "", map[string]string{"username": "victim"})
	assertStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	if _, ok := body["token"]; ok {
		t.Fatalf("expected no token without a secret, got %v", body["token"])
	}
	user := body["user"].(map[string]any)
	victimID := uint(user["id"].(float64))

	hostResp := doRequest(t, ts, http.MethodPost, "/rooms", "", map[string]any{"name": "Night Club", "host_user_id": victimID})
	assertStatus(t, hostResp, http.StatusCreated)
	roomID := jsonID(decodeBody(t, hostResp)["id"])
	for i := 0; i < 3; i++ {
		assertStatus(t, doRequest(t, ts, http.MethodPost, "/rooms/"+roomID+"/bots", "", nil), http.StatusOK)
	}
	assertStatus(t, doRequest(t, ts, http.MethodPost, "/rooms/"+roomID+"/start", "", nil), http.StatusOK)

	forged, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"sub": victimID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(""))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	resp = doRequest(t, ts, http.MethodGet, "/users/me", forged, nil)
	assertStatus(t, resp, http.StatusUnauthorized)

	resp = doRequest(t, ts, http.MethodGet, "/rooms/"+roomID, forged, nil)
	assertStatus(t, resp, http.StatusOK)
	for _, p := range decodeBody(t, resp)["players"].([]any) {
		if role := p.(map[string]any)["role"]; role != nil {
			t.Fatalf("expected every role hidden, got %v", role)
		}
	}

	resp = doRequest(t, ts, http.MethodPost, "/rooms/"+roomID+"/vote", forged, map[string]any{"target_id": victimID})
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPost, "/auth/register", "", map[string]string{})
	assertStatus(t, resp, http.StatusBadRequest)

	resp = doRequest(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "Ada",
		"password": "short",
	})
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestPasswordLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "Ada",
		"password": "password123",
	})
	assertStatus(t, resp, http.StatusCreated)

	resp = doRequest(t, ts, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "Ada",
		"password": "password123",
	})
	assertStatus(t, resp, http.StatusOK)
	assertString(t, decodeBody(t, resp)["token"])

	resp = doRequest(t, ts, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "Ada",
		"password": "wrong-password",
	})
	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestGetUserByID(t *testing.T) {
	ts := newTestServer(t)
	id, _ := register(t, ts, "Ada")

	resp := doRequest(t, ts, http.MethodGet, "/users/"+strconv.Itoa(int(id)), "", nil)
	assertStatus(t, resp, http.StatusOK)

	resp = doRequest(t, ts, http.MethodGet, "/users/9999", "", nil)
	assertStatus(t, resp, http.StatusNotFound)

	resp = doRequest(t, ts, http.MethodGet, "/users/abc", "", nil)
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestTelegramLogin(t *testing.T) {
	ts := newTestServer(t)

	claims := map[string]string{
		"id":         "123456789",
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"username":   "ivanp",
		"auth_date":  "1700000000",
	}
	hash := auth.Sign(claims, testBotToken)

	// The widget sends id and auth_date as JSON numbers.
	payload := []byte(`{"id":123456789,"first_name":"Ivan","last_name":"Petrov","username":"ivanp","auth_date":1700000000,"hash":"` + hash + `"}`)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/auth/telegram", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertString(t, body["token"])
	user := body["user"].(map[string]any)
	if user["username"] != "Ivan Petrov" {
		t.Fatalf("expected username Ivan Petrov, got %v", user["username"])
	}
	if user["telegram_id"] != float64(123456789) {
		t.Fatalf("expected telegram_id 123456789, got %v", user["telegram_id"])
	}
}

func TestTelegramLoginRejectsBadHash(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPost, "/auth/telegram", "", map[string]string{
		"id":         "123456789",
		"first_name": "Ivan",
		"auth_date":  "1700000000",
		"hash":       "deadbeef",
	})
	assertStatus(t, resp, http.StatusUnauthorized)

	resp = doRequest(t, ts, http.MethodPost, "/auth/telegram", "", map[string]string{
		"id":         "123456789",
		"first_name": "Ivan",
	})
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestLeaderboardAndAchievements(t *testing.T) {
	ts := newTestServer(t)
	id, _ := register(t, ts, "Ada")

	resp := doRequest(t, ts, http.MethodGet, "/leaderboard", "", nil)
	assertStatus(t, resp, http.StatusOK)
	if entries := decodeList(t, resp); len(entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %d entries", len(entries))
	}

	resp = doRequest(t, ts, http.MethodGet, "/users/"+strconv.Itoa(int(id))+"/achievements", "", nil)
	assertStatus(t, resp, http.StatusOK)
	achievements := decodeList(t, resp)
	if len(achievements) == 0 {
		t.Fatal("expected the seeded achievement catalog")
	}
	for _, a := range achievements {
		if a["unlocked"] != false {
			t.Fatalf("expected %v to be locked", a["name"])
		}
	}
}
