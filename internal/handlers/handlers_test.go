package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/models"
)

// stubSessions resolves canned bearer tokens to user keys.
type stubSessions struct {
	identities map[string]models.Key
	issued     int
	revoked    []models.Key
}

func newStubSessions(identities map[string]models.Key) *stubSessions {
	if identities == nil {
		identities = make(map[string]models.Key)
	}
	return &stubSessions{identities: identities}
}

func (s *stubSessions) Issue(_ context.Context, userID models.Key) (models.SessionTokens, error) {
	s.issued++
	token := "access-" + userID.String()
	s.identities[token] = userID
	return models.SessionTokens{
		AccessToken:  token,
		RefreshToken: "refresh-" + userID.String(),
	}, nil
}

func (s *stubSessions) Identity(_ context.Context, accessToken string) (models.Key, error) {
	if userID, ok := s.identities[accessToken]; ok {
		return userID, nil
	}
	return "", auth.ErrSessionNotFound
}

func (s *stubSessions) Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	if userID, ok := s.identities[refreshToken]; ok {
		return s.Issue(ctx, userID)
	}
	return models.SessionTokens{}, auth.ErrSessionNotFound
}

func (s *stubSessions) Revoke(_ context.Context, userID models.Key) {
	s.revoked = append(s.revoked, userID)
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode request payload: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authorize(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response envelope: %v", err)
	}
	return env
}
