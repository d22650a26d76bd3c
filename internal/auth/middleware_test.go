package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T) http.Handler {
	return NewMiddleware(string(secret)).ValidateToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		assert.Equal(t, int64(7), id)
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestValidateToken(t *testing.T) {
	valid, err := IssueToken(secret, ada, time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := IssueToken(secret, ada, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	forged, err := IssueToken([]byte("other"), ada, time.Hour, time.Now())
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "7"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent, ""},
		{"missing header", "", http.StatusUnauthorized, "Authentication required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Authentication required"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "Invalid token"},
		{"wrong key", "Bearer " + forged, http.StatusUnauthorized, "Invalid token"},
		{"alg none", "Bearer " + none, http.StatusUnauthorized, "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected(t).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestUserFromToken(t *testing.T) {
	now := time.Now()
	token, err := IssueToken(secret, ada, time.Hour, now)
	require.NoError(t, err)

	user, err := UserFromToken(token, now)
	require.NoError(t, err)
	assert.Equal(t, ada, *user)

	_, err = UserFromToken(token, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrStaleToken)

	_, err = UserFromToken("not-a-jwt", now)
	assert.ErrorIs(t, err, ErrStaleToken)
}
