package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupTest(t)

	w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":       "Asha Rao",
		"email":      "asha@campus.edu",
		"password":   "hunter22",
		"department": "Computer Science",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "asha@campus.edu", user["email"])

	// Same email twice is refused.
	w = doRequest(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Another Asha",
		"email":    "asha@campus.edu",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "asha@campus.edu",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])

	// The issued token authenticates protected routes.
	w = doRequest(t, r, http.MethodGet, "/api/auth/profile", body["access_token"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "Asha Rao", profile["name"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, db := setupTest(t)
	createTestUser(t, db, "Asha Rao", "asha@campus.edu")

	w := doRequest(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "asha@campus.edu",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "nobody@campus.edu",
		"password": "password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Short",
		"email":    "short@campus.edu",
		"password": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	r, db := setupTest(t)
	createTestUser(t, db, "Asha Rao", "asha@campus.edu")

	w := doRequest(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "asha@campus.edu",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decodeBody(t, w)["refresh_token"].(string)

	w = doRequest(t, r, http.MethodPost, "/api/auth/refresh-token", "", map[string]interface{}{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["access_token"])

	// The spent token cannot be replayed.
	w = doRequest(t, r, http.MethodPost, "/api/auth/refresh-token", "", map[string]interface{}{
		"refresh_token": refresh,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGoogleLoginValidation(t *testing.T) {
	r, _ := setupTest(t)

	// Neither credential kind supplied.
	w := doRequest(t, r, http.MethodPost, "/api/auth/google", "", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Without GOOGLE_* credentials both the token and the code flow are off.
	w = doRequest(t, r, http.MethodPost, "/api/auth/google", "", map[string]interface{}{
		"idToken": "some-google-id-token",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/auth/google", "", map[string]interface{}{
		"code": "some-authorization-code",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := setupTest(t)

	w := doRequest(t, r, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/auth/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupTest(t)

	w := doRequest(t, r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
}
