package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllUsersEmptyTableEncodesEmptyArray(t *testing.T) {
	setupTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	getAllUsersHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSearchUsersNoMatchEncodesEmptyArray(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, 1000, 0, 1, false)

	req := httptest.NewRequest(http.MethodGet, "/users/search?q=zzzzzz", nil)
	rec := httptest.NewRecorder()
	searchUsersHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
