package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopzeo-backend/controllers"
	"shopzeo-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importModeContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, target, nil)
	return c
}

func TestParseImportMode_UpsertModeFlag(t *testing.T) {
	rv := controllers.NewRequestValidator()

	cases := []struct {
		query string
		want  models.ImportMode
	}{
		{"/import?upsertMode=true", models.ImportModeUpsert},
		{"/import?upsertMode=false", models.ImportModeInsert},
		{"/import", models.ImportModeInsert},
		{"/import?mode=upsert", models.ImportModeUpsert},
		// upsertMode wins over the mode alias when both are sent.
		{"/import?upsertMode=true&mode=insert", models.ImportModeUpsert},
	}

	for _, tc := range cases {
		mode, err := rv.ParseImportMode(importModeContext(t, tc.query))
		require.NoError(t, err, tc.query)
		assert.Equal(t, tc.want, mode, tc.query)
	}
}

func TestParseImportMode_UpsertModeFromForm(t *testing.T) {
	rv := controllers.NewRequestValidator()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/import", strings.NewReader("upsertMode=true"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	mode, err := rv.ParseImportMode(c)
	require.NoError(t, err)
	assert.Equal(t, models.ImportModeUpsert, mode)
}

func TestParseImportMode_InvalidValues(t *testing.T) {
	rv := controllers.NewRequestValidator()

	for _, target := range []string{
		"/import?upsertMode=maybe",
		"/import?mode=replace",
	} {
		_, err := rv.ParseImportMode(importModeContext(t, target))
		assert.Error(t, err, target)
	}
}
