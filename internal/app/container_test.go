package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "github.com/spec-kit/org-services/internal/api/http"
	"github.com/spec-kit/org-services/internal/config"
	"github.com/spec-kit/org-services/internal/persistence"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "department-service", Version: "test", Port: "0"},
		Logger: config.LoggerConfig{Level: "error"},
	}
}

func TestContainer_WithoutExternalDependencies(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(), Options{
		MigrationSet: persistence.MigrationsDepartment,
		UseRedis:     true,
	})
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Nil(t, c.Pool())
	assert.Nil(t, c.Redis)

	app := c.NewHTTPApp(httptransport.RouteConfig{})

	t.Run("ready with nothing to check", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("metrics exposed", func(t *testing.T) {
		_, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
		require.NoError(t, err)

		resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `department_service_http_requests_total{method="GET",route="/health/live",status="200"} 1`)
	})

	t.Run("unknown route uses error envelope", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})
}
