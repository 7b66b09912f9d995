package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

func TestDashboardFailureShowsRetryMessage(t *testing.T) {
	_, gas := newStubGAS(t, map[string]string{
		gasapi.ActionGetDashboard: `{"success":false,"error":"timeout"}`,
	})
	h := DashboardHandler{Service: &service.DashboardService{
		Gas:    gas,
		Retry:  service.DashboardRetryPolicy(2, time.Millisecond),
		Logger: discardLogger(),
	}}

	rec := serve(h.RegisterRoutes, &salesUser, http.MethodGet, "/dashboard?period=今四半期", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "DASHBOARD_UNAVAILABLE", env.Error.Code)
	require.Equal(t, service.DashboardFailedMessage, env.Error.Message)
}

func TestDashboardNotConfigured(t *testing.T) {
	h := DashboardHandler{Service: &service.DashboardService{
		Gas:    gasapi.New(""),
		Retry:  service.DashboardRetryPolicy(3, time.Millisecond),
		Logger: discardLogger(),
	}}

	rec := serve(h.RegisterRoutes, &salesUser, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDashboardRequiresUser(t *testing.T) {
	h := DashboardHandler{Service: &service.DashboardService{Gas: gasapi.New(""), Logger: discardLogger()}}

	rec := serve(h.RegisterRoutes, nil, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
