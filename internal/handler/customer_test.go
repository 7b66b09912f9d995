package handler

import (
	"context"
	"net/http"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/geocode"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Lookup(ctx context.Context, address string) (geocode.Point, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(geocode.Point), args.Error(1)
}

const mapReply = `{"success":true,"data":{"projects":[
	{"id":1,"customer_name":"田中","lat":35.9,"lng":139.4,"status":"completed","assigned_to":"3"},
	{"id":2,"customer_name":"佐藤","lat":35.8,"lng":139.5,"status":"contract","assigned_to":"4"},
	{"id":3,"customer_name":"高橋","status":"in_progress","assigned_to":"3"}
]}}`

func customerHandler(gas *gasapi.Client, g geocode.Geocoder) CustomerHandler {
	return CustomerHandler{
		Map:       &service.MapService{Gas: gas, Geocoder: g, Logger: discardLogger()},
		Campaigns: &service.CampaignService{Gas: gas},
	}
}

func TestMapMineUsesCaller(t *testing.T) {
	_, gas := newStubGAS(t, map[string]string{gasapi.ActionGetProjects: mapReply})
	g := &mockGeocoder{}
	h := customerHandler(gas, g)

	rec := serve(h.RegisterRoutes, &salesUser, http.MethodGet, "/map/customers?mine=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var v service.MapView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &v))
	require.Len(t, v.Markers, 1)
	require.Equal(t, "田中", v.Markers[0].Name)
	g.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestCampaignRecipients(t *testing.T) {
	_, gas := newStubGAS(t, map[string]string{gasapi.ActionGetProjects: mapReply})
	h := customerHandler(gas, &mockGeocoder{})

	rec := serve(h.RegisterRoutes, &salesUser, http.MethodGet, "/campaigns/recipients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var v service.CampaignView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &v))
	require.Len(t, v.Recipients, 3)
	require.Equal(t, "施工中", v.Recipients[2].StatusLabel)
}
