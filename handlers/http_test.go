package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces/mock"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerHandlers(e *echo.Echo, server ServerInterface) {
	e.JSONSerializer = JSONSerializer{}
	RegisterHandlers(e, server)
	service.RegisterErrorHandler(e, log.NewNopLogger())
}

func newServer(registry *mock.InstanceRegistryMock, cache *mock.ResponseCacheMock) *HTTPServer {
	if registry == nil {
		registry = &mock.InstanceRegistryMock{}
	}
	if cache == nil {
		cache = &mock.ResponseCacheMock{}
	}
	return NewHTTPServer(registry, cache, &mock.PeerDirectoryMock{}, log.NewNopLogger())
}

func serve(t *testing.T, server ServerInterface, method, target, body string, replication bool) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	registerHandlers(e, server)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if replication {
		helpers.SetReplication(req, "node-b")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var errBody struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errBody))
	require.NotNil(t, errBody.Error)
	return errBody.Error.Code
}

func TestNewHTTPServer_Panics(t *testing.T) {
	assert.Panics(t, func() { NewHTTPServer(nil, &mock.ResponseCacheMock{}, &mock.PeerDirectoryMock{}, log.NewNopLogger()) })
	assert.Panics(t, func() {
		NewHTTPServer(&mock.InstanceRegistryMock{}, nil, &mock.PeerDirectoryMock{}, log.NewNopLogger())
	})
	assert.Panics(t, func() {
		NewHTTPServer(&mock.InstanceRegistryMock{}, &mock.ResponseCacheMock{}, nil, log.NewNopLogger())
	})
	assert.Panics(t, func() {
		NewHTTPServer(&mock.InstanceRegistryMock{}, &mock.ResponseCacheMock{}, &mock.PeerDirectoryMock{}, nil)
	})
}

func TestHTTPServer_RegisterInstance(t *testing.T) {
	validBody := `{"instanceId":"i-1","app":"orders","hostName":"host-1","ipAddr":"10.0.0.1","port":8080,"leaseInfo":{"durationInSecs":30}}`

	tests := []struct {
		name           string
		path           string
		body           string
		replication    bool
		expectedStatus int
		expectedCode   string
		wantRegister   bool
	}{
		{
			name:           "ok",
			path:           "/eureka/v2/apps/ORDERS",
			body:           validBody,
			expectedStatus: http.StatusNoContent,
			wantRegister:   true,
		},
		{
			name:           "ok replication",
			path:           "/eureka/v2/apps/orders",
			body:           validBody,
			replication:    true,
			expectedStatus: http.StatusNoContent,
			wantRegister:   true,
		},
		{
			name:           "app taken from path",
			path:           "/eureka/v2/apps/orders",
			body:           `{"instanceId":"i-1","hostName":"host-1"}`,
			expectedStatus: http.StatusNoContent,
			wantRegister:   true,
		},
		{
			name:           "400 invalid json",
			path:           "/eureka/v2/apps/orders",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name:           "400 missing instanceId",
			path:           "/eureka/v2/apps/orders",
			body:           `{"hostName":"host-1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name:           "400 missing host",
			path:           "/eureka/v2/apps/orders",
			body:           `{"instanceId":"i-1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name:           "400 app mismatch",
			path:           "/eureka/v2/apps/billing",
			body:           validBody,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name:           "400 unknown status",
			path:           "/eureka/v2/apps/orders",
			body:           `{"instanceId":"i-1","hostName":"host-1","status":"SLEEPING"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &mock.InstanceRegistryMock{}
			rec := serve(t, newServer(registry, nil), http.MethodPost, tt.path, tt.body, tt.replication)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, rec))
			}
			if !tt.wantRegister {
				assert.Empty(t, registry.RegisterCalls())
				return
			}
			require.Len(t, registry.RegisterCalls(), 1)
			call := registry.RegisterCalls()[0]
			assert.Equal(t, "i-1", call.Info.InstanceID)
			assert.NotEmpty(t, call.Info.AppName)
			assert.Equal(t, tt.replication, call.IsReplication)
			assert.Equal(t, call.Info.LeaseInfo.DurationInSecs, call.LeaseDurationSecs)
		})
	}
}

func TestHTTPServer_RenewLease(t *testing.T) {
	stored := domain.InstanceInfo{
		InstanceID:         "i-1",
		AppName:            "ORDERS",
		Status:             domain.StatusUp,
		LastDirtyTimestamp: 1000,
	}

	tests := []struct {
		name           string
		query          string
		replication    bool
		renewed        bool
		expectedStatus int
		wantConflict   bool
		wantStore      domain.InstanceStatus
	}{
		{
			name:           "ok without timestamp",
			renewed:        true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "404 when not registered",
			renewed:        false,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "ok equal timestamp",
			query:          "?lastDirtyTimestamp=1000",
			renewed:        true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "404 when incoming record is newer",
			query:          "?lastDirtyTimestamp=2000",
			renewed:        true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "409 with stored copy for replicated older record",
			query:          "?lastDirtyTimestamp=500",
			replication:    true,
			renewed:        true,
			expectedStatus: http.StatusConflict,
			wantConflict:   true,
		},
		{
			name:           "200 for client older record",
			query:          "?lastDirtyTimestamp=500",
			renewed:        true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "replicated override stored",
			query:          "?lastDirtyTimestamp=1000&overriddenstatus=OUT_OF_SERVICE&status=UP",
			replication:    true,
			renewed:        true,
			expectedStatus: http.StatusOK,
			wantStore:      domain.StatusOutOfService,
		},
		{
			name:           "client override ignored",
			query:          "?lastDirtyTimestamp=1000&overriddenstatus=OUT_OF_SERVICE",
			renewed:        true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "UNKNOWN override ignored",
			query:          "?lastDirtyTimestamp=1000&overriddenstatus=UNKNOWN",
			replication:    true,
			renewed:        true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "400 invalid timestamp",
			query:          "?lastDirtyTimestamp=abc",
			renewed:        true,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &mock.InstanceRegistryMock{
				RenewFunc: func(appName, id string, isReplication bool) bool {
					assert.Equal(t, "orders", appName)
					assert.Equal(t, "i-1", id)
					assert.Equal(t, tt.replication, isReplication)
					return tt.renewed
				},
				CurrentInstanceFunc: func(appName, id string) (domain.InstanceInfo, bool) {
					return stored, true
				},
			}
			rec := serve(t, newServer(registry, nil), http.MethodPut, "/eureka/v2/apps/orders/i-1"+tt.query, "", tt.replication)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.wantConflict {
				var got domain.InstanceInfo
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, stored.LastDirtyTimestamp, got.LastDirtyTimestamp)
			}
			if tt.wantStore != "" {
				require.Len(t, registry.StoreOverriddenStatusCalls(), 1)
				assert.Equal(t, tt.wantStore, registry.StoreOverriddenStatusCalls()[0].Status)
			} else {
				assert.Empty(t, registry.StoreOverriddenStatusCalls())
			}
		})
	}
}

func TestHTTPServer_CancelLease(t *testing.T) {
	tests := []struct {
		name           string
		cancelled      bool
		expectedStatus int
	}{
		{name: "ok", cancelled: true, expectedStatus: http.StatusOK},
		{name: "404", cancelled: false, expectedStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &mock.InstanceRegistryMock{
				CancelFunc: func(appName, id string, isReplication bool) bool { return tt.cancelled },
			}
			rec := serve(t, newServer(registry, nil), http.MethodDelete, "/eureka/v2/apps/orders/i-1", "", false)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			require.Len(t, registry.CancelCalls(), 1)
			assert.False(t, registry.CancelCalls()[0].IsReplication)
		})
	}
}

func TestHTTPServer_StatusUpdate(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		updated        bool
		exists         bool
		expectedStatus int
		wantCall       bool
	}{
		{name: "ok", query: "?value=OUT_OF_SERVICE&lastDirtyTimestamp=5", updated: true, exists: true, expectedStatus: http.StatusOK, wantCall: true},
		{name: "stale write answered 200", query: "?value=DOWN&lastDirtyTimestamp=1", updated: false, exists: true, expectedStatus: http.StatusOK, wantCall: true},
		{name: "404 when absent", query: "?value=DOWN", updated: false, exists: false, expectedStatus: http.StatusNotFound, wantCall: true},
		{name: "400 invalid value", query: "?value=SLEEPING", expectedStatus: http.StatusBadRequest},
		{name: "400 missing value", query: "", expectedStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &mock.InstanceRegistryMock{
				StatusUpdateFunc: func(appName, id string, newStatus domain.InstanceStatus, lastDirtyTimestamp int64, isReplication bool) bool {
					return tt.updated
				},
				GetInstanceFunc: func(appName, id string) (domain.InstanceInfo, bool) {
					return domain.InstanceInfo{}, tt.exists
				},
			}
			rec := serve(t, newServer(registry, nil), http.MethodPut, "/eureka/v2/apps/orders/i-1/status"+tt.query, "", false)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.wantCall {
				require.Len(t, registry.StatusUpdateCalls(), 1)
			} else {
				assert.Empty(t, registry.StatusUpdateCalls())
			}
		})
	}

	t.Run("arguments", func(t *testing.T) {
		registry := &mock.InstanceRegistryMock{
			StatusUpdateFunc: func(appName, id string, newStatus domain.InstanceStatus, lastDirtyTimestamp int64, isReplication bool) bool {
				return true
			},
		}
		rec := serve(t, newServer(registry, nil), http.MethodPut, "/eureka/v2/apps/orders/i-1/status?value=out_of_service&lastDirtyTimestamp=42", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)
		call := registry.StatusUpdateCalls()[0]
		assert.Equal(t, domain.StatusOutOfService, call.NewStatus)
		assert.Equal(t, int64(42), call.LastDirtyTimestamp)
		assert.True(t, call.IsReplication)
	})
}

func TestHTTPServer_DeleteStatusOverride(t *testing.T) {
	tests := []struct {
		name           string
		deleted        bool
		exists         bool
		expectedStatus int
	}{
		{name: "ok", deleted: true, expectedStatus: http.StatusOK},
		{name: "stale", deleted: false, exists: true, expectedStatus: http.StatusOK},
		{name: "404", deleted: false, exists: false, expectedStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &mock.InstanceRegistryMock{
				DeleteStatusOverrideFunc: func(appName, id string, lastDirtyTimestamp int64, isReplication bool) bool {
					assert.Equal(t, int64(7), lastDirtyTimestamp)
					return tt.deleted
				},
				GetInstanceFunc: func(appName, id string) (domain.InstanceInfo, bool) {
					return domain.InstanceInfo{}, tt.exists
				},
			}
			rec := serve(t, newServer(registry, nil), http.MethodDelete, "/eureka/v2/apps/orders/i-1/status?value=UP&lastDirtyTimestamp=7", "", false)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHTTPServer_RenewLease_ConflictCarriesStoredStatus(t *testing.T) {
	stored := domain.InstanceInfo{
		InstanceID:         "i-1",
		AppName:            "ORDERS",
		Status:             domain.StatusUp,
		OverriddenStatus:   domain.StatusOutOfService,
		LastDirtyTimestamp: 200,
	}
	registry := &mock.InstanceRegistryMock{
		RenewFunc: func(appName, id string, isReplication bool) bool { return true },
		CurrentInstanceFunc: func(appName, id string) (domain.InstanceInfo, bool) {
			return stored, true
		},
		GetInstanceFunc: func(appName, id string) (domain.InstanceInfo, bool) {
			view := stored
			view.Status = domain.StatusOutOfService
			return view, true
		},
	}

	rec := serve(t, newServer(registry, nil), http.MethodPut, "/eureka/v2/apps/orders/i-1?lastDirtyTimestamp=100", "", true)
	require.Equal(t, http.StatusConflict, rec.Code)

	var got domain.InstanceInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, domain.StatusUp, got.Status)
	assert.Equal(t, domain.StatusOutOfService, got.OverriddenStatus)
	assert.Equal(t, int64(200), got.LastDirtyTimestamp)
	assert.Empty(t, registry.GetInstanceCalls())
}

func TestHTTPServer_GetApplications_PeerGetsStoredRecords(t *testing.T) {
	stored := domain.Applications{
		VersionDelta: 3,
		Applications: []domain.Application{{
			Name: "ORDERS",
			Instances: []domain.InstanceInfo{{
				InstanceID:       "i-1",
				AppName:          "ORDERS",
				Status:           domain.StatusUp,
				OverriddenStatus: domain.StatusOutOfService,
			}},
		}},
	}
	registry := &mock.InstanceRegistryMock{
		GetStoredApplicationsFunc: func() domain.Applications { return stored },
	}
	cache := &mock.ResponseCacheMock{}

	rec := serve(t, newServer(registry, cache), http.MethodGet, "/eureka/v2/apps/", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Applications
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Applications, 1)
	require.Len(t, got.Applications[0].Instances, 1)
	assert.Equal(t, domain.StatusUp, got.Applications[0].Instances[0].Status)
	assert.Equal(t, domain.StatusOutOfService, got.Applications[0].Instances[0].OverriddenStatus)
	assert.Empty(t, cache.GetCalls(), "peer snapshots bypass the response cache")
}

func TestHTTPServer_Reads(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		wantKey        string
		cacheErr       error
		expectedStatus int
	}{
		{name: "full", path: "/eureka/v2/apps/", wantKey: service.KeyAllApps, expectedStatus: http.StatusOK},
		{name: "full remote", path: "/eureka/v2/apps/?regions=us-east-1", wantKey: service.KeyAllAppsRemote, expectedStatus: http.StatusOK},
		{name: "delta", path: "/eureka/v2/apps/delta", wantKey: service.KeyDelta, expectedStatus: http.StatusOK},
		{name: "app", path: "/eureka/v2/apps/orders", wantKey: "APP:ORDERS", expectedStatus: http.StatusOK},
		{
			name:           "app 404",
			path:           "/eureka/v2/apps/missing",
			wantKey:        "APP:MISSING",
			cacheErr:       service.NewEntityNotFoundError("application MISSING is not registered", nil),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "500 on plain error",
			path:           "/eureka/v2/apps/",
			wantKey:        service.KeyAllApps,
			cacheErr:       assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &mock.ResponseCacheMock{
				GetFunc: func(key string) ([]byte, error) {
					assert.Equal(t, tt.wantKey, key)
					if tt.cacheErr != nil {
						return nil, tt.cacheErr
					}
					return []byte(`{"versionsDelta":1}`), nil
				},
			}
			rec := serve(t, newServer(nil, cache), http.MethodGet, tt.path, "", false)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"versionsDelta":1}`, rec.Body.String())
				assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
			}
		})
	}
}

func TestHTTPServer_GetInstance(t *testing.T) {
	registry := &mock.InstanceRegistryMock{
		GetInstanceFunc: func(appName, id string) (domain.InstanceInfo, bool) {
			if id != "i-1" {
				return domain.InstanceInfo{}, false
			}
			return domain.InstanceInfo{InstanceID: "i-1", AppName: "ORDERS", Status: domain.StatusUp}, true
		},
	}

	rec := serve(t, newServer(registry, nil), http.MethodGet, "/eureka/v2/apps/orders/i-1", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.InstanceInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "ORDERS", got.AppName)
	assert.Equal(t, domain.StatusUp, got.Status)

	rec = serve(t, newServer(registry, nil), http.MethodGet, "/eureka/v2/apps/orders/i-2", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.ErrEntityNotFound, errorCode(t, rec))
}

func TestHTTPServer_ASGStatusUpdate(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		replication    bool
		expectedStatus int
		wantStatus     domain.ASGStatus
	}{
		{name: "disable", query: "?value=DISABLED", expectedStatus: http.StatusOK, wantStatus: domain.ASGDisabled},
		{name: "enable replicated", query: "?value=enabled", replication: true, expectedStatus: http.StatusOK, wantStatus: domain.ASGEnabled},
		{name: "400", query: "?value=MAYBE", expectedStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &mock.InstanceRegistryMock{}
			rec := serve(t, newServer(registry, nil), http.MethodPut, "/eureka/v2/asg/orders-v1/status"+tt.query, "", tt.replication)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.wantStatus == "" {
				assert.Empty(t, registry.ASGStatusUpdateCalls())
				return
			}
			require.Len(t, registry.ASGStatusUpdateCalls(), 1)
			call := registry.ASGStatusUpdateCalls()[0]
			assert.Equal(t, "orders-v1", call.AsgName)
			assert.Equal(t, tt.wantStatus, call.Status)
			assert.Equal(t, tt.replication, call.IsReplication)
		})
	}
}

func TestHTTPServer_GetPeers(t *testing.T) {
	peers := &mock.PeerDirectoryMock{
		StatusesFunc: func() []domain.PeerStatus {
			return []domain.PeerStatus{{URL: "http://node-b:8761/eureka/v2/", Reachable: true, PendingTasks: 3}}
		},
	}
	e := echo.New()
	registerHandlers(e, NewHTTPServer(&mock.InstanceRegistryMock{}, &mock.ResponseCacheMock{}, peers, log.NewNopLogger()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eureka/v2/peers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.PeerStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].PendingTasks)
}
