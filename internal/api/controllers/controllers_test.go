package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"immoportal/internal/models/request_models"
	"immoportal/internal/models/response_models"
	"immoportal/internal/services"
	"immoportal/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.RegisterBindingValidators()
}

func TestSyncDaily(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantOK     bool
	}{
		{"matching secret", "s3cret", "s3cret", http.StatusOK, true},
		{"wrong secret", "s3cret", "guess", http.StatusUnauthorized, false},
		{"missing header", "s3cret", "", http.StatusUnauthorized, false},
		{"unconfigured secret", "", "", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := NewSyncController(services.NewSyncService(tt.secret, zap.NewNop()))
			r := gin.New()
			r.POST("/api/sync-daily", ctl.SyncDaily)

			req := httptest.NewRequest(http.MethodPost, "/api/sync-daily", nil)
			if tt.header != "" {
				req.Header.Set(SyncSecretHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body struct {
				OK    bool   `json:"ok"`
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.OK != tt.wantOK {
				t.Fatalf("ok = %v, want %v", body.OK, tt.wantOK)
			}
			if !tt.wantOK && body.Error != "Unauthorized" {
				t.Fatalf("error = %q", body.Error)
			}
		})
	}
}

type stubRequests struct {
	created bool
	err     error
}

func (s stubRequests) Submit(context.Context, services.Principal, uuid.UUID) (bool, error) {
	return s.created, s.err
}

func (s stubRequests) Decide(context.Context, services.Principal, uuid.UUID, request_models.DecideRequest) (*response_models.AgencyRequest, error) {
	return nil, s.err
}

func (s stubRequests) ListForClient(context.Context, services.Principal) ([]response_models.ClientRequest, error) {
	return nil, s.err
}

func (s stubRequests) ListForAgency(context.Context, services.Principal) (*response_models.AgencyRequestsResponse, error) {
	return nil, s.err
}

func TestSubmitRequestStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		stub       stubRequests
		path       string
		wantStatus int
	}{
		{"created", stubRequests{created: true}, "/client/requests/" + uuid.NewString(), http.StatusCreated},
		{"already sent", stubRequests{created: false}, "/client/requests/" + uuid.NewString(), http.StatusOK},
		{"inactive", stubRequests{err: utils.ErrSubscriptionInactive}, "/client/requests/" + uuid.NewString(), http.StatusForbidden},
		{"unknown listing", stubRequests{err: utils.ErrPropertyNotFound}, "/client/requests/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id", stubRequests{created: true}, "/client/requests/not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := NewClientAreaController(nil, tt.stub)
			r := gin.New()
			r.POST("/client/requests/:propertyId", ctl.SubmitRequest)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestDecideAlreadyDecidedIsConflict(t *testing.T) {
	ctl := NewAgencyRequestController(stubRequests{err: utils.ErrRequestAlreadyDecided})
	r := gin.New()
	r.POST("/agent/requests/:requestId/decision", ctl.Decide)

	req := httptest.NewRequest(http.MethodPost, "/agent/requests/"+uuid.NewString()+"/decision",
		jsonBody(t, map[string]string{"decision": "approved"}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (%s)", w.Code, w.Body.String())
	}
}

type stubClients struct {
	services.ClientServiceInterface
	got *request_models.CreateAccountRequest
}

func (s stubClients) CreateClientAccount(_ context.Context, _ services.Principal, req request_models.CreateAccountRequest) (*response_models.CreateAccountResponse, error) {
	*s.got = req
	return &response_models.CreateAccountResponse{UserID: uuid.NewString()}, nil
}

func TestCreateClientBindsPaddedEmail(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		wantStatus int
	}{
		{"padded mixed case", "  New.Client@Example.com ", http.StatusCreated},
		{"plain", "client@example.com", http.StatusCreated},
		{"not an email", "  nope ", http.StatusBadRequest},
		{"blank", "   ", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got request_models.CreateAccountRequest
			ctl := NewAgentClientController(stubClients{got: &got}, nil, nil)
			r := gin.New()
			r.POST("/agent/clients", ctl.Create)

			req := httptest.NewRequest(http.MethodPost, "/agent/clients",
				jsonBody(t, map[string]string{"email": tt.email, "password": "secret1"}))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusCreated && got.Email != tt.email {
				t.Fatalf("service got email %q", got.Email)
			}
		})
	}
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestHealthz(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{errors.New("connection refused"), http.StatusServiceUnavailable},
	} {
		r := gin.New()
		r.GET("/healthz", NewHealthController(fakePinger{err: tc.err}).Healthz)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if w.Code != tc.want {
			t.Fatalf("ping err %v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}
