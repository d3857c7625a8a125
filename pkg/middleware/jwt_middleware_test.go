package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"immoportal/internal/models/db_models"
	"immoportal/internal/services"
	"immoportal/pkg/utils"
)

type stubGate struct {
	roles map[uuid.UUID]db_models.Role
}

func (g stubGate) Resolve(_ context.Context, id uuid.UUID) services.Principal {
	return services.Principal{ID: id, Role: g.roles[id]}
}

func (g stubGate) Require(p services.Principal, allowed ...db_models.Role) error {
	return services.RequireRole(p, allowed...)
}

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(id string) bool { return r[id] }

func newRouter(tokens *utils.TokenIssuer, gate services.AccessGateInterface, revoked RevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := r.Group("/", JWTAuthMiddleware(tokens, revoked))
	ok := func(c *gin.Context) { c.String(http.StatusOK, string(PrincipalFrom(c).Role)) }

	authed.GET("/me", ResolvePrincipal(gate), ok)
	authed.GET("/client/listings", RequireRoles(gate, db_models.ClientOnly...), ok)
	authed.GET("/agent/clients", RequireRoles(gate, db_models.StaffRoles...), ok)
	authed.POST("/admin/agents", RequireRoles(gate, db_models.AdminOnly...), ok)
	return r
}

func TestRoleGroups(t *testing.T) {
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	client, agent, admin, orphan := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	gate := stubGate{roles: map[uuid.UUID]db_models.Role{
		client: db_models.RoleClient,
		agent:  db_models.RoleAgent,
		admin:  db_models.RoleAdmin,
	}}
	router := newRouter(tokens, gate, revokedSet{})

	bearer := func(id uuid.UUID) string {
		token, _, err := tokens.CreateToken(id)
		if err != nil {
			t.Fatalf("CreateToken: %v", err)
		}
		return "Bearer " + token
	}

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"no token", http.MethodGet, "/client/listings", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/client/listings", "Bearer nope", http.StatusUnauthorized},
		{"client area as client", http.MethodGet, "/client/listings", bearer(client), http.StatusOK},
		{"client area as agent", http.MethodGet, "/client/listings", bearer(agent), http.StatusForbidden},
		{"agent area as client", http.MethodGet, "/agent/clients", bearer(client), http.StatusForbidden},
		{"agent area as agent", http.MethodGet, "/agent/clients", bearer(agent), http.StatusOK},
		{"agent area as admin", http.MethodGet, "/agent/clients", bearer(admin), http.StatusOK},
		{"admin area as agent", http.MethodPost, "/admin/agents", bearer(agent), http.StatusForbidden},
		{"admin area as admin", http.MethodPost, "/admin/agents", bearer(admin), http.StatusOK},
		{"no profile fails closed", http.MethodGet, "/agent/clients", bearer(orphan), http.StatusForbidden},
		{"me without profile", http.MethodGet, "/me", bearer(orphan), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRevokedTokenIsRejected(t *testing.T) {
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	id := uuid.New()
	token, claims, err := tokens.CreateToken(id)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	gate := stubGate{roles: map[uuid.UUID]db_models.Role{id: db_models.RoleClient}}
	router := newRouter(tokens, gate, revokedSet{claims.ID: true})

	req := httptest.NewRequest(http.MethodGet, "/client/listings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestTokenFromAnotherSecretIsRejected(t *testing.T) {
	other := utils.NewTokenIssuer("other-secret", time.Hour)
	token, _, _ := other.CreateToken(uuid.New())

	router := newRouter(utils.NewTokenIssuer("test-secret", time.Hour), stubGate{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
