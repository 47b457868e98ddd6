package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

func contextWithAuthority(e *echo.Echo, authority string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if authority != "" {
		c.Set("authority", authority)
	}
	return c, rec
}

func TestRoles_Allows(t *testing.T) {
	e := echo.New()
	c, rec := contextWithAuthority(e, "ROLE_CHEF_DEPARTEMENT_JURIDIQUE")

	called := false
	handler := Roles(domain.RoleSuperAdmin, domain.RoleChefJuridique)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected 200 and next called, got %d called=%v", rec.Code, called)
	}
}

func TestRoles_Forbids(t *testing.T) {
	e := echo.New()
	c, rec := contextWithAuthority(e, "ROLE_AGENT_FINANCE")

	handler := Roles(domain.RoleSuperAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRoles_MissingClaims(t *testing.T) {
	e := echo.New()
	c, rec := contextWithAuthority(e, "")

	handler := Roles(domain.RoleSuperAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestValidators_AllowList(t *testing.T) {
	e := echo.New()
	cases := []struct {
		authority string
		want      int
	}{
		{"ROLE_SUPER_ADMIN", http.StatusOK},
		{"ROLE_CHEF_DEPARTEMENT_RECOUVREMENT", http.StatusOK},
		{"ROLE_AGENT_RECOUVREMENT", http.StatusForbidden},
		{"ROLE_AGENT_JURIDIQUE", http.StatusForbidden},
	}

	for _, tc := range cases {
		c, rec := contextWithAuthority(e, tc.authority)
		handler := Validators()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.authority, tc.want, rec.Code)
		}
	}
}

func TestChefs_RejectsAgents(t *testing.T) {
	e := echo.New()
	c, rec := contextWithAuthority(e, "ROLE_AGENT_ENQUETE")

	handler := Chefs()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
