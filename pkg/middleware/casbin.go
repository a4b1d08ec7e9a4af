package middleware

import (
	"log"
	"net/http"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/labstack/echo/v4"

	"nexnote/internal/auth"
)

var (
	enforcer     *casbin.Enforcer
	enforcerOnce sync.Once
)

// getRBACModel returns the RBAC model. Objects are echo route templates, so
// matching is exact and a policy line covers exactly one route.
func getRBACModel() string {
	return `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act`
}

// rolePolicies is the declarative authorization contract: role, route, method.
// Routes not listed here are open to every authenticated user; ownership
// rules (comment author, announcement creator) live in the services.
var rolePolicies = [][]string{
	{auth.RoleTeacher, "/notes", http.MethodPost},
	{auth.RoleTeacher, "/notes/:id", http.MethodDelete},
	{auth.RoleTeacher, "/announcements", http.MethodPost},
	{auth.RoleTeacher, "/announcements/:id", http.MethodPut},
	{auth.RoleTeacher, "/announcements/:id", http.MethodDelete},
}

// InitEnforcer builds the Casbin enforcer singleton with the model and
// policies defined in code. Admin inherits every teacher permission.
func InitEnforcer() (*casbin.Enforcer, error) {
	var err error
	enforcerOnce.Do(func() {
		m, errM := model.NewModelFromString(getRBACModel())
		if errM != nil {
			err = errM
			return
		}
		enforcer, err = casbin.NewEnforcer(m)
		if err != nil {
			return
		}
		for _, p := range rolePolicies {
			if _, err = enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
				return
			}
		}
		_, err = enforcer.AddGroupingPolicy(auth.RoleAdmin, auth.RoleTeacher)
	})
	return enforcer, err
}

// RequireRole enforces the role policy for the matched route. It must run
// after Authenticate.
func RequireRole(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
		}
		enf, err := InitEnforcer()
		if err != nil {
			log.Println("Casbin enforcer error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "RBAC system error"})
		}
		allowed, err := enf.Enforce(user.Role, c.Path(), c.Request().Method)
		if err != nil {
			log.Println("Casbin enforce error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "RBAC system error"})
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: insufficient permissions"})
		}
		return next(c)
	}
}
