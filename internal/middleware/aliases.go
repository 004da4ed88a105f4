package middleware

import (
	"fmt"
	"strings"

	"stocklease/internal/models"

	"github.com/gin-gonic/gin"
)

// Aliases turns route-level middleware names into handlers:
//
//	auth                  RequireAuth
//	guest                 RedirectIfAuthenticated
//	role:admin,manager    RequireRole
//	permission:items.view RequirePermission
type Aliases struct {
	Home string // where "guest" sends logged-in users
}

// Resolve returns the handlers for names, in order. Unknown names are programming errors.
func (a Aliases) Resolve(names ...string) ([]gin.HandlerFunc, error) {
	handlers := make([]gin.HandlerFunc, 0, len(names))
	for _, name := range names {
		h, err := a.resolve(name)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}
	return handlers, nil
}

// Must is Resolve that panics, for use while building the route table.
func (a Aliases) Must(names ...string) []gin.HandlerFunc {
	handlers, err := a.Resolve(names...)
	if err != nil {
		panic(err)
	}
	return handlers
}

func (a Aliases) resolve(name string) (gin.HandlerFunc, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(name), ":")

	switch kind {
	case "auth":
		return RequireAuth(), nil
	case "guest":
		home := a.Home
		if home == "" {
			home = "/"
		}
		return RedirectIfAuthenticated(home), nil
	case "role":
		var roles []models.UserRole
		for _, r := range strings.Split(arg, ",") {
			role := models.UserRole(strings.TrimSpace(r))
			if !role.Valid() {
				return nil, fmt.Errorf("middleware alias %q: unknown role %q", name, r)
			}
			roles = append(roles, role)
		}
		return RequireRole(roles...), nil
	case "permission":
		perm := models.Permission(strings.TrimSpace(arg))
		if perm == "" {
			return nil, fmt.Errorf("middleware alias %q: missing permission", name)
		}
		return RequirePermission(perm), nil
	}
	return nil, fmt.Errorf("unknown middleware alias %q", name)
}
