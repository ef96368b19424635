package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// Modules mount themselves on either the public group (no guard) or the
// protected group (behind the auth guard); a module may do both.
type PublicModule interface{ MountPublic(*gin.RouterGroup) }
type ProtectedModule interface{ MountProtected(*gin.RouterGroup) }

// Optional: implementing this controls mount order (lower mounts first).
type prioritizer interface{ Priority() int }

type Registry struct {
	publicMods    []PublicModule
	protectedMods []ProtectedModule
}

func NewRegistry() *Registry { return &Registry{} }

// Register dispatches by type assertion to the public/protected lists.
func (r *Registry) Register(mod any) {
	if m, ok := mod.(PublicModule); ok {
		r.publicMods = append(r.publicMods, m)
	}
	if m, ok := mod.(ProtectedModule); ok {
		r.protectedMods = append(r.protectedMods, m)
	}
}

func (r *Registry) MountAll(public, protected *gin.RouterGroup) {
	pub := append([]PublicModule(nil), r.publicMods...)
	sort.SliceStable(pub, func(i, j int) bool { return priorityOf(pub[i]) < priorityOf(pub[j]) })
	for _, m := range pub {
		m.MountPublic(public)
	}

	prot := append([]ProtectedModule(nil), r.protectedMods...)
	sort.SliceStable(prot, func(i, j int) bool { return priorityOf(prot[i]) < priorityOf(prot[j]) })
	for _, m := range prot {
		m.MountProtected(protected)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
