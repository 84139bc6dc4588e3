package router

import (
	"sort"

	"techzon-blog/internal/transport/http/ez"
)

// APIModule and AdminModule are implemented by feature handlers; a module may implement both.
type APIModule interface{ MountAPI(ez.Routes) }
type AdminModule interface{ MountAdmin(ez.Routes) }

// Modules lower in Priority mount first. Default is 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	api   []APIModule
	admin []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	r.Register(mods...)
	return r
}

// Register dispatches each module to the API and/or admin list by type.
func (r *Registry) Register(mods ...any) {
	for _, mod := range mods {
		if m, ok := mod.(APIModule); ok {
			r.api = append(r.api, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.admin = append(r.admin, m)
		}
	}
}

func (r *Registry) MountAPI(rt ez.Routes) {
	mods := append([]APIModule(nil), r.api...)
	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAPI(rt)
	}
}

func (r *Registry) MountAdmin(rt ez.Routes) {
	mods := append([]AdminModule(nil), r.admin...)
	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAdmin(rt)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
