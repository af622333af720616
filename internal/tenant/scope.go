// Package tenant implements the multi-tenancy primitives: the marker
// interface identifying tenant-aware records, the explicit query scope that
// filters them to a single team, and the resolver that derives the active
// scope from an authenticated user.
package tenant

import (
	"gorm.io/gorm"

	"github.com/crewforge/backoffice/internal/model"
)

// Aware marks a record as tenant-aware. Implemented explicitly by every
// tenant-scoped model; once a team reference is set it is never reassigned.
type Aware interface {
	TeamRef() *uint
	SetTeamRef(id uint)
}

var (
	_ Aware = (*model.Employee)(nil)
	_ Aware = (*model.Contract)(nil)
	_ Aware = (*model.Invoice)(nil)
	_ Aware = (*model.Subscription)(nil)
)

// Scope is an explicit query scope passed to every tenant-aware store
// method. The zero value is unscoped: no predicate is contributed, so
// background jobs, migrations and admin tooling that never resolve a tenant
// see all teams.
type Scope struct {
	team *uint
}

// ForTeam returns a scope restricted to a single team.
func ForTeam(id uint) Scope {
	return Scope{team: &id}
}

// Unscoped returns the explicit all-teams scope.
func Unscoped() Scope {
	return Scope{}
}

// TeamID returns the scoped team id and whether one is set.
func (s Scope) TeamID() (uint, bool) {
	if s.team == nil {
		return 0, false
	}
	return *s.team, true
}

// IsScoped reports whether the scope restricts queries to a team.
func (s Scope) IsScoped() bool { return s.team != nil }

// Apply appends the tenant predicate to a query when the scope is set.
// Unscoped scopes pass the query through untouched.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.team == nil {
		return db
	}
	return db.Where("team_id = ?", *s.team)
}

// Stamp assigns the scoped team to a tenant-aware record that has none.
// Records that already carry a team, and unscoped stamps, are left alone:
// the tenant reference is set once, at creation, and never reassigned.
func (s Scope) Stamp(e Aware) {
	if s.team == nil || e.TeamRef() != nil {
		return
	}
	e.SetTeamRef(*s.team)
}
