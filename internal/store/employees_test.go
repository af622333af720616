package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/model"
	"github.com/crewforge/backoffice/internal/provision"
	"github.com/crewforge/backoffice/internal/tenant"
)

func TestCreateEmployee_ProvisionsUser(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	emp := &model.Employee{
		FirstName: "Ada",
		LastName:  "Lovelace",
		WorkEmail: "ada@crewforge.io",
	}
	result, err := s.CreateEmployee(ctx, tenant.ForTeam(1), emp)
	require.NoError(t, err)
	assert.Equal(t, provision.KindCreatedUser, result.Kind)

	require.NotNil(t, emp.User)
	user := emp.User
	assert.Equal(t, "ada@crewforge.io", user.Email)
	assert.Equal(t, cnst.RoleUser, user.Role)

	// the stored password is a bcrypt hash, never the raw value
	_, err = bcrypt.Cost([]byte(user.Password))
	assert.NoError(t, err)
}

func TestCreateEmployee_PersonalEmailFallback(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	emp := &model.Employee{
		FirstName:     "Ada",
		PersonalEmail: "ada@example.com",
	}
	result, err := s.CreateEmployee(ctx, tenant.ForTeam(1), emp)
	require.NoError(t, err)
	assert.Equal(t, provision.KindCreatedUser, result.Kind)
	require.NotNil(t, emp.User)
	assert.Equal(t, "ada@example.com", emp.User.Email)
}

func TestCreateEmployee_NoEmailSkipsUser(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	emp := &model.Employee{FirstName: "Ghost"}
	result, err := s.CreateEmployee(ctx, tenant.ForTeam(1), emp)
	require.NoError(t, err)
	assert.Equal(t, provision.KindSkipped, result.Kind)
	assert.NotEmpty(t, result.Reason)
	assert.Nil(t, emp.User)

	// the employee itself is still persisted, with its draft contract
	contracts, err := s.ListContracts(ctx, tenant.ForTeam(1), emp.ID)
	require.NoError(t, err)
	assert.Len(t, contracts, 1)
}

func TestCreateEmployee_StampsScope(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	emp := &model.Employee{FirstName: "Ada", WorkEmail: "ada@crewforge.io"}
	_, err := s.CreateEmployee(ctx, tenant.ForTeam(3), emp)
	require.NoError(t, err)

	require.NotNil(t, emp.TeamID)
	assert.Equal(t, uint(3), *emp.TeamID)

	// the synthesized contract inherits the team
	contracts, err := s.ListContracts(ctx, tenant.ForTeam(3), emp.ID)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	require.NotNil(t, contracts[0].TeamID)
	assert.Equal(t, uint(3), *contracts[0].TeamID)
}

func TestGetEmployee_ScopeIsolation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	emp := &model.Employee{FirstName: "Ada", WorkEmail: "ada@crewforge.io"}
	_, err := s.CreateEmployee(ctx, tenant.ForTeam(1), emp)
	require.NoError(t, err)

	_, err = s.GetEmployee(ctx, tenant.ForTeam(2), emp.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetEmployee(ctx, tenant.ForTeam(1), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)
}

func TestListEmployees_Scoped(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i, team := range []uint{1, 2, 1} {
		emp := &model.Employee{FirstName: "E", WorkEmail: ""}
		emp.LastName = string(rune('A' + i))
		_, err := s.CreateEmployee(ctx, tenant.ForTeam(team), emp)
		require.NoError(t, err)
	}

	scoped, err := s.ListEmployees(ctx, tenant.ForTeam(1))
	require.NoError(t, err)
	assert.Len(t, scoped, 2)

	all, err := s.ListEmployees(ctx, tenant.Unscoped())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateEmployee(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	emp := &model.Employee{FirstName: "Ada", WorkEmail: "ada@crewforge.io"}
	_, err := s.CreateEmployee(ctx, tenant.ForTeam(1), emp)
	require.NoError(t, err)

	emp.Position = "Engineer"
	require.NoError(t, s.UpdateEmployee(ctx, tenant.ForTeam(1), emp))

	got, err := s.GetEmployee(ctx, tenant.ForTeam(1), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", got.Position)

	// other scopes cannot reach the row
	err = s.UpdateEmployee(ctx, tenant.ForTeam(2), emp)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateContract_VisibilityCheck(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	emp := &model.Employee{FirstName: "Ada", WorkEmail: "ada@crewforge.io"}
	_, err := s.CreateEmployee(ctx, tenant.ForTeam(1), emp)
	require.NoError(t, err)

	contract := &model.Contract{
		EmployeeID: emp.ID,
		Status:     cnst.ContractStatusActive,
		Type:       cnst.ContractTypeFixedTerm,
	}
	err = s.CreateContract(ctx, tenant.ForTeam(2), contract)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.CreateContract(ctx, tenant.ForTeam(1), contract))
	require.NotNil(t, contract.TeamID)
	assert.Equal(t, uint(1), *contract.TeamID)

	contracts, err := s.ListContracts(ctx, tenant.ForTeam(1), emp.ID)
	require.NoError(t, err)
	assert.Len(t, contracts, 2) // the auto-created draft plus the new one
}
