package provision

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func TestDeriveNames(t *testing.T) {
	tests := []struct {
		displayName string
		email       string
		first, last string
	}{
		{"Jane Doe", "jane@crewforge.io", "Jane", "Doe"},
		{"Jane Ann Doe", "jane@crewforge.io", "Jane", "Ann Doe"},
		{"Prince", "prince@crewforge.io", "Prince", "Prince"},
		{"  Jane   ", "jane@crewforge.io", "Jane", "Jane"},
		{"", "bob@crewforge.io", "Bob", "User"},
		{"", "nodomain", "Nodomain", "User"},
	}
	for _, tt := range tests {
		first, last := deriveNames(tt.displayName, tt.email)
		assert.Equal(t, tt.first, first, "first name for %q / %q", tt.displayName, tt.email)
		assert.Equal(t, tt.last, last, "last name for %q / %q", tt.displayName, tt.email)
	}
}

func TestEnsureEmployeeForUser_Idempotent(t *testing.T) {
	db := testDB(t)
	p := New(zap.NewNop())

	user := &model.User{Email: "jane@crewforge.io", DisplayName: "Jane Doe", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	result, err := p.EnsureEmployeeForUser(db, user)
	require.NoError(t, err)
	assert.Equal(t, KindCreatedEmployee, result.Kind)

	// a second run on the same user is a no-op
	result, err = p.EnsureEmployeeForUser(db, user)
	require.NoError(t, err)
	assert.Equal(t, KindAlreadyLinked, result.Kind)

	// also when the in-memory link is lost and only the DB row remains
	fresh := &model.User{ID: user.ID, Email: user.Email}
	result, err = p.EnsureEmployeeForUser(db, fresh)
	require.NoError(t, err)
	assert.Equal(t, KindAlreadyLinked, result.Kind)
	require.NotNil(t, fresh.Employee)

	var count int64
	require.NoError(t, db.Model(&model.Employee{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureUserForEmployee_Idempotent(t *testing.T) {
	db := testDB(t)
	p := New(zap.NewNop())

	emp := &model.Employee{FirstName: "Ada", LastName: "Lovelace", WorkEmail: "ada@crewforge.io"}
	result, err := p.EnsureUserForEmployee(db, emp)
	require.NoError(t, err)
	assert.Equal(t, KindCreatedUser, result.Kind)
	require.NotNil(t, emp.User)
	assert.Equal(t, "Ada Lovelace", emp.User.DisplayName)
	assert.Equal(t, cnst.RoleUser, emp.User.Role)

	result, err = p.EnsureUserForEmployee(db, emp)
	require.NoError(t, err)
	assert.Equal(t, KindAlreadyLinked, result.Kind)
}

func TestEnsureUserForEmployee_NoEmail(t *testing.T) {
	db := testDB(t)
	p := New(zap.NewNop())

	emp := &model.Employee{FirstName: "Ghost"}
	result, err := p.EnsureUserForEmployee(db, emp)
	require.NoError(t, err)
	assert.Equal(t, KindSkipped, result.Kind)
	assert.Equal(t, "employee has no email", result.Reason)
	assert.Nil(t, emp.User)
}

func TestEnsureUserForEmployee_HashedPassword(t *testing.T) {
	db := testDB(t)
	p := New(zap.NewNop())

	emp := &model.Employee{WorkEmail: "ada@crewforge.io"}
	_, err := p.EnsureUserForEmployee(db, emp)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(emp.User.Password))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, bcrypt.DefaultCost)
}

func TestEnsureContract(t *testing.T) {
	db := testDB(t)
	p := New(zap.NewNop())

	team := uint(5)
	emp := &model.Employee{FirstName: "Ada", TeamID: &team}
	require.NoError(t, db.Create(emp).Error)

	result, err := p.EnsureContract(db, emp)
	require.NoError(t, err)
	assert.Equal(t, KindCreatedContract, result.Kind)
	require.Len(t, emp.Contracts, 1)

	c := emp.Contracts[0]
	assert.Equal(t, cnst.ContractStatusDraft, c.Status)
	assert.Equal(t, cnst.DefaultContractType, c.Type)
	assert.True(t, c.BasicSalary.IsZero())
	require.NotNil(t, c.TeamID)
	assert.Equal(t, team, *c.TeamID)

	// no second contract on re-run
	result, err = p.EnsureContract(db, emp)
	require.NoError(t, err)
	assert.Equal(t, KindAlreadyLinked, result.Kind)

	var count int64
	require.NoError(t, db.Model(&model.Contract{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRandomPassword(t *testing.T) {
	a, err := randomPassword()
	require.NoError(t, err)
	b, err := randomPassword()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), passwordEntropyBytes)
}
