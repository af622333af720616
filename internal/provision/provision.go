// Package provision implements the entity lifecycle workflow: whenever a
// User or an Employee is created without its counterpart, the missing half
// of the 1:1 pair is provisioned inside the same transaction, and every
// employee ends up with at least one contract.
//
// The workflow is deliberately explicit and one-hop: EnsureEmployeeForUser
// and EnsureUserForEmployee never call each other, and each checks the
// already-linked condition first, so at most one counterpart is created per
// root create. Missing preconditions (no email, already linked) are not
// errors; gaps are picked up later by onboarding flows.
package provision

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/model"
	"github.com/crewforge/backoffice/pkg/utils"
)

// Kind classifies the outcome of a provisioning step.
type Kind int

const (
	KindAlreadyLinked Kind = iota
	KindCreatedEmployee
	KindCreatedUser
	KindCreatedContract
	KindSkipped
)

func (k Kind) String() string {
	switch k {
	case KindAlreadyLinked:
		return "already_linked"
	case KindCreatedEmployee:
		return "created_employee"
	case KindCreatedUser:
		return "created_user"
	case KindCreatedContract:
		return "created_contract"
	case KindSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is the outcome of a provisioning step. Reason is set only for
// skipped outcomes.
type Result struct {
	Kind   Kind
	Reason string
}

func alreadyLinked() Result   { return Result{Kind: KindAlreadyLinked} }
func skipped(r string) Result { return Result{Kind: KindSkipped, Reason: r} }

// defaultLastName is used when a last name cannot be derived.
const defaultLastName = "User"

// Provisioner creates linked counterpart records during persistence.
type Provisioner struct {
	logger *zap.Logger
}

// New creates a new Provisioner.
func New(logger *zap.Logger) *Provisioner {
	return &Provisioner{logger: logger.Named("provision")}
}

// EnsureEmployeeForUser creates the missing Employee half of a freshly
// persisted User. The user must already have an id. The new employee copies
// the user's email into both work and personal email fields and is linked
// bidirectionally; no team is assigned, that is deferred to onboarding. The
// employee always receives a draft contract.
func (p *Provisioner) EnsureEmployeeForUser(tx *gorm.DB, user *model.User) (Result, error) {
	if user.Employee != nil {
		return alreadyLinked(), nil
	}
	var existing model.Employee
	err := tx.Where("user_id = ?", user.ID).First(&existing).Error
	if err == nil {
		user.Employee = &existing
		return alreadyLinked(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Result{}, err
	}

	first, last := deriveNames(user.DisplayName, user.Email)
	employee := &model.Employee{
		UserID:        &user.ID,
		FirstName:     first,
		LastName:      last,
		WorkEmail:     user.Email,
		PersonalEmail: user.Email,
	}
	if err := tx.Create(employee).Error; err != nil {
		return Result{}, err
	}
	employee.User = user
	user.Employee = employee

	if _, err := p.EnsureContract(tx, employee); err != nil {
		return Result{}, err
	}

	p.logger.Debug("provisioned employee for user",
		zap.Uint("userID", user.ID),
		zap.Uint("employeeID", employee.ID))
	return Result{Kind: KindCreatedEmployee}, nil
}

// EnsureUserForEmployee creates the missing User half for an Employee about
// to be persisted. Employees without a usable email are skipped silently.
// The new user gets the employee's full name as display name, the fixed
// "user" role and a randomly generated password that is bcrypt-hashed before
// storage; the plaintext is never persisted or logged.
func (p *Provisioner) EnsureUserForEmployee(tx *gorm.DB, employee *model.Employee) (Result, error) {
	if employee.User != nil || employee.UserID != nil {
		return alreadyLinked(), nil
	}

	email := utils.FirstNonEmpty(employee.WorkEmail, employee.PersonalEmail)
	if email == "" {
		return skipped("employee has no email"), nil
	}

	password, err := randomPassword()
	if err != nil {
		return Result{}, err
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return Result{}, err
	}

	user := &model.User{
		Email:       email,
		DisplayName: employee.FullName(),
		Password:    hashed,
		Role:        cnst.RoleUser,
		IsActive:    true,
	}
	if err := tx.Create(user).Error; err != nil {
		return Result{}, err
	}
	employee.UserID = &user.ID
	employee.User = user
	user.Employee = employee

	p.logger.Debug("provisioned user for employee",
		zap.Uint("employeeID", employee.ID),
		zap.Uint("userID", user.ID))
	return Result{Kind: KindCreatedUser}, nil
}

// EnsureContract guarantees the employee has at least one contract. When
// none exists a draft contract is synthesized: default type, zero salary,
// starting today.
func (p *Provisioner) EnsureContract(tx *gorm.DB, employee *model.Employee) (Result, error) {
	var count int64
	if err := tx.Model(&model.Contract{}).
		Where("employee_id = ?", employee.ID).
		Count(&count).Error; err != nil {
		return Result{}, err
	}
	if count > 0 {
		return alreadyLinked(), nil
	}

	contract := &model.Contract{
		TeamID:      employee.TeamID,
		EmployeeID:  employee.ID,
		Status:      cnst.ContractStatusDraft,
		Type:        cnst.DefaultContractType,
		BasicSalary: decimal.Zero,
		StartDate:   today(),
	}
	if err := tx.Create(contract).Error; err != nil {
		return Result{}, err
	}
	employee.Contracts = append(employee.Contracts, *contract)
	return Result{Kind: KindCreatedContract}, nil
}

// deriveNames produces a first/last name pair from a display name, falling
// back to the capitalized local part of the email address. A single-token
// display name is reused as the last name; the email fallback uses a fixed
// default last name.
func deriveNames(displayName, email string) (string, string) {
	name := strings.TrimSpace(displayName)
	if name != "" {
		parts := strings.SplitN(name, " ", 2)
		first := parts[0]
		last := first
		if len(parts) == 2 {
			if rest := strings.TrimSpace(parts[1]); rest != "" {
				last = rest
			}
		}
		return first, last
	}

	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	caser := cases.Title(language.English)
	return caser.String(local), defaultLastName
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
