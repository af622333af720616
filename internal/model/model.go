package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Team is the organizational scope that partitions data ownership. Every
// tenant-aware record carries an optional reference to exactly one Team.
type Team struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(100);uniqueIndex"`
	OwnerID   uint      `json:"ownerId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Members []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID"`
}

func (Team) TableName() string { return "teams" }

// User is the authentication principal. It optionally owns exactly one
// Employee; the foreign key lives on the employee side.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email       string    `json:"email" gorm:"type:varchar(190);uniqueIndex;not null"`
	DisplayName string    `json:"displayName" gorm:"type:varchar(100)"`
	Password    string    `json:"-" gorm:"not null"`
	Role        string    `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Employee    *Employee    `json:"employee,omitempty" gorm:"foreignKey:UserID"`
	Memberships []TeamMember `json:"memberships,omitempty" gorm:"foreignKey:UserID"`
	Tokens      []APIToken   `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string { return "users" }

// Employee is the HR record. It is tenant-aware and optionally owns exactly
// one User (the other half of the bidirectional 1:1).
type Employee struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	TeamID        *uint     `json:"teamId" gorm:"index"`
	UserID        *uint     `json:"userId" gorm:"uniqueIndex"`
	FirstName     string    `json:"firstName" gorm:"type:varchar(100)"`
	LastName      string    `json:"lastName" gorm:"type:varchar(100)"`
	WorkEmail     string    `json:"workEmail" gorm:"type:varchar(190)"`
	PersonalEmail string    `json:"personalEmail" gorm:"type:varchar(190)"`
	Position      string    `json:"position" gorm:"type:varchar(100)"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	User      *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Contracts []Contract `json:"contracts,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (Employee) TableName() string { return "employees" }

// TeamRef implements tenant.Aware.
func (e *Employee) TeamRef() *uint { return e.TeamID }

// SetTeamRef implements tenant.Aware.
func (e *Employee) SetTeamRef(id uint) { e.TeamID = &id }

// FullName joins the employee's first and last names.
func (e *Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Contract belongs to exactly one Employee. A freshly auto-created contract
// is always draft, default type, zero salary, starting today.
type Contract struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	TeamID      *uint           `json:"teamId" gorm:"index"`
	EmployeeID  uint            `json:"employeeId" gorm:"not null;index"`
	Status      string          `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	Type        string          `json:"type" gorm:"type:varchar(20);not null"`
	BasicSalary decimal.Decimal `json:"basicSalary" gorm:"type:decimal(12,2)"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Contract) TableName() string { return "contracts" }

func (c *Contract) TeamRef() *uint     { return c.TeamID }
func (c *Contract) SetTeamRef(id uint) { c.TeamID = &id }

// TeamMember links a User to a Team with a role. A (user, team) pair appears
// at most once.
type TeamMember struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	TeamID    uint      `json:"teamId" gorm:"not null;uniqueIndex:idx_team_user"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_team_user"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	CreatedAt time.Time `json:"createdAt"`

	Team *Team `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (TeamMember) TableName() string { return "team_members" }

// Notification belongs to exactly one User. Rows are created only by the
// delivery pipeline, never directly by request handlers.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Type      string    `json:"type" gorm:"type:varchar(50);not null"`
	Payload   JSONMap   `json:"data" gorm:"type:text"`
	Read      bool      `json:"read" gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

// APIToken stores a hashed API token. The full value is returned exactly
// once, at creation; afterwards only the masked form is exposed.
type APIToken struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint       `json:"-" gorm:"not null;index"`
	TokenHash   string     `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	MaskedToken string     `json:"maskedToken" gorm:"type:varchar(32);not null"`
	Description string     `json:"description" gorm:"type:varchar(255)"`
	LastUsedAt  *time.Time `json:"lastUsedAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (APIToken) TableName() string { return "api_tokens" }

// Invoice is a tenant-scoped billing document.
type Invoice struct {
	ID           uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	TeamID       *uint           `json:"teamId" gorm:"index"`
	Number       string          `json:"number" gorm:"type:varchar(40);uniqueIndex;not null"`
	CustomerName string          `json:"customerName" gorm:"type:varchar(190)"`
	Status       string          `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	Subtotal     decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2)"`
	Tax          decimal.Decimal `json:"tax" gorm:"type:decimal(12,2)"`
	Total        decimal.Decimal `json:"total" gorm:"type:decimal(12,2)"`
	IssuedAt     time.Time       `json:"issuedAt"`
	DueAt        *time.Time      `json:"dueAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) TeamRef() *uint     { return i.TeamID }
func (i *Invoice) SetTeamRef(id uint) { i.TeamID = &id }

// Subscription tracks the billing state of a team. At most one per team.
type Subscription struct {
	ID               uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	TeamID           *uint      `json:"teamId" gorm:"uniqueIndex"`
	Plan             string     `json:"plan" gorm:"type:varchar(50);not null"`
	Status           string     `json:"status" gorm:"type:varchar(20);not null;default:'trialing'"`
	TrialEndsAt      *time.Time `json:"trialEndsAt,omitempty"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
	CanceledAt       *time.Time `json:"canceledAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (s *Subscription) TeamRef() *uint     { return s.TeamID }
func (s *Subscription) SetTeamRef(id uint) { s.TeamID = &id }

// All returns every model registered for migration.
func All() []any {
	return []any{
		&Team{},
		&User{},
		&Employee{},
		&Contract{},
		&TeamMember{},
		&Notification{},
		&APIToken{},
		&Invoice{},
		&Subscription{},
	}
}
