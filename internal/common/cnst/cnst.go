package cnst

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Team membership roles
const (
	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"
)

// Contract statuses
const (
	ContractStatusDraft      = "draft"
	ContractStatusActive     = "active"
	ContractStatusTerminated = "terminated"
)

// Contract types
const (
	ContractTypePermanent = "permanent"
	ContractTypeFixedTerm = "fixed_term"
	ContractTypeFreelance = "freelance"

	// DefaultContractType is assigned to auto-created draft contracts.
	DefaultContractType = ContractTypePermanent
)

// Invoice statuses
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
)

// Notification types
const (
	NotificationTypeInfo        = "info"
	NotificationTypeTeamWelcome = "team.welcome"
)

// Redis keys
const (
	// NotificationStream is the stream notification messages are queued on.
	NotificationStream = "backoffice:notifications"

	// NotificationGroup is the consumer group the delivery workers join.
	NotificationGroup = "backoffice:notifications:workers"

	// UserChannelFormat is the per-user pub/sub channel for push updates,
	// parameterized by the user id.
	UserChannelFormat = "backoffice:users:%d:notifications"
)

// Redis cluster types
const (
	RedisClusterTypeNone     = "none"
	RedisClusterTypeCluster  = "cluster"
	RedisClusterTypeSentinel = "sentinel"
)

// APITokenPrefix prefixes every generated API token value.
const APITokenPrefix = "bo_"
