package audithook

// Action constants for audit events.
const (
	// Economy actions
	ActionEconomyCreated = "economy.created"
	ActionEconomyDeleted = "economy.deleted"
	ActionGuildBound     = "guild.bound"
	ActionGuildUnbound   = "guild.unbound"

	// Account actions
	ActionAccountOpened        = "account.opened"
	ActionAccountClosed        = "account.closed"
	ActionOwnershipTransferred = "account.ownership_transferred"

	// Money movement actions
	ActionTransferPerformed = "transfer.performed"
	ActionFundsManaged      = "funds.managed"
	ActionTaxesPerformed    = "taxes.performed"

	// Permission actions
	ActionPermissionsUpdated = "permissions.updated"

	// Tax bracket actions
	ActionTaxBracketsUpdated = "tax_brackets.updated"

	// Recurring transfer actions
	ActionRecurringCreated  = "recurring.created"
	ActionRecurringCanceled = "recurring.canceled"
	ActionTickCompleted     = "tick.completed"
)

// Resource constants for audit events.
const (
	ResourceEconomy    = "economy"
	ResourceGuild      = "guild"
	ResourceAccount    = "account"
	ResourceTransfer   = "transfer"
	ResourcePermission = "permission"
	ResourceTaxBracket = "tax_bracket"
	ResourceRecurring  = "recurring_transfer"
	ResourceScheduler  = "scheduler"
)

// Category constants for audit events.
const (
	CategoryEconomy    = "economy"
	CategoryAccount    = "account"
	CategoryMoney      = "money"
	CategoryAccess     = "access"
	CategoryTax        = "tax"
	CategoryScheduling = "scheduling"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
