package goal

type GoalStatus string

const (
	StatusActive   GoalStatus = "ACTIVE"
	StatusLocked   GoalStatus = "LOCKED"
	StatusArchived GoalStatus = "ARCHIVED"
)

type FrequencyType string

const (
	FrequencyDaily   FrequencyType = "DAILY"
	FrequencyWeekly  FrequencyType = "WEEKLY"
	FrequencyMonthly FrequencyType = "MONTHLY"
)
