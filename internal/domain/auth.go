package domain

// SubjectType differentiates tenant vs staff tokens.
type SubjectType string

const (
	SubjectTypeTenant SubjectType = "TENANT"
	SubjectTypeStaff  SubjectType = "STAFF"
)
