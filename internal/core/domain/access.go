package domain

// Resource names the kind of record an action targets.
type Resource string

const (
	ResourcePassenger Resource = "passenger"
	ResourceUser      Resource = "user"
)

// Action is a capability a principal may attempt on a resource.
type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionExport     Action = "export"
	ActionChangeRole Action = "change_role"
)
