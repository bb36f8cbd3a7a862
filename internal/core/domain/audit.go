package domain

import "time"

// AuditEvent records a mutation performed by a principal.
type AuditEvent struct {
	ActorID    string    `json:"actor_id" bson:"actor_id"`
	ActorRole  Role      `json:"actor_role" bson:"actor_role"`
	Action     Action    `json:"action" bson:"action"`
	Resource   Resource  `json:"resource" bson:"resource"`
	ResourceID string    `json:"resource_id" bson:"resource_id"`
	At         time.Time `json:"at" bson:"at"`
}

// NewAuditEvent stamps an event for p acting on (resource, id).
func NewAuditEvent(p Principal, action Action, resource Resource, id string, at time.Time) AuditEvent {
	return AuditEvent{
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Action:     action,
		Resource:   resource,
		ResourceID: id,
		At:         at.UTC(),
	}
}
