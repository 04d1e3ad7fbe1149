package auth

import (
	"fmt"

	"github.com/google/uuid"
)

// Entitlement is a type representation of a permission as it applies to a particular ObjectType.
type Entitlement string

const (
	// Entitlements that apply to all resources.
	EntitlementCanCreate Entitlement = "can_create"
	EntitlementCanDelete Entitlement = "can_delete"
	EntitlementCanEdit   Entitlement = "can_edit"
	EntitlementCanView   Entitlement = "can_view"

	// EntitlementAdmin is required to act on locked servers and for
	// administrative actions.
	EntitlementAdmin Entitlement = "admin"
)

// ObjectType is a type of resource within the compute manager.
type ObjectType string

const (
	// ObjectTypeServer represents the daemon itself.
	ObjectTypeServer ObjectType = "server"

	// ObjectTypeInstance represents a compute server record.
	ObjectTypeInstance ObjectType = "instance"
)

// Object is a type representing an authorization target.
type Object string

// ObjectServer returns the object for the daemon itself.
func ObjectServer() Object {
	return Object(ObjectTypeServer)
}

// ObjectInstance returns the object for the compute server with the given UUID.
func ObjectInstance(id uuid.UUID) Object {
	return Object(fmt.Sprintf("%s:%s", ObjectTypeInstance, id.String()))
}
