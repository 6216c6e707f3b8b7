package authz

import (
	"errors"

	"github.com/viewtube/backend/internal/models"
)

// ErrForbidden indicates the acting principal does not own the resource.
var ErrForbidden = errors.New("principal does not own resource")

// Owned is any resource gated by an owner check. Edge entities gate on their
// creating endpoint (likedBy, subscriber) instead and do not implement this.
type Owned interface {
	OwnerKey() models.Key
}

// RequireOwner verifies the acting principal owns the resource. Callers must
// pass the freshly loaded resource from the same operation that performs the
// subsequent mutation; ownership is never validated against a cached copy.
func RequireOwner(resource Owned, principal models.Key) error {
	if principal.IsZero() {
		return ErrForbidden
	}
	if resource.OwnerKey() != principal {
		return ErrForbidden
	}
	return nil
}
