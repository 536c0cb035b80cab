package cart

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
)

// Owner identifies who a cart belongs to: exactly one of an authenticated
// user id or an anonymous session token.
type Owner struct {
	UserID       *uuid.UUID
	SessionToken *string
}

// UserOwner builds an authenticated owner.
func UserOwner(userID uuid.UUID) Owner {
	return Owner{UserID: &userID}
}

// SessionOwner builds an anonymous owner.
func SessionOwner(token string) Owner {
	return Owner{SessionToken: &token}
}

func (o Owner) validate() error {
	hasUser := o.UserID != nil && *o.UserID != uuid.Nil
	hasSession := o.SessionToken != nil && strings.TrimSpace(*o.SessionToken) != ""
	if hasUser == hasSession {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner must be exactly one of user id or session token")
	}
	return nil
}

// owns reports whether the given cart belongs to this owner.
func (o Owner) owns(cartUserID *uuid.UUID, cartSessionToken *string) bool {
	if o.UserID != nil {
		return cartUserID != nil && *cartUserID == *o.UserID
	}
	if o.SessionToken != nil {
		return cartSessionToken != nil && *cartSessionToken == *o.SessionToken
	}
	return false
}
