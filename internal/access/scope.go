package access

import (
	"context"
	"errors"
	"slices"

	"innkeeper/infras/jwt"
	"innkeeper/shared/constant"
	"innkeeper/shared/dto"
)

// ErrNoAssignedHotel refuses hotel-scoped reads for staff accounts that have
// no hotel assignment yet. Callers must translate it into a refusal, never
// into an unrestricted listing.
var ErrNoAssignedHotel = errors.New("account has no hotel assignment")

type contextKey struct{}

// Scope is the authorization context of one request. It is derived from the
// verified token claims at the edge and passed explicitly into every service
// call that filters or mutates hotel-owned data.
type Scope struct {
	UserID  string
	Email   string
	Role    string
	HotelID *string
}

func FromClaims(claims *jwt.Claims) Scope {
	return Scope{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    claims.Role,
		HotelID: claims.HotelID,
	}
}

func WithContext(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, scope)
}

func FromContext(ctx context.Context) Scope {
	scope, _ := ctx.Value(contextKey{}).(Scope)
	return scope
}

func (s Scope) IsAdmin() bool {
	return s.Role == constant.RoleAdmin
}

func (s Scope) IsManagerLevel() bool {
	return s.Role == constant.RoleAdmin || s.Role == constant.RoleManager
}

func (s Scope) IsStaffLevel() bool {
	return s.Role == constant.RoleAdmin || s.Role == constant.RoleManager || s.Role == constant.RoleStaff
}

// AccessibleHotelIDs returns the hotel ids this scope may operate on.
// Admins are unrestricted and get a nil slice with unrestricted=true.
// Managers and staff see exactly their assigned hotel; everyone else sees
// nothing.
func (s Scope) AccessibleHotelIDs() (ids []string, unrestricted bool) {
	switch s.Role {
	case constant.RoleAdmin:
		return nil, true
	case constant.RoleManager, constant.RoleStaff:
		if s.HotelID == nil || *s.HotelID == "" {
			return []string{}, false
		}
		return []string{*s.HotelID}, false
	default:
		return []string{}, false
	}
}

// CanAccessHotel reports whether the scope may operate on the given hotel.
func (s Scope) CanAccessHotel(hotelID string) bool {
	ids, unrestricted := s.AccessibleHotelIDs()
	if unrestricted {
		return true
	}
	return slices.Contains(ids, hotelID)
}

// HotelFilter builds the listing restriction for the scope. Unrestricted
// scopes need no filter and get (nil, nil); scopes with no accessible hotel
// get ErrNoAssignedHotel.
func (s Scope) HotelFilter(table, field string) (*dto.Filter, error) {
	ids, unrestricted := s.AccessibleHotelIDs()
	if unrestricted {
		return nil, nil
	}
	if len(ids) == 0 {
		return nil, ErrNoAssignedHotel
	}
	return &dto.Filter{
		ArgName:  "scope_" + field,
		Field:    field,
		Value:    ids,
		Operator: dto.FilterOperatorIn,
		Table:    table,
	}, nil
}
