package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeeper/infras/jwt"
	"innkeeper/shared/constant"
	"innkeeper/shared/dto"
)

func strPtr(s string) *string {
	return &s
}

func TestFromClaims(t *testing.T) {
	claims := &jwt.Claims{
		UserID:  "user-1",
		Email:   "manager@example.com",
		Role:    constant.RoleManager,
		HotelID: strPtr("hotel-1"),
	}

	scope := FromClaims(claims)

	assert.Equal(t, "user-1", scope.UserID)
	assert.Equal(t, "manager@example.com", scope.Email)
	assert.Equal(t, constant.RoleManager, scope.Role)
	assert.Equal(t, "hotel-1", *scope.HotelID)
}

func TestScope_Context(t *testing.T) {
	scope := Scope{UserID: "user-1", Role: constant.RoleStaff, HotelID: strPtr("hotel-1")}

	ctx := WithContext(context.Background(), scope)
	got := FromContext(ctx)

	assert.Equal(t, scope, got)
}

func TestScope_FromContext_Missing(t *testing.T) {
	got := FromContext(context.Background())

	assert.Empty(t, got.UserID)
	assert.Empty(t, got.Role)
}

func TestScope_AccessibleHotelIDs(t *testing.T) {
	tests := []struct {
		name             string
		scope            Scope
		wantIDs          []string
		wantUnrestricted bool
	}{
		{
			name:             "admin is unrestricted",
			scope:            Scope{Role: constant.RoleAdmin},
			wantIDs:          nil,
			wantUnrestricted: true,
		},
		{
			name:             "manager sees own hotel",
			scope:            Scope{Role: constant.RoleManager, HotelID: strPtr("hotel-1")},
			wantIDs:          []string{"hotel-1"},
			wantUnrestricted: false,
		},
		{
			name:             "staff sees own hotel",
			scope:            Scope{Role: constant.RoleStaff, HotelID: strPtr("hotel-2")},
			wantIDs:          []string{"hotel-2"},
			wantUnrestricted: false,
		},
		{
			name:             "manager without assignment sees nothing",
			scope:            Scope{Role: constant.RoleManager},
			wantIDs:          []string{},
			wantUnrestricted: false,
		},
		{
			name:             "staff with empty assignment sees nothing",
			scope:            Scope{Role: constant.RoleStaff, HotelID: strPtr("")},
			wantIDs:          []string{},
			wantUnrestricted: false,
		},
		{
			name:             "customer sees nothing",
			scope:            Scope{Role: constant.RoleCustomer, HotelID: strPtr("hotel-1")},
			wantIDs:          []string{},
			wantUnrestricted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, unrestricted := tt.scope.AccessibleHotelIDs()

			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantUnrestricted, unrestricted)
		})
	}
}

func TestScope_CanAccessHotel(t *testing.T) {
	tests := []struct {
		name    string
		scope   Scope
		hotelID string
		want    bool
	}{
		{
			name:    "admin can access any hotel",
			scope:   Scope{Role: constant.RoleAdmin},
			hotelID: "hotel-9",
			want:    true,
		},
		{
			name:    "manager can access own hotel",
			scope:   Scope{Role: constant.RoleManager, HotelID: strPtr("hotel-1")},
			hotelID: "hotel-1",
			want:    true,
		},
		{
			name:    "manager cannot access other hotel",
			scope:   Scope{Role: constant.RoleManager, HotelID: strPtr("hotel-1")},
			hotelID: "hotel-2",
			want:    false,
		},
		{
			name:    "staff without assignment cannot access",
			scope:   Scope{Role: constant.RoleStaff},
			hotelID: "hotel-1",
			want:    false,
		},
		{
			name:    "customer cannot access",
			scope:   Scope{Role: constant.RoleCustomer},
			hotelID: "hotel-1",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.CanAccessHotel(tt.hotelID))
		})
	}
}

func TestScope_HotelFilter(t *testing.T) {
	t.Run("admin gets no filter", func(t *testing.T) {
		scope := Scope{Role: constant.RoleAdmin}

		filter, err := scope.HotelFilter("bookings", "hotel_id")

		assert.NoError(t, err)
		assert.Nil(t, filter)
	})

	t.Run("manager gets in filter on own hotel", func(t *testing.T) {
		scope := Scope{Role: constant.RoleManager, HotelID: strPtr("hotel-1")}

		filter, err := scope.HotelFilter("bookings", "hotel_id")

		assert.NoError(t, err)
		assert.Equal(t, &dto.Filter{
			ArgName:  "scope_hotel_id",
			Field:    "hotel_id",
			Value:    []string{"hotel-1"},
			Operator: dto.FilterOperatorIn,
			Table:    "bookings",
		}, filter)
	})

	t.Run("staff without assignment is refused", func(t *testing.T) {
		scope := Scope{Role: constant.RoleStaff}

		filter, err := scope.HotelFilter("bookings", "hotel_id")

		assert.ErrorIs(t, err, ErrNoAssignedHotel)
		assert.Nil(t, filter)
	})
}
