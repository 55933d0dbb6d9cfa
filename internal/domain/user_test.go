package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Valid(t *testing.T) {
	u := &User{ID: "7", Email: "anna@example.nl"}
	assert.True(t, u.Valid())
}

func TestUser_Valid_MissingID(t *testing.T) {
	u := &User{Email: "anna@example.nl"}
	assert.False(t, u.Valid())
}

func TestUser_Valid_MissingEmail(t *testing.T) {
	u := &User{ID: "7"}
	assert.False(t, u.Valid())
}

func TestUser_Valid_Nil(t *testing.T) {
	var u *User
	assert.False(t, u.Valid())
}

func TestUser_Clone_Independent(t *testing.T) {
	u := &User{
		ID:      "7",
		Email:   "anna@example.nl",
		Loyalty: &LoyaltySnapshot{Points: 120},
		Addresses: []Address{
			{Street: "Kerkstraat", HouseNumber: "12", IsDefault: true},
		},
	}

	c := u.Clone()
	c.Loyalty.Points = 0
	c.Addresses[0].Street = "Dorpsstraat"

	assert.Equal(t, 120, u.Loyalty.Points)
	assert.Equal(t, "Kerkstraat", u.Addresses[0].Street)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleCustomer}).IsAdmin())
}
