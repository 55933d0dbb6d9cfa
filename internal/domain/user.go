package domain

// Role values for a customer account.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Preferences holds the customer's marketing opt-ins.
type Preferences struct {
	Newsletter bool `json:"newsletter"`
	SMSUpdates bool `json:"sms_updates"`
}

// User is the locally cached representation of the logged-in customer,
// independent of whether the server-side token is still valid. It is owned
// exclusively by the session lifecycle; all other components read copies.
type User struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	DisplayName string           `json:"display_name,omitempty"`
	AvatarURL   string           `json:"avatar_url,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Role        string           `json:"role"`
	Preferences Preferences      `json:"preferences"`
	Loyalty     *LoyaltySnapshot `json:"loyalty,omitempty"`
	Addresses   []Address        `json:"addresses,omitempty"`
}

// Valid reports whether the record passes the structural validity check
// applied when loading a persisted identity. A record missing id or email is
// treated as absent by the store.
func (u *User) Valid() bool {
	return u != nil && u.ID != "" && u.Email != ""
}

// IsAdmin reports whether the account is administrative. Administrative
// accounts skip customer-record writes to the commerce backend.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Clone returns a deep copy. The session lifecycle hands out clones so that
// no reader can mutate the owned state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Loyalty != nil {
		l := *u.Loyalty
		c.Loyalty = &l
	}
	if u.Addresses != nil {
		c.Addresses = make([]Address, len(u.Addresses))
		copy(c.Addresses, u.Addresses)
	}
	return &c
}
