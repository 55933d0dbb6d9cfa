package domain

// Address is a saved shipping or billing address. The backend's address
// sub-resource has no durable id of its own: ID is either backend-issued or a
// content-derived fingerprint. Deletion is a device-local tombstone, never a
// backend removal.
type Address struct {
	ID            string `json:"id"`
	Label         string `json:"label,omitempty"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Street        string `json:"street"`
	HouseNumber   string `json:"house_number"`
	HouseAddition string `json:"house_addition,omitempty"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	IsDefault     bool   `json:"is_default"`
}
