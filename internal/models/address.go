package models

import "strings"

type Address struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
	Phone        string `json:"phone"`
}

// Validate requires a name, the first address line, city and phone.
func (a Address) Validate() error {
	var missing []string
	if blank(a.FirstName) && blank(a.LastName) {
		missing = append(missing, "name")
	}
	if blank(a.AddressLine1) {
		missing = append(missing, "address_line1")
	}
	if blank(a.City) {
		missing = append(missing, "city")
	}
	if blank(a.Phone) {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &ShippingInfoError{Missing: missing}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileMoney  PaymentMethod = "mobileMoney"
	PaymentMethodBankTransfer PaymentMethod = "bankTransfer"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCard, PaymentMethodMobileMoney, PaymentMethodBankTransfer:
		return true
	}
	return false
}
