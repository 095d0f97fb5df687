package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Order is the finalized, immutable record persisted by the order store.
// Quantities and money amounts are carried as decimal strings on the wire
// and in the table, matching the storefront's item schema.
type Order struct {
	ID           string        `json:"id"`
	CustomerName string        `json:"customer_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	OrderedItems []OrderedItem `json:"ordered_items"`
	TotalAmount  string        `json:"total_amount"`
	OrderTime    string        `json:"order_time"`
}

// OrderedItem is a denormalized snapshot of a product at order time.
type OrderedItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	Amount      string `json:"amount"`
}

// OrderSubmission is the raw client payload accepted at the order endpoint.
type OrderSubmission struct {
	PersonalInfo    PersonalInfo    `json:"personalInfo"`
	CustomerProduct CustomerProduct `json:"customerproduct"`
}

type PersonalInfo struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type CustomerProduct struct {
	ProductsToSubmit []SubmittedProduct `json:"productsToSubmit"`
}

// SubmittedProduct is one requested line item. Clients send id and quantity
// as either JSON numbers or strings, so both are normalized to strings.
type SubmittedProduct struct {
	ID       FlexString `json:"id"`
	Name     string     `json:"name"`
	Quantity FlexString `json:"quantity"`
	Price    FlexString `json:"price"`
}

// FlexString decodes a JSON string or number into its string form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("flex string: empty value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }
