package domain

// Product is a catalog entry. InventoryCount is kept as a decimal string in
// the products table; only the inventory ledger's conditional decrement may
// change it.
type Product struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	InventoryCount string `json:"inventory_count"`
}
