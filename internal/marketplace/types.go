// internal/marketplace/types.go
package marketplace

// Order is a marketplace order header as returned by the orders endpoint.
type Order struct {
	OrderID      string `json:"orderId"`
	PurchaseDate string `json:"purchaseDate"`
	Status       string `json:"orderStatus"`
}

// OrderItem is a single line item of a marketplace order.
type OrderItem struct {
	SKU             string `json:"sellerSku"`
	ASIN            string `json:"asin"`
	QuantityOrdered int    `json:"quantityOrdered"`
}

// InventorySummary is the per-SKU on-hand snapshot from the inventory
// endpoint.
type InventorySummary struct {
	SKU           string `json:"sellerSku"`
	TotalQuantity int    `json:"totalQuantity"`
}

type ordersResponse struct {
	Payload struct {
		Orders    []Order `json:"orders"`
		NextToken string  `json:"nextToken"`
	} `json:"payload"`
}

type orderItemsResponse struct {
	Payload struct {
		OrderItems []OrderItem `json:"orderItems"`
	} `json:"payload"`
}

type inventoryResponse struct {
	Payload struct {
		InventorySummaries []InventorySummary `json:"inventorySummaries"`
		NextToken          string             `json:"nextToken"`
	} `json:"payload"`
}
