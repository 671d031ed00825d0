package catalog

// ProductView is the display projection of a product returned by the hydrator.
type ProductView struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Model            string   `json:"model,omitempty"`
	Reference        string   `json:"referenceNumber,omitempty"`
	Barcode          string   `json:"barcode,omitempty"`
	Price            float64  `json:"price"`
	Status           string   `json:"status,omitempty"`
	OnSale           bool     `json:"onSale"`
	Featured         bool     `json:"featured"`
	InStock          bool     `json:"inStock"`
	Images           []string `json:"images,omitempty"`
	CategoryNames    []string `json:"categoryNames,omitempty"`
	ManufacturerName string   `json:"manufacturerName,omitempty"`
}
