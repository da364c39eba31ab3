package memory

// Store agrupa los cuatro repositorios en memoria.
type Store struct {
	Products  *ProductRepo
	Purchases *PurchaseRepo
	Sales     *SaleRepo
	SaleItems *SaleItemRepo
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		Products:  NewProductRepository(),
		Purchases: NewPurchaseRepository(),
		Sales:     NewSaleRepository(),
		SaleItems: NewSaleItemRepository(),
	}
}
