package postgres

// Store agrupa los repositorios sobre el mismo Querier.
type Store struct {
	Products  *ProductRepo
	Purchases *PurchaseRepo
	Sales     *SaleRepo
	SaleItems *SaleItemRepo
}

// NewStore construye los cuatro repositorios.
func NewStore(q Querier) *Store {
	return &Store{
		Products:  NewProductRepository(q),
		Purchases: NewPurchaseRepository(q),
		Sales:     NewSaleRepository(q),
		SaleItems: NewSaleItemRepository(q),
	}
}
