package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo repositorio de compras en memoria (solo agrega).
type PurchaseRepo struct {
	mu    sync.RWMutex
	items map[string]entity.Purchase
}

// NewPurchaseRepository crea un repositorio vacío.
func NewPurchaseRepository() *PurchaseRepo {
	return &PurchaseRepo{items: make(map[string]entity.Purchase)}
}

func (r *PurchaseRepo) Create(_ context.Context, purchase *entity.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[purchase.ID]; exists {
		return domain.ErrConflict
	}
	r.items[purchase.ID] = *purchase
	return nil
}

func (r *PurchaseRepo) List(_ context.Context, f repository.PurchaseFilter, w pagination.Window) ([]*entity.Purchase, error) {
	r.mu.RLock()
	rows := make([]*entity.Purchase, 0, len(r.items))
	for _, p := range r.items {
		if f.ProductID != "" && p.ProductID != f.ProductID {
			continue
		}
		if f.Period != nil && !f.Period.Contains(p.CreatedAt) {
			continue
		}
		p := p
		rows = append(rows, &p)
	}
	r.mu.RUnlock()
	return applyWindow(rows, w, func(p *entity.Purchase) rowKey { return rowKey{at: p.CreatedAt, id: p.ID} }), nil
}

func (r *PurchaseRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Purchase
	for _, p := range r.items {
		if p.ProductID == productID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *PurchaseRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.items {
		if p.ProductID == productID {
			n++
		}
	}
	return n, nil
}
