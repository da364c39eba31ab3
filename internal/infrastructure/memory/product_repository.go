package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct {
	mu    sync.RWMutex
	items map[string]entity.Product
}

// NewProductRepository crea un repositorio vacío.
func NewProductRepository() *ProductRepo {
	return &ProductRepo{items: make(map[string]entity.Product)}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[product.ID]; exists {
		return domain.ErrConflict
	}
	r.items[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.items[id]; ok {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[product.ID]
	if !ok {
		return 0, nil
	}
	// cantidad y fecha de creación no se tocan por esta vía
	updated := *product
	updated.Quantity = current.Quantity
	updated.CreatedAt = current.CreatedAt
	r.items[product.ID] = updated
	return 1, nil
}

func (r *ProductRepo) UpdateQuantity(_ context.Context, id string, quantity int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return 0, nil
	}
	p.Quantity = quantity
	r.items[id] = p
	return 1, nil
}

func (r *ProductRepo) List(_ context.Context, w pagination.Window) ([]*entity.Product, error) {
	r.mu.RLock()
	rows := make([]*entity.Product, 0, len(r.items))
	for _, p := range r.items {
		p := p
		rows = append(rows, &p)
	}
	r.mu.RUnlock()
	return applyWindow(rows, w, func(p *entity.Product) rowKey { return rowKey{at: p.CreatedAt, id: p.ID} }), nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}
