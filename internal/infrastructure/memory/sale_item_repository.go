package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

var _ repository.SaleItemRepository = (*SaleItemRepo)(nil)

// SaleItemRepo repositorio de ítems de venta en memoria.
type SaleItemRepo struct {
	mu    sync.RWMutex
	items map[string]entity.SaleItem
}

// NewSaleItemRepository crea un repositorio vacío.
func NewSaleItemRepository() *SaleItemRepo {
	return &SaleItemRepo{items: make(map[string]entity.SaleItem)}
}

// CreateBatch inserta todos los ítems o ninguno (igual que un INSERT multi-fila).
func (r *SaleItemRepo) CreateBatch(_ context.Context, items []*entity.SaleItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range items {
		if _, exists := r.items[it.ID]; exists {
			return domain.ErrConflict
		}
	}
	for _, it := range items {
		r.items[it.ID] = *it
	}
	return nil
}

func (r *SaleItemRepo) GetByID(_ context.Context, id string) (*entity.SaleItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *SaleItemRepo) ListBySale(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	return r.filter(repository.SaleItemFilter{SaleID: saleID}), nil
}

func (r *SaleItemRepo) ListByProduct(_ context.Context, productID string) ([]*entity.SaleItem, error) {
	return r.filter(repository.SaleItemFilter{ProductID: productID}), nil
}

func (r *SaleItemRepo) List(_ context.Context, f repository.SaleItemFilter, w pagination.Window) ([]*entity.SaleItem, error) {
	return applyWindow(r.filter(f), w, func(it *entity.SaleItem) rowKey { return rowKey{id: it.ID} }), nil
}

func (r *SaleItemRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	return len(r.filter(repository.SaleItemFilter{ProductID: productID})), nil
}

func (r *SaleItemRepo) DeleteBySale(_ context.Context, saleID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, it := range r.items {
		if it.SaleID == saleID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func (r *SaleItemRepo) filter(f repository.SaleItemFilter) []*entity.SaleItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.SaleItem
	for _, it := range r.items {
		if f.SaleID != "" && it.SaleID != f.SaleID {
			continue
		}
		if f.ProductID != "" && it.ProductID != f.ProductID {
			continue
		}
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
