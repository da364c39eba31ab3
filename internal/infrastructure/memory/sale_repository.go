package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo repositorio de cabeceras de venta en memoria.
type SaleRepo struct {
	mu    sync.RWMutex
	items map[string]entity.Sale
}

// NewSaleRepository crea un repositorio vacío.
func NewSaleRepository() *SaleRepo {
	return &SaleRepo{items: make(map[string]entity.Sale)}
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[sale.ID]; exists {
		return domain.ErrConflict
	}
	r.items[sale.ID] = *sale
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter, w pagination.Window) ([]*entity.Sale, error) {
	r.mu.RLock()
	rows := make([]*entity.Sale, 0, len(r.items))
	for _, s := range r.items {
		if f.Period != nil && !f.Period.Contains(s.CreatedAt) {
			continue
		}
		s := s
		rows = append(rows, &s)
	}
	r.mu.RUnlock()
	return applyWindow(rows, w, func(s *entity.Sale) rowKey { return rowKey{at: s.CreatedAt, id: s.ID} }), nil
}

func (r *SaleRepo) Update(_ context.Context, id string, patch entity.SalePatch) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	updated := patch.Apply(current)
	r.items[id] = updated
	return &updated, nil
}

func (r *SaleRepo) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}
