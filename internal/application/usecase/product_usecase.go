package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se mueve por ventas y por AdjustStock.
type ProductUseCase struct {
	repo      repository.ProductRepository
	items     repository.SaleItemRepository
	purchases repository.PurchaseRepository
	images    ports.ImageStore
	observer  ports.Observer
	now       func() time.Time
}

// NewProductUseCase construye el caso de uso. observer puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	items repository.SaleItemRepository,
	purchases repository.PurchaseRepository,
	images ports.ImageStore,
	observer ports.Observer,
) *ProductUseCase {
	if observer == nil {
		observer = ports.NopObserver{}
	}
	return &ProductUseCase{
		repo:      repo,
		items:     items,
		purchases: purchases,
		images:    images,
		observer:  observer,
		now:       time.Now,
	}
}

// Create crea un nuevo producto. La imagen (base64) se sube al almacenamiento y se guarda su referencia.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("el nombre es obligatorio")
	}
	if in.PriceSale.IsNegative() || in.PriceWholesale.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.NewValidationError("precios y costo no pueden ser negativos")
	}
	if in.Quantity < 0 {
		return nil, domain.NewValidationError("la cantidad no puede ser negativa")
	}
	now := uc.now().UTC()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		PriceSale:      in.PriceSale,
		PriceWholesale: in.PriceWholesale,
		Cost:           in.Cost,
		Quantity:       in.Quantity,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Image != "" {
		ref, err := uc.putImage(ctx, product.ID, in.Image)
		if err != nil {
			return nil, err
		}
		product.ImageRef = &ref
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		if product.ImageRef != nil {
			uc.dropImage(ctx, product.ID, *product.ImageRef)
		}
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if product, err = domain.RequireFound(product, err, "producto "+id); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Image "" quita la imagen; cualquier otro valor la reemplaza.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if product, err = domain.RequireFound(product, err, "producto "+id); err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("el nombre es obligatorio")
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = in.Description
	}
	if in.PriceSale != nil {
		product.PriceSale = *in.PriceSale
	}
	if in.PriceWholesale != nil {
		product.PriceWholesale = *in.PriceWholesale
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	if product.PriceSale.IsNegative() || product.PriceWholesale.IsNegative() || product.Cost.IsNegative() {
		return nil, domain.NewValidationError("precios y costo no pueden ser negativos")
	}

	oldRef := product.ImageRef
	var newRef *string
	if in.Image != nil {
		product.ImageRef = nil
		if *in.Image != "" {
			ref, err := uc.putImage(ctx, product.ID, *in.Image)
			if err != nil {
				return nil, err
			}
			newRef = &ref
			product.ImageRef = newRef
		}
	}

	product.UpdatedAt = uc.now().UTC()
	n, err := uc.repo.Update(ctx, product)
	if err == nil && n == 0 {
		err = fmt.Errorf("%w: producto %s", domain.ErrSilentRejection, id)
	}
	if err != nil {
		// la fila no cambió: la imagen recién subida queda huérfana
		if newRef != nil {
			uc.dropImage(ctx, id, *newRef)
		}
		return nil, err
	}
	if in.Image != nil && oldRef != nil {
		uc.dropImage(ctx, id, *oldRef)
	}
	return toProductResponse(product), nil
}

// List lista productos con cursor.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.PageResponse[dto.ProductResponse], error) {
	w := q.Params().Window(pagination.FieldCreatedAt)
	page, err := pagination.Fetch(ctx, w, uc.repo.List,
		func(p *entity.Product) pagination.Cursor { return pagination.KeyOf(w.OrderBy, p.ID, p.CreatedAt) },
	)
	if err != nil {
		return nil, err
	}
	resp := dto.MapPage(page, func(p *entity.Product) dto.ProductResponse { return *toProductResponse(p) })
	return &resp, nil
}

// Delete elimina un producto. Falla con conflicto si hay ítems de venta o compras que lo referencian.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if product, err = domain.RequireFound(product, err, "producto "+id); err != nil {
		return err
	}
	refs, err := uc.items.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: el producto tiene %d ítems de venta asociados", domain.ErrConflict, refs)
	}
	bought, err := uc.purchases.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if bought > 0 {
		return fmt.Errorf("%w: el producto tiene %d compras asociadas", domain.ErrConflict, bought)
	}
	n, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrSilentRejection, id)
	}
	if product.ImageRef != nil {
		uc.dropImage(ctx, id, *product.ImageRef)
	}
	return nil
}

// AdjustStock ajusta el stock con un delta o a un valor absoluto. El resultado no puede ser negativo.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id string, in dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if product, err = domain.RequireFound(product, err, "producto "+id); err != nil {
		return nil, err
	}
	var quantity int
	switch {
	case in.Quantity != nil:
		quantity = *in.Quantity
	case in.Delta != nil:
		quantity = product.Quantity + *in.Delta
	default:
		return nil, domain.NewValidationError("indique delta o quantity")
	}
	if quantity < 0 {
		return nil, domain.NewValidationError("stock resultante negativo: disponible %d", product.Quantity)
	}
	n, err := uc.repo.UpdateQuantity(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: stock del producto %s", domain.ErrSilentRejection, id)
	}
	product.Quantity = quantity
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) putImage(ctx context.Context, productID, encoded string) (string, error) {
	if uc.images == nil {
		return "", fmt.Errorf("%w: almacenamiento de imágenes no configurado", domain.ErrInternal)
	}
	data, contentType, err := DecodeImage(encoded)
	if err != nil {
		return "", err
	}
	ref, err := uc.images.Put(ctx, productID, data, contentType)
	if err != nil {
		return "", fmt.Errorf("subir imagen: %w", err)
	}
	return ref, nil
}

// dropImage borra una imagen reemplazada; un fallo solo se reporta al observer.
func (uc *ProductUseCase) dropImage(ctx context.Context, productID, ref string) {
	if uc.images == nil {
		return
	}
	if err := uc.images.Delete(ctx, ref); err != nil {
		uc.observer.Observe(ctx, ports.Event{
			Name:   ports.EventImageCleanup,
			Err:    err,
			Fields: map[string]any{"product_id": productID},
		})
	}
}

// DecodeImage decodifica una imagen en base64, con o sin prefijo "data:<tipo>;base64,".
func DecodeImage(encoded string) ([]byte, string, error) {
	contentType := ""
	if rest, ok := strings.CutPrefix(encoded, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", domain.NewValidationError("imagen: data URI inválido")
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		encoded = payload
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil || len(data) == 0 {
		return nil, "", domain.NewValidationError("imagen: base64 inválido")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", domain.NewValidationError("imagen: tipo no soportado %q", contentType)
	}
	return data, contentType, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		PriceSale:      p.PriceSale,
		PriceWholesale: p.PriceWholesale,
		Cost:           p.Cost,
		Quantity:       p.Quantity,
		ImageRef:       p.ImageRef,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
