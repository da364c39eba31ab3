package ports

import "context"

// ImageStore puerto de almacenamiento de imágenes de producto.
// Put devuelve una referencia opaca que se guarda en Product.ImageRef.
type ImageStore interface {
	Put(ctx context.Context, productID string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}
