package storage

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
)

var _ ports.ImageStore = DataURIStore{}

// DataURIStore guarda la imagen dentro de la propia referencia (data:<tipo>;base64,...).
// Se usa cuando no hay bucket configurado.
type DataURIStore struct{}

func (DataURIStore) Put(_ context.Context, _ string, data []byte, contentType string) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Delete no hace nada: la imagen vive en la fila del producto.
func (DataURIStore) Delete(context.Context, string) error { return nil }

// IsDataURI indica si la referencia contiene la imagen embebida.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}
