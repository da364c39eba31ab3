package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/pkg/config"
)

var _ ports.ImageStore = (*S3ImageStore)(nil)

// ObjectAPI subconjunto del cliente S3 que usa el almacén.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore guarda imágenes de producto en S3 o compatibles (MinIO, R2).
// La referencia devuelta es la key del objeto.
type S3ImageStore struct {
	client ObjectAPI
	bucket string
	prefix string
}

// NewS3ImageStore construye el cliente a partir de la configuración.
func NewS3ImageStore(ctx context.Context, cfg config.S3Config) (*S3ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage/s3: S3_BUCKET is not configured")
	}

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	// Credenciales estáticas (MinIO / R2); sin ellas se usa la cadena por defecto de AWS.
	if cfg.Key != "" && cfg.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
		))
	}
	awsConfig, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage/s3: load config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return NewS3ImageStoreWithClient(s3.NewFromConfig(awsConfig, clientOpts...), cfg.Bucket, cfg.Prefix), nil
}

// NewS3ImageStoreWithClient permite inyectar el cliente.
func NewS3ImageStoreWithClient(client ObjectAPI, bucket, prefix string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Put sube la imagen bajo <prefix>/products/<productID>/<uuid>.
func (s *S3ImageStore) Put(ctx context.Context, productID string, data []byte, contentType string) (string, error) {
	key := path.Join(s.prefix, "products", productID, uuid.NewString())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage/s3: put %s: %w", key, err)
	}
	return key, nil
}

// Delete borra el objeto. Referencias que no son keys de este almacén se ignoran.
func (s *S3ImageStore) Delete(ctx context.Context, ref string) error {
	if ref == "" || IsDataURI(ref) {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("storage/s3: delete %s: %w", ref, err)
	}
	return nil
}
