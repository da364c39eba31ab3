package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut {
		return nil, errors.New("access denied")
	}
	data, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3ImageStore_PutYDelete(t *testing.T) {
	fake := newFakeS3()
	store := NewS3ImageStoreWithClient(fake, "bucket", "/urbano/")
	ctx := context.Background()

	ref, err := store.Put(ctx, "p1", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "urbano/products/p1/"), ref)
	assert.Equal(t, []byte("png"), fake.objects[ref])
	assert.Equal(t, "image/png", fake.types[ref])

	require.NoError(t, store.Delete(ctx, ref))
	assert.Empty(t, fake.objects)
}

func TestS3ImageStore_ErrorDePut(t *testing.T) {
	fake := newFakeS3()
	fake.failPut = true
	store := NewS3ImageStoreWithClient(fake, "bucket", "")

	_, err := store.Put(context.Background(), "p1", []byte("x"), "image/png")
	assert.ErrorContains(t, err, "access denied")
}

func TestS3ImageStore_IgnoraDataURI(t *testing.T) {
	fake := newFakeS3()
	fake.objects["data:image/png;base64,AA=="] = []byte("no tocar")
	store := NewS3ImageStoreWithClient(fake, "bucket", "")

	require.NoError(t, store.Delete(context.Background(), "data:image/png;base64,AA=="))
	assert.Len(t, fake.objects, 1)
}

func TestDataURIStore(t *testing.T) {
	ref, err := DataURIStore{}.Put(context.Background(), "p1", []byte{0x89, 'P'}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVA=", ref)
	assert.True(t, IsDataURI(ref))
	assert.NoError(t, DataURIStore{}.Delete(context.Background(), ref))
}
