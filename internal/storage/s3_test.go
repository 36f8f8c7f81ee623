package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/errors"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	failPut error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3StoreRoundTrip(t *testing.T) {
	fake := newFakeS3()
	store := newS3Store(fake, "bucket", "resumetwin")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "reports/r1.pdf", []byte("pdf"), "application/pdf"))
	assert.Contains(t, fake.objects, "bucket/resumetwin/reports/r1.pdf")
	assert.Equal(t, "application/pdf", fake.types["bucket/resumetwin/reports/r1.pdf"])

	data, err := store.Get(ctx, "reports/r1.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), data)

	ok, err := store.Exists(ctx, "reports/r1.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestS3StoreNotFound(t *testing.T) {
	store := newS3Store(newFakeS3(), "bucket", "")
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	ok, err := store.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3StorePutFailure(t *testing.T) {
	fake := newFakeS3()
	fake.failPut = stderrors.New("access denied")
	store := newS3Store(fake, "bucket", "")

	err := store.Put(context.Background(), "k", []byte("x"), "")
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeStorageFailed, appErr.Code)
}
