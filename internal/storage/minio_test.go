package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMinioClient struct {
	mock.Mock
}

func (m *MockMinioClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinioClient) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockMinioClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockMinioClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expires, reqParams)
	u, _ := args.Get(0).(*url.URL)
	return u, args.Error(1)
}

func (m *MockMinioClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Error(0)
}

func TestMinioImageStore_Upload(t *testing.T) {
	ctx := context.Background()
	client := new(MockMinioClient)
	store := NewMinioImageStoreWithClient(client, "product-images")

	body := bytes.NewReader([]byte("jpeg bytes"))
	signed, _ := url.Parse("https://s3.example/product-images/u1/a.jpg?X-Amz-Signature=abc")

	client.On("PutObject", ctx, "product-images", "u1/a.jpg", body, int64(10),
		minio.PutObjectOptions{ContentType: "image/jpeg"}).Return(minio.UploadInfo{Key: "u1/a.jpg"}, nil)
	client.On("PresignedGetObject", ctx, "product-images", "u1/a.jpg", PresignExpiry, url.Values{}).Return(signed, nil)

	got, err := store.Upload(ctx, "u1/a.jpg", body, 10, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, signed.String(), got)
	client.AssertExpectations(t)
}

func TestMinioImageStore_UploadFailureSkipsPresign(t *testing.T) {
	ctx := context.Background()
	client := new(MockMinioClient)
	store := NewMinioImageStoreWithClient(client, "b")

	client.On("PutObject", ctx, "b", "k.png", mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	_, err := store.Upload(ctx, "k.png", bytes.NewReader([]byte("abc")), 3, "")

	assert.ErrorContains(t, err, "connection refused")
	client.AssertNotCalled(t, "PresignedGetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMinioImageStore_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing bucket", func(t *testing.T) {
		client := new(MockMinioClient)
		client.On("BucketExists", ctx, "b").Return(false, nil)
		client.On("MakeBucket", ctx, "b", minio.MakeBucketOptions{}).Return(nil)

		require.NoError(t, NewMinioImageStoreWithClient(client, "b").EnsureBucket(ctx))
		client.AssertExpectations(t)
	})

	t.Run("keeps existing bucket", func(t *testing.T) {
		client := new(MockMinioClient)
		client.On("BucketExists", ctx, "b").Return(true, nil)

		require.NoError(t, NewMinioImageStoreWithClient(client, "b").EnsureBucket(ctx))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMinioImageStore_Delete(t *testing.T) {
	ctx := context.Background()
	client := new(MockMinioClient)
	client.On("RemoveObject", ctx, "b", "u1/x.webp", minio.RemoveObjectOptions{}).Return(nil)

	require.NoError(t, NewMinioImageStoreWithClient(client, "b").Delete(ctx, "u1/x.webp"))
	client.AssertExpectations(t)
}

func TestImageKey(t *testing.T) {
	pattern := regexp.MustCompile(`^user-7/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.jpg$`)

	first := ImageKey("user-7", "Birkin Front.JPG")
	second := ImageKey("user-7", "Birkin Front.JPG")

	assert.Regexp(t, pattern, first)
	assert.NotEqual(t, first, second)
}

func TestInMemoryImageStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryImageStore("http://localhost:8080/images")

	got, err := store.Upload(ctx, "u1/a.png", bytes.NewReader([]byte("png")), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/images/u1/a.png", got)

	data, contentType, ok := store.Object("u1/a.png")
	require.True(t, ok)
	assert.Equal(t, []byte("png"), data)
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, store.Delete(ctx, "u1/a.png"))
	assert.ErrorIs(t, store.Delete(ctx, "u1/a.png"), ErrObjectNotFound)
}

func TestKeyFromURL(t *testing.T) {
	key := ImageKey("user-7", "front.png")
	tests := []struct {
		name   string
		userID string
		url    string
		want   string
		ok     bool
	}{
		{"local store", "user-7", "http://localhost:8080/images/" + key, key, true},
		{"presigned path style", "user-7", "https://s3.example/originals/" + key + "?X-Amz-Signature=abc", key, true},
		{"other owner", "user-8", "http://localhost:8080/images/" + key, "", false},
		{"foreign url", "user-7", "https://img.example/sub.jpg", "", false},
		{"not a generated name", "user-7", "https://img.example/user-7/sub.jpg", "", false},
		{"empty", "user-7", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyFromURL(tt.userID, tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
