package mocks

import (
	"context"
	"time"

	"storectl/core/storage"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client
type Client struct {
	mock.Mock
}

func (m *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *Client) ListPage(ctx context.Context, bucket string, opts storage.ListPageOptions) (storage.ListPage, error) {
	args := m.Called(ctx, bucket, opts)
	return args.Get(0).(storage.ListPage), args.Error(1)
}

func (m *Client) StatObject(ctx context.Context, bucket, key string) (storage.ObjectMeta, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(storage.ObjectMeta), args.Error(1)
}

func (m *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	args := m.Called(ctx, bucket, key)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) (storage.ObjectMeta, error) {
	args := m.Called(ctx, bucket, key, data, contentType)
	return args.Get(0).(storage.ObjectMeta), args.Error(1)
}

func (m *Client) RemoveObject(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *Client) PresignedGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiry)
	return args.String(0), args.Error(1)
}
