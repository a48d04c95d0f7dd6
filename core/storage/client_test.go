package storage_test

import (
	"context"
	"testing"

	"storectl/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Region:    "us-east-1",
			PathStyle: true,
		}

		client, err := storage.NewClient(context.Background(), cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithScheme", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.example.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(context.Background(), cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EmptyEndpointUsesDefault", func(t *testing.T) {
		// No endpoint means the stock AWS endpoint resolution applies.
		cfg := storage.Config{
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "eu-west-1",
		}

		client, err := storage.NewClient(context.Background(), cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}
