package storage_test

import (
	"context"
	"errors"
	"testing"

	"dat-workbench/core/storage"
	"dat-workbench/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"ValidConfig", storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Region: "us-east-1"}},
		{"EndpointWithHTTP", storage.Config{Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"}},
		{"EndpointWithHTTPS", storage.Config{Endpoint: "https://s3.amazonaws.com", AccessKey: "k", SecretKey: "s", UseSSL: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, storage.Config{}.Enabled())
	assert.True(t, storage.Config{Endpoint: "localhost:9000"}.Enabled())
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", ctx, "dats").Return(true, nil)
		assert.NoError(t, storage.EnsureBucket(ctx, c, "dats", ""))
		c.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", ctx, "dats").Return(false, nil)
		c.On("MakeBucket", ctx, "dats", mock.Anything).Return(nil)
		assert.NoError(t, storage.EnsureBucket(ctx, c, "dats", ""))
		c.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", ctx, "dats").Return(false, errors.New("offline"))
		assert.ErrorContains(t, storage.EnsureBucket(ctx, c, "dats", ""), "offline")
	})
}
