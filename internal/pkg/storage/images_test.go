package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
)

func TestURLResolver(t *testing.T) {
	r := NewURLResolver("https://cdn.example.com/")
	ctx := context.Background()

	got, err := r.ResolveURL(ctx, "products/mug-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/mug-1.jpg", got)

	got, err = r.ResolveURL(ctx, "https://images.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/a.jpg", got)

	got, err = NewURLResolver("").ResolveURL(ctx, "products/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "products/a.jpg", got)
}

func TestS3ResolverPresigns(t *testing.T) {
	awsCfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}
	r := newS3Resolver(awsCfg, "storefront-images", 15*time.Minute)

	got, err := r.ResolveURL(context.Background(), "/products/mug-1.jpg")
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Contains(t, u.Host, "storefront-images")
	assert.Equal(t, "/products/mug-1.jpg", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	passthrough, err := r.ResolveURL(context.Background(), "https://example.com/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x.jpg", passthrough)
}

func TestNewImageResolver(t *testing.T) {
	cfg := &config.Config{}
	r, err := NewImageResolver(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &URLResolver{}, r)

	cfg.External.Storage.Provider = "ftp"
	_, err = NewImageResolver(context.Background(), cfg)
	assert.Error(t, err)
}
