package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepiq/prepiq-service/internal/config"
)

func TestNewRedisClientRejectsMalformedURL(t *testing.T) {
	client, err := NewRedisClient(&config.Config{RedisURL: "localhost:6379"})
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "invalid redis URL")
}
