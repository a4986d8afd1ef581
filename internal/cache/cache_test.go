package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/config"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "booking:occupancy:42", key(42))
}

func TestNewClient_UsesConfig(t *testing.T) {
	client := NewClient(config.RedisConfig{Addr: "cache:6380", Password: "pw", DB: 3})
	defer client.Close()

	opts := client.Options()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
}
