package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil-cause provider error", newError(KindAuth, "bad key", nil), KindAuth},
		{"wrapped provider error", fmt.Errorf("chat: %w", newError(KindRateLimit, "slow down", nil)), KindRateLimit},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := newError(KindConnection, "backend unreachable", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "backend unreachable: connection refused", err.Error())

	bare := newError(KindNotFound, "no such model", nil)
	assert.Equal(t, "no such model", bare.Error())
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindAuth, kindForStatus(401))
	assert.Equal(t, KindAuth, kindForStatus(403))
	assert.Equal(t, KindNotFound, kindForStatus(404))
	assert.Equal(t, KindRateLimit, kindForStatus(429))
	assert.Equal(t, KindBadResponse, kindForStatus(500))
}
