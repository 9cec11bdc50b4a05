package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/chatwork"
	"github.com/nerufirm/appneruf/internal/config"
	"github.com/nerufirm/appneruf/internal/repository"
	"github.com/nerufirm/appneruf/internal/service"
)

func TestSeedDemo_RosterResolvesHalfWidthSpacing(t *testing.T) {
	mem := repository.NewMemoryStore()
	seedDemo(mem)

	names := service.NewNameMapResolver(mem, nil, 0, zap.NewNop())
	m, err := names.Resolve(context.Background())
	require.NoError(t, err)

	id, ok := m.Lookup(chatwork.NormalizeName("山田　太郎"))
	require.True(t, ok)
	assert.Equal(t, "R001", id)
}

func TestBuildRepositories_MemoryWhenNoDB(t *testing.T) {
	cfg := &config.Config{SeedDemo: true}
	repos := buildRepositories(nil, cfg, zap.NewNop())

	staff, err := repos.staff.ListStaff(context.Background())
	require.NoError(t, err)
	assert.Len(t, staff, 2)

	cfg.SeedDemo = false
	repos = buildRepositories(nil, cfg, zap.NewNop())
	staff, err = repos.staff.ListStaff(context.Background())
	require.NoError(t, err)
	assert.Empty(t, staff)
}
