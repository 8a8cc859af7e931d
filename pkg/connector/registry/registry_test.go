package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/comet/pkg/config"
	"github.com/ajitpratap0/comet/pkg/connector/core"
)

type stubSource struct {
	core.Source
}

func stubFactory(cfg *config.BaseConfig) (core.Source, error) {
	return &stubSource{}, nil
}

func TestRegisterAndCreateSource(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterSource("stub", stubFactory))
	assert.True(t, r.HasSource("stub"))
	assert.Equal(t, []string{"stub"}, r.ListSources())

	src, err := r.CreateSource("stub", config.NewBaseConfig("test", "stub"))
	require.NoError(t, err)
	assert.NotNil(t, src)
}

func TestRegisterDuplicateSourceFails(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterSource("stub", stubFactory))
	assert.Error(t, r.RegisterSource("stub", stubFactory))
}

func TestCreateUnknownSourceFails(t *testing.T) {
	r := NewRegistry()

	_, err := r.CreateSource("nope", config.NewBaseConfig("test", "nope"))
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterSource("stub", stubFactory))

	r.Clear()
	assert.False(t, r.HasSource("stub"))
	assert.Empty(t, r.ListSources())
}

func TestConnectorCatalog(t *testing.T) {
	c := NewConnectorCatalog()

	info := &ConnectorInfo{Name: "stub", Type: "source", Version: "1.0.0"}
	require.NoError(t, c.Register(info))
	assert.Error(t, c.Register(info), "duplicate catalog registration")

	got, err := c.Get("stub")
	require.NoError(t, err)
	assert.Equal(t, "source", got.Type)

	_, err = c.Get("missing")
	assert.Error(t, err)

	assert.Len(t, c.List(), 1)
}
