package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/backend"
	"stash/errors"
)

func registeredIDs(reg *backend.Registry) []backend.ID {
	var ids []backend.ID
	for _, d := range reg.Descriptors() {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestRegisterDefaultOrder(t *testing.T) {
	v := Install(NewHost(80, 24), backend.EMI)
	reg := backend.NewRegistry(nil)
	require.NoError(t, v.Register(reg))

	assert.Equal(t, []backend.ID{backend.JEI, backend.EMI, backend.REI}, registeredIDs(reg))
	states := reg.States()
	assert.Len(t, states, 3)
}

func TestRegisterOrderAppendsMissing(t *testing.T) {
	v := Install(NewHost(80, 24), backend.JEI, backend.REI)
	order := []backend.ID{backend.REI}
	reg := backend.NewRegistry(nil)
	require.NoError(t, v.RegisterOrder(order)(reg))

	assert.Equal(t, []backend.ID{backend.REI, backend.JEI, backend.EMI}, registeredIDs(reg))
	assert.Equal(t, []backend.ID{backend.REI}, order)
}

func TestRegisterOrderRejectsUnknown(t *testing.T) {
	v := Install(NewHost(80, 24))
	err := v.RegisterOrder([]backend.ID{"nei"})(backend.NewRegistry(nil))
	assert.True(t, errors.Is(err, errors.CodeUnknownBackend))
}
