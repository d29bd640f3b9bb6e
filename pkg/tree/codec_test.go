package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	f := filterFixture(t)

	data, err := ExportCBOR(f)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	back, err := ImportCBOR(data)
	require.NoError(t, err)

	assert.Equal(t, f.Len(), back.Len())
	assert.Equal(t, f.RootIDs(), back.RootIDs())
	assert.NoError(t, back.Verify())

	dev, ok := back.Node("dev1")
	require.True(t, ok)
	assert.Equal(t, "Feed Pump", dev.Name)
	assert.Equal(t, AreaNodeID("L1", "A1"), dev.ParentID)
}

func TestExportDeterministic(t *testing.T) {
	f := filterFixture(t)

	a, err := ExportCBOR(f)
	require.NoError(t, err)
	b, err := ExportCBOR(f)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestImportRejectsGarbage(t *testing.T) {
	_, err := ImportCBOR([]byte{0xff, 0x00, 0x01})
	assert.Error(t, err)
}

func TestImportEmpty(t *testing.T) {
	data, err := ExportCBOR(New())
	require.NoError(t, err)

	f, err := ImportCBOR(data)
	require.NoError(t, err)
	assert.Zero(t, f.Len())
}
