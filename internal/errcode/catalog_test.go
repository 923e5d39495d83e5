package errcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-submit/internal/errcode"
)

func TestDefault(t *testing.T) {
	c := errcode.Default()

	msg, ok := c.Message(160)
	require.True(t, ok)
	assert.Equal(t, "El archivo XML esta vacio", msg)

	_, ok = c.Message(98)
	assert.True(t, ok)

	_, ok = c.Message(424242)
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	c, err := errcode.Parse([]byte("160: vacio\n2335: alterado\n"))
	require.NoError(t, err)
	assert.Equal(t, errcode.MapCatalog{160: "vacio", 2335: "alterado"}, c)

	c, err = errcode.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, c)

	_, err = errcode.Parse([]byte("- not\n- a map\n"))
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	c := errcode.Merge(errcode.MapCatalog{160: "base", 161: "other"}, errcode.MapCatalog{160: "override"})

	msg, ok := c.Message(160)
	require.True(t, ok)
	assert.Equal(t, "override", msg)

	msg, ok = c.Message(161)
	require.True(t, ok)
	assert.Equal(t, "other", msg)

	_, ok = errcode.Merge(nil, errcode.MapCatalog{}).Message(160)
	assert.False(t, ok)
}
