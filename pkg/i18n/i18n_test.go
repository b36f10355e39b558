package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator(t *testing.T) {
	tr, err := New("es")
	require.NoError(t, err)

	assert.Equal(t, "No encontramos un pedido con ese número.", tr.T("", "order_not_found", nil))
	assert.Equal(t, "We could not find an order with that number.", tr.T("en-US,en;q=0.9", "order_not_found", nil))
	assert.Equal(t, "Missing required field: email.", tr.T("en", "missing_field", map[string]interface{}{"Field": "email"}))
	assert.Equal(t, "no_such_message", tr.T("en", "no_such_message", nil))
}
