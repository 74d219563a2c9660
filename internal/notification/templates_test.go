package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeDeliveryMessage(t *testing.T) {
	msg, err := NewCodeDeliveryMessage("buyer@example.com", CodeDelivery{
		PlanName: "Weekly <5GB>",
		Code:     "ABCD-1234",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"buyer@example.com"}, msg.To)
	assert.Equal(t, "Your Weekly <5GB> code", msg.Subject)
	assert.Contains(t, msg.TextBody, "Your code: ABCD-1234")
	assert.Contains(t, msg.HTMLBody, "<code>ABCD-1234</code>")
	assert.Contains(t, msg.HTMLBody, "Weekly &lt;5GB&gt;")
}

func TestNewStockAlertMessage(t *testing.T) {
	t.Run("LowStock", func(t *testing.T) {
		msg, err := NewStockAlertMessage([]string{"ops@example.com"}, StockAlert{
			PlanID:    "0190a0a0-0000-7000-8000-000000000001",
			PlanName:  "Weekly 5GB",
			PlanKind:  "data_code",
			Remaining: 2,
			Threshold: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "Low stock: Weekly 5GB", msg.Subject)
		assert.Contains(t, msg.TextBody, "2 code(s) left (threshold 5)")
		assert.Contains(t, msg.TextBody, "Plan ID: 0190a0a0-0000-7000-8000-000000000001")
		assert.Empty(t, msg.HTMLBody)
	})

	t.Run("Exhausted", func(t *testing.T) {
		msg, err := NewStockAlertMessage([]string{"ops@example.com"}, StockAlert{
			PlanName:  "Monthly TV",
			Remaining: 0,
			Threshold: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "Out of stock: Monthly TV", msg.Subject)
		assert.Contains(t, msg.TextBody, `Plan "Monthly TV" has run out of codes.`)
	})
}
