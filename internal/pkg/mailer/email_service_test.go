package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1500000, "1,500,000"},
		{-25000, "-25,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in))
	}
}

func TestReceiptBody_EscapesInput(t *testing.T) {
	body := receiptBody(Receipt{
		OrderID:  "HOWDY-1",
		Username: "<script>x</script>",
		Item:     "Pay Bill",
		Amount:   1500000,
	}, "http://localhost:5173")

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "1,500,000")
	assert.Contains(t, body, "Pay Bill")
}
