package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_KnownVector(t *testing.T) {
	// HMAC-SHA256("order_1|pay_1", key="s3cr3t") в hex
	got := Compute("s3cr3t", "order_1", "pay_1")
	assert.Equal(t, "c4ba7785e595b717abd8b4847eaf30e97f23acbdbe1b8f5cbbf17d28d63b068f", got)
}

func TestVerify(t *testing.T) {
	const secret = "s3cr3t"
	valid := Compute(secret, "order_1", "pay_1")

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{
			name:      "valid signature",
			orderID:   "order_1",
			paymentID: "pay_1",
			signature: valid,
			want:      true,
		},
		{
			name:      "signature for a different payment id",
			orderID:   "order_1",
			paymentID: "pay_2",
			signature: valid,
			want:      false,
		},
		{
			name:      "signature for a different order id",
			orderID:   "order_2",
			paymentID: "pay_1",
			signature: valid,
			want:      false,
		},
		{
			name:      "empty signature",
			orderID:   "order_1",
			paymentID: "pay_1",
			signature: "",
			want:      false,
		},
		{
			name:      "truncated signature",
			orderID:   "order_1",
			paymentID: "pay_1",
			signature: valid[:len(valid)-2],
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(secret, tt.orderID, tt.paymentID, tt.signature))
		})
	}
}

func TestVerify_AnySingleBitFlipRejected(t *testing.T) {
	const secret = "s3cr3t"
	valid := Compute(secret, "order_1", "pay_1")
	require.Len(t, valid, 64)

	for i := range valid {
		flipped := []byte(valid)
		flipped[i] ^= 0x01
		assert.False(t, Verify(secret, "order_1", "pay_1", string(flipped)),
			"flipped byte %d must be rejected", i)
	}
}

func TestVerify_DifferentSecrets(t *testing.T) {
	sig := Compute("s3cr3t", "order_1", "pay_1")
	assert.False(t, Verify("another-secret", "order_1", "pay_1", sig))
}

func TestCompute_SeparatorIsNotAmbiguous(t *testing.T) {
	// Пара ("a|b", "c") и пара ("a", "b|c") дают одну строку-сообщение:
	// это свойство формата шлюза, подпись обязана совпасть.
	assert.Equal(t,
		Compute("s3cr3t", "a|b", "c"),
		Compute("s3cr3t", "a", "b|c"))
}
