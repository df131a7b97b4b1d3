package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewResolvesProvider(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default", Config{}, ProviderLog},
		{"explicit log", Config{Provider: "log"}, ProviderLog},
		{"twilio without token", Config{Provider: "twilio", AccountSID: "AC1", From: "+1415"}, ProviderLog},
		{"twilio complete", Config{Provider: "TWILIO", AccountSID: "AC1", AuthToken: "tok", From: "+1415"}, ProviderTwilio},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, New(tc.cfg).Provider())
		})
	}
}

func TestLogSenderMessageID(t *testing.T) {
	s := NewLogSender()
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	res, err := s.Send(context.Background(), "+5511988887777", "oi")
	require.NoError(t, err)
	require.Equal(t, ProviderLog, res.Provider)
	require.Equal(t, "log-1700000000123", res.MessageID)
}

func TestLogSenderHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLogSender().Send(ctx, "+5511988887777", "oi")
	require.ErrorIs(t, err, context.Canceled)
}

func TestWhatsAppPrefix(t *testing.T) {
	require.Equal(t, "whatsapp:+5511988887777", withWhatsAppPrefix("+5511988887777"))
	require.Equal(t, "whatsapp:+14155238886", withWhatsAppPrefix("whatsapp:+14155238886"))
}
