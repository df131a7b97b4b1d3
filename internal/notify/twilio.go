package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsappPrefix = "whatsapp:"

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: withWhatsAppPrefix(from),
	}
}

func withWhatsAppPrefix(n string) string {
	if strings.HasPrefix(n, whatsappPrefix) {
		return n
	}
	return whatsappPrefix + n
}

func (t *TwilioSender) Provider() string { return ProviderTwilio }

// Send runs the REST call in its own goroutine; the client has no context
// support, so the deadline is enforced here.
func (t *TwilioSender) Send(ctx context.Context, to, msg string) (Result, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(withWhatsAppPrefix(to))
	params.SetFrom(t.from)
	params.SetBody(msg)

	type outcome struct {
		sid string
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		resp, err := t.client.Api.CreateMessage(params)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		if resp.Sid == nil {
			done <- outcome{err: errors.New("twilio: no message sid returned")}
			return
		}
		done <- outcome{sid: *resp.Sid}
	}()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case o := <-done:
		if o.err != nil {
			return Result{}, o.err
		}
		return Result{Provider: ProviderTwilio, MessageID: o.sid}, nil
	}
}
