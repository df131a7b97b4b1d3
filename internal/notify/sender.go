// Package notify delivers WhatsApp messages. The log sender is the default and
// only writes to the process log.
package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	ProviderLog    = "log"
	ProviderTwilio = "twilio"
)

type Result struct {
	Provider  string
	MessageID string
}

type Sender interface {
	Provider() string

	// Send delivers msg to an E.164 number ("+5511...").
	Send(ctx context.Context, to, msg string) (Result, error)
}

type Config struct {
	Provider   string
	AccountSID string
	AuthToken  string
	From       string
}

// twilio só quando as três credenciais existem; senão cai no log
func (c Config) TwilioReady() bool {
	return strings.EqualFold(c.Provider, ProviderTwilio) &&
		c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

func New(cfg Config) Sender {
	if cfg.TwilioReady() {
		return NewTwilioSender(cfg.AccountSID, cfg.AuthToken, cfg.From)
	}
	if strings.EqualFold(cfg.Provider, ProviderTwilio) {
		log.Println("[notify] twilio selected but credentials incomplete, using log provider")
	}
	return NewLogSender()
}

type LogSender struct {
	now func() time.Time
}

func NewLogSender() *LogSender {
	return &LogSender{now: time.Now}
}

func (l *LogSender) Provider() string { return ProviderLog }

func (l *LogSender) Send(ctx context.Context, to, msg string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	log.Printf("[notify] whatsapp to=%s body=%q", to, msg)
	return Result{
		Provider:  ProviderLog,
		MessageID: fmt.Sprintf("log-%d", l.now().UnixMilli()),
	}, nil
}
