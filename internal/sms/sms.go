// Package sms sends text notifications through Twilio.
package sms

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers an SMS to a phone number.
type Sender interface {
	Send(to, body string) error
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender builds a Twilio-backed sender.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

// Send delivers the message. The destination must already be in E.164 form.
func (s *TwilioSender) Send(to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if msg.Sid != nil {
		log.Printf("SMS sent to %s (sid: %s)", to, *msg.Sid)
	}
	return nil
}

// NopSender discards messages. Used when Twilio is not configured.
type NopSender struct{}

// Send discards the message.
func (NopSender) Send(to, body string) error { return nil }

var indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)

// NormalizeE164 converts a stored phone number to E.164. Ten-digit Indian
// mobile numbers get the +91 country code; numbers already carrying a +
// pass through. Returns an error for anything else.
func NormalizeE164(phone string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	if cleaned == "" {
		return "", fmt.Errorf("phone number is empty")
	}
	if strings.HasPrefix(cleaned, "+") {
		return cleaned, nil
	}
	if strings.HasPrefix(cleaned, "91") && len(cleaned) == 12 && indianMobile.MatchString(cleaned[2:]) {
		return "+" + cleaned, nil
	}
	if indianMobile.MatchString(cleaned) {
		return "+91" + cleaned, nil
	}
	return "", fmt.Errorf("unrecognized phone number format")
}

// ValidIndianMobile reports whether the number is a bare ten-digit Indian
// mobile number, the format profile updates accept.
func ValidIndianMobile(phone string) bool {
	return indianMobile.MatchString(strings.TrimSpace(phone))
}
