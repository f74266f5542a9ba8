package notify

import (
	logrus "github.com/sirupsen/logrus"
)

// EmailSender delivers a single email. Implementations report delivery as a
// boolean; they never return errors because callers treat delivery as
// best-effort.
type EmailSender interface {
	Send(to, subject, body string) bool
}

// SMSSender delivers a single SMS.
type SMSSender interface {
	Send(to, body string) bool
}

// DeliveryResult reports per-channel delivery. The channels are independent;
// one failing never affects the other.
type DeliveryResult struct {
	EmailDelivered bool `json:"email_delivered"`
	SMSDelivered   bool `json:"sms_delivered"`
}

func (r DeliveryResult) Any() bool {
	return r.EmailDelivered || r.SMSDelivered
}

// Dispatcher fans a message out to whichever channels the recipient has.
// Either sender may be nil (channel not configured).
type Dispatcher struct {
	email EmailSender
	sms   SMSSender
}

func NewDispatcher(email EmailSender, sms SMSSender) *Dispatcher {
	return &Dispatcher{email: email, sms: sms}
}

// Send delivers body to the given email address and/or phone number,
// skipping empty recipients. Failures are logged and reflected in the
// result, never propagated.
func (d *Dispatcher) Send(email, phone, subject, body string) DeliveryResult {
	var res DeliveryResult

	if email != "" && d.email != nil {
		res.EmailDelivered = d.email.Send(email, subject, body)
		if !res.EmailDelivered {
			logrus.WithField("to", email).Warn("email delivery failed")
		}
	}

	if phone != "" && d.sms != nil {
		res.SMSDelivered = d.sms.Send(phone, body)
		if !res.SMSDelivered {
			logrus.WithField("to", phone).Warn("sms delivery failed")
		}
	}

	return res
}
