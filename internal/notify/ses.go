package notify

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	logrus "github.com/sirupsen/logrus"

	"route_scheduler/internal/config"
)

// SESEmailSender sends email through AWS SES. A bounded HTTP client keeps a
// slow provider from hanging the calling request.
type SESEmailSender struct {
	svc  *ses.SES
	from string
}

func NewSESEmailSender(app *config.App) *SESEmailSender {
	if app.AWSAccessKeyID == "" || app.SESFromAddress == "" {
		logrus.Info("SES not configured, email delivery disabled")
		return &SESEmailSender{}
	}

	creds := credentials.NewStaticCredentials(app.AWSAccessKeyID, app.AWSSecretAccessKey, "")
	cfg := aws.NewConfig().
		WithRegion(app.AWSRegion).
		WithCredentials(creds).
		WithHTTPClient(&http.Client{Timeout: 10 * time.Second})

	return &SESEmailSender{
		svc:  ses.New(session.Must(session.NewSession()), cfg),
		from: app.SESFromAddress,
	}
}

func (s *SESEmailSender) Send(to, subject, body string) bool {
	if s.svc == nil {
		return false
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{Data: aws.String(subject)},
			Body: &ses.Body{
				Text: &ses.Content{Data: aws.String(body)},
			},
		},
	}

	if _, err := s.svc.SendEmail(input); err != nil {
		logrus.WithError(err).WithField("to", to).Error("SES send failed")
		return false
	}
	return true
}
