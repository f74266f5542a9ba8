package notify

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	logrus "github.com/sirupsen/logrus"

	"route_scheduler/internal/config"
)

// SNSSMSSender sends SMS through AWS SNS.
type SNSSMSSender struct {
	svc *sns.SNS
}

func NewSNSSMSSender(app *config.App) *SNSSMSSender {
	if app.AWSAccessKeyID == "" {
		logrus.Info("SNS not configured, SMS delivery disabled")
		return &SNSSMSSender{}
	}

	creds := credentials.NewStaticCredentials(app.AWSAccessKeyID, app.AWSSecretAccessKey, "")
	cfg := aws.NewConfig().
		WithRegion(app.AWSRegion).
		WithCredentials(creds).
		WithHTTPClient(&http.Client{Timeout: 10 * time.Second})

	return &SNSSMSSender{
		svc: sns.New(session.Must(session.NewSession()), cfg),
	}
}

func (s *SNSSMSSender) Send(to, body string) bool {
	if s.svc == nil {
		return false
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(body),
	}

	if _, err := s.svc.Publish(input); err != nil {
		logrus.WithError(err).WithField("to", to).Error("SNS publish failed")
		return false
	}
	return true
}
