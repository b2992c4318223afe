// internal/workers/leasing/send-lease-confirmation/config.go
package sendleaseconfirmation

import (
	"time"

	"leasing-wizard/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SenderID     string
	Timeout      time.Duration
}

func LoadConfig(aws config.AWSConfig, wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		EmailEnabled: aws.SES.Enabled,
		SMSEnabled:   aws.SNS.Enabled,
		FromEmail:    aws.SES.FromEmail,
		SenderID:     aws.SNS.SenderID,
		Timeout:      timeout,
	}
}
