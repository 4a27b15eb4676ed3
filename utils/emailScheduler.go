package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[EMAIL-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartEmailRetryScheduler periodically re-attempts certificate deliveries
// that were requested but never confirmed sent (SMTP outages, restarts
// mid-dispatch). Issuance itself never waits on this.
func StartEmailRetryScheduler() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@every 15m", func() {
		logScheduler("Retrying pending certificate emails")
		RetryPendingEmails(50)
	})
	if err != nil {
		logScheduler("Failed to register email retry job: " + err.Error())
		return c
	}

	c.Start()
	logScheduler("Email retry scheduler started")
	return c
}
