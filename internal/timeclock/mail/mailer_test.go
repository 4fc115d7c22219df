package mail_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/w1ngnutt/spf-time/internal/timeclock/mail"
	"github.com/w1ngnutt/spf-time/pkg/config"
)

func emailConfig() config.EmailConfig {
	return config.EmailConfig{
		SubjectTemplate: "Time Tracking Report - {date_range}",
		Recipients:      []string{"payroll@example.com", "hr@example.com"},
	}
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2024, 3, 18, 6, 0, 0, 0, time.UTC)
	msg := mail.BuildReport(emailConfig(), "2024-03-04 to 2024-03-17",
		"<table><tr><td>hours</td></tr></table>", "Employee,Date\n", now)

	assert.Equal(t, "Time Tracking Report - 2024-03-04 to 2024-03-17 - Generated 03/18/2024", msg.Subject)
	assert.Equal(t, "time_report_2024-03-04_to_2024-03-17.csv", msg.AttachmentName)
	assert.Equal(t, []byte("Employee,Date\n"), msg.Attachment)
	assert.Equal(t, []string{"payroll@example.com", "hr@example.com"}, msg.Recipients)

	assert.Contains(t, msg.HTMLBody, "<h2>Time Tracking Report</h2>")
	assert.Contains(t, msg.HTMLBody, "<strong>Report Period:</strong> 2024-03-04 to 2024-03-17")
	assert.Contains(t, msg.HTMLBody, "<table><tr><td>hours</td></tr></table>")
	assert.Contains(t, msg.HTMLBody, "attached CSV file")

	assert.Contains(t, msg.TextBody, "Report Period: 2024-03-04 to 2024-03-17")
	assert.NotContains(t, msg.TextBody, "<")
}

func TestBuildReport_AttachmentNameEscapesSlashes(t *testing.T) {
	now := time.Date(2024, 3, 18, 6, 0, 0, 0, time.UTC)
	msg := mail.BuildReport(emailConfig(), "03/04/2024 to 03/17/2024", "", "", now)

	assert.Equal(t, "time_report_03-04-2024_to_03-17-2024.csv", msg.AttachmentName)
	assert.NotContains(t, msg.AttachmentName, "/")
}
