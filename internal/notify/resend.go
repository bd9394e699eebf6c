package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends email confirmations via Resend API
type ResendNotifier struct {
	client      *resend.Client
	fromAddress string
}

// NewResendNotifier creates a new Resend email notifier
func NewResendNotifier(apiKey, from string) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
	}
}

// IsConfigured returns true if the notifier has server-side config
func (r *ResendNotifier) IsConfigured() bool {
	return r.client != nil && r.fromAddress != ""
}

// Name returns the notifier name
func (r *ResendNotifier) Name() string {
	return "resend"
}

// Send sends an email confirmation for an applied mutation
func (r *ResendNotifier) Send(ctx context.Context, mutation *Mutation, recipient string) error {
	if recipient == "" {
		return fmt.Errorf("no recipient specified")
	}

	subject := fmt.Sprintf("%s: %s", subjectPrefix(mutation.Action), mutation.EventSummary)
	html := r.formatEmailHTML(mutation)

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{recipient},
		Subject: subject,
		Html:    html,
	}

	_, err := r.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	fmt.Printf("Email confirmation sent to %s for event: %s\n", recipient, mutation.EventSummary)
	return nil
}

func subjectPrefix(action string) string {
	switch action {
	case "update":
		return "Event Updated"
	case "delete":
		return "Event Deleted"
	default:
		return "Event Created"
	}
}

// formatEmailHTML creates the HTML email body
func (r *ResendNotifier) formatEmailHTML(mutation *Mutation) string {
	startTimeStr := ""
	if !mutation.StartTime.IsZero() {
		startTimeStr = mutation.StartTime.Format("Monday, January 2, 2006 at 3:04 PM")
	}

	endTimeStr := ""
	if mutation.EndTime != nil {
		// If same day, just show the time
		if mutation.StartTime.Format("2006-01-02") == mutation.EndTime.Format("2006-01-02") {
			endTimeStr = fmt.Sprintf(" - %s", mutation.EndTime.Format("3:04 PM"))
		} else {
			endTimeStr = fmt.Sprintf(" - %s", mutation.EndTime.Format("Monday, January 2, 2006 at 3:04 PM"))
		}
	}

	dateHTML := ""
	if startTimeStr != "" {
		dateHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><strong>Date:</strong> %s%s</p>`, startTimeStr, endTimeStr)
	}

	locationHTML := ""
	if mutation.Location != "" {
		locationHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><strong>Location:</strong> %s</p>`, mutation.Location)
	}

	descriptionHTML := ""
	if mutation.Description != "" {
		descriptionHTML = fmt.Sprintf(`<p style="margin: 16px 0;">%s</p>`, mutation.Description)
	}

	reasoningHTML := ""
	if mutation.Reasoning != "" {
		reasoningHTML = fmt.Sprintf(`<p style="margin: 16px 0; color: #666; font-style: italic;">%s</p>`, mutation.Reasoning)
	}

	badge := "Created"
	badgeColor := "#28a745"
	switch mutation.Action {
	case "update":
		badge = "Updated"
		badgeColor = "#ffc107"
	case "delete":
		badge = "Deleted"
		badgeColor = "#dc3545"
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
  <div style="background-color: white; border-radius: 8px; padding: 24px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <div style="margin-bottom: 16px;">
      <span style="background-color: %s; color: white; padding: 4px 12px; border-radius: 4px; font-size: 12px; font-weight: 600;">%s</span>
    </div>

    <h2 style="margin: 0 0 16px 0; color: #333;">%s</h2>

    <div style="background: #f8f9fa; padding: 16px; border-radius: 8px; margin: 16px 0; border-left: 4px solid #007bff;">
      %s
      %s
    </div>

    %s
    %s

    <hr style="margin-top: 32px; border: none; border-top: 1px solid #eee;">
    <p style="color: #999; font-size: 12px; margin-top: 16px;">
      Calassist - Calendar Assistant<br>
      <span style="color: #ccc;">Sent at %s</span>
    </p>
  </div>
</body>
</html>`,
		badgeColor,
		badge,
		mutation.EventSummary,
		dateHTML,
		locationHTML,
		descriptionHTML,
		reasoningHTML,
		time.Now().Format("Jan 2, 2006 3:04 PM"),
	)
}
