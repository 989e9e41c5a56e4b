package utils

import (
	"context"
	"fmt"
	"scmsapi/pkg/schemas"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier tells booking owners about admin decisions.
type Notifier interface {
	BookingApproved(ctx context.Context, booking *schemas.Booking) error
	BookingRejected(ctx context.Context, booking *schemas.Booking) error
}

type SESNotifier struct {
	SESCli *ses.Client
	Sender string
}

func (n *SESNotifier) BookingApproved(ctx context.Context, booking *schemas.Booking) error {
	html := fmt.Sprintf(`
		<!DOCTYPE html>
		<html lang="en">
		<body style="font-family: sans-serif;">
			<h2>Your booking was approved</h2>
			<p>%s (%s) on %s, slots: %v.</p>
			<p>You are now a club member. Complete the payment from your dashboard to confirm the booking.</p>
		</body>
		</html>`, booking.CourtTitle, booking.CourtType, booking.Date, booking.Slots)
	return n.send(ctx, booking.UserEmail, "Booking approved", html)
}

func (n *SESNotifier) BookingRejected(ctx context.Context, booking *schemas.Booking) error {
	html := fmt.Sprintf(`
		<!DOCTYPE html>
		<html lang="en">
		<body style="font-family: sans-serif;">
			<h2>Your booking was rejected</h2>
			<p>%s (%s) on %s could not be booked. Please pick another slot.</p>
		</body>
		</html>`, booking.CourtTitle, booking.CourtType, booking.Date)
	return n.send(ctx, booking.UserEmail, "Booking rejected", html)
}

func (n *SESNotifier) send(ctx context.Context, to string, subject string, html string) error {

	emailInput := &ses.SendEmailInput{
		Source: aws.String(n.Sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(html)},
			},
		},
	}

	if _, err := n.SESCli.SendEmail(ctx, emailInput); err != nil {
		return fmt.Errorf("in send email to %s: %w", to, err)
	}
	return nil

}
