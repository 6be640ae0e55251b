package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"invoiceflow/internal/config"
	"invoiceflow/internal/port"
)

// SendEmailAPI is the subset of the SES v2 client used here.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client      SendEmailAPI
	fromAddress string
	fromName    string
	recipients  []string
}

// NewSESNotifier creates a new SES-backed DuplicateNotifier.
func NewSESNotifier(cfg *config.NotifyConfig) (port.DuplicateNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewSESNotifierWithClient(sesv2.NewFromConfig(awsCfg), cfg), nil
}

// NewSESNotifierWithClient creates a DuplicateNotifier over an existing client.
func NewSESNotifierWithClient(client SendEmailAPI, cfg *config.NotifyConfig) port.DuplicateNotifier {
	return &sesNotifier{
		client:      client,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		recipients:  cfg.Recipients,
	}
}

func (s *sesNotifier) NotifyDuplicate(ctx context.Context, notice port.DuplicateNotice) error {
	if len(s.recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Duplicate invoice submitted: %s from %s", notice.InvoiceNumber, notice.VendorName)
	htmlBody := buildDuplicateHTML(notice)
	textBody := fmt.Sprintf("A duplicate invoice was submitted and was not saved.\n\nVendor: %s\nInvoice number: %s\nAmount: %s\nExisting invoice: %s\n\nInvoiceflow",
		notice.VendorName, notice.InvoiceNumber, notice.Amount, notice.ExistingInvoiceID)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: s.recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildDuplicateHTML(n port.DuplicateNotice) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Duplicate invoice submitted</h2>
  <p>An invoice matching one already on file was submitted and was not saved.</p>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Vendor</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Invoice number</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Amount</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Existing invoice</td><td>%s</td></tr>
  </table>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Invoiceflow</p>
</body>
</html>`,
		html.EscapeString(n.VendorName),
		html.EscapeString(n.InvoiceNumber),
		html.EscapeString(n.Amount),
		html.EscapeString(n.ExistingInvoiceID))
}
