package services

import (
	"catalogo_server/structs"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

// EmailService sends staff notifications through Resend. Disabled or
// unconfigured, it logs and sends nothing.
type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	es := &EmailService{
		logger: logger,
		cfg:    cfg,
	}
	if cfg.Email.Enabled && cfg.Email.ApiKey != "" {
		es.client = resend.NewClient(cfg.Email.ApiKey)
	}
	return es
}

func (es *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	if es.client == nil || len(to) == 0 {
		es.logger.Debug("Email sending disabled, skipping", gecho.Field("subject", subject))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	if _, err := es.client.Emails.Send(params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// NotifyShipmentReceived tells staff that a shipment arrived and what was in it
func (es *EmailService) NotifyShipmentReceived(ctx context.Context, shipment ShipmentView) error {
	subject := fmt.Sprintf("Shipment received: %d units", shipment.TotalUnits)
	return es.SendEmail(ctx, es.cfg.Email.NotifyTo, subject, shipmentReceivedBody(shipment))
}

func shipmentReceivedBody(shipment ShipmentView) string {
	var items strings.Builder
	for _, line := range shipment.Items {
		name := html.EscapeString(line.ProductName)
		if line.ProductRemoved {
			name = "<em>" + name + "</em>"
		}
		fmt.Fprintf(&items, "<li>%dx %s</li>", line.Quantity, name)
	}

	description := ""
	if shipment.Description != "" {
		description = "<p>" + html.EscapeString(shipment.Description) + "</p>"
	}

	return fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #4CAF50; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				ul { list-style-type: none; padding: 0; }
				li { padding: 5px 0; border-bottom: 1px solid #eee; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>Shipment received</h1>
				</div>
				<div class="content">
					<p>Shipment <strong>%s</strong>, dispatched %s, was marked as received.</p>
					%s
					<h4>%d lines, %d units</h4>
					<ul>%s</ul>
				</div>
			</div>
		</body>
		</html>`,
		shipment.ID.String(),
		shipment.CreatedAt.Format("2006-01-02"),
		description,
		shipment.ItemCount,
		shipment.TotalUnits,
		items.String(),
	)
}
