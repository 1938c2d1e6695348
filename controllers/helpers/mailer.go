package helpers

import (
	"fmt"
	"strings"

	"slab-app/config"
	"slab-app/services"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// SendOrderMail emails the confirmed purchase order to the configured
// recipients. It is best-effort: the confirmation already committed, so a
// mail failure is logged and swallowed.
func SendOrderMail(cfg config.EngineConfig, result *services.ConfirmResult) {
	if cfg.SMTPHost == "" || len(cfg.OrderMailTo) == 0 {
		return
	}

	order := result.Order

	var body strings.Builder
	fmt.Fprintf(&body, "<p>Order <b>%s</b> confirmed.</p>", order.OrderCode)
	fmt.Fprintf(&body, "<p>Article: %s<br>Supplier: %s", order.Label(), order.Supplier)
	if order.SourceProducer != "" {
		fmt.Fprintf(&body, "<br>Producer: %s", order.SourceProducer)
	}
	fmt.Fprintf(&body, "<br>Total quantity: %d</p>", order.TotalQty)

	body.WriteString("<table border='1' cellpadding='4'><tr><th>Expected date</th><th>Quantity</th><th>Producer</th></tr>")
	for _, rec := range result.Acceptances {
		date := rec.ExpectedDate
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(&body, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>", date, rec.QtyTotal, rec.SourceProducer)
	}
	body.WriteString("</table>")

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.SMTPUser)
	msg.SetHeader("To", cfg.OrderMailTo...)
	msg.SetHeader("Subject", "Purchase order "+order.OrderCode+" - "+order.Label())
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Warn().Err(err).Str("order", order.OrderCode).Msg("Failed to send order mail")
		return
	}
	log.Info().Str("order", order.OrderCode).Strs("to", cfg.OrderMailTo).Msg("Order mail sent")
}
