// Package mailer отправляет артефакты отчётов по SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/shaiso/Reporta/internal/domain"
	"github.com/shaiso/Reporta/internal/render"
)

// Mailer — SMTP-отправитель отчётов.
type Mailer struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// Config — конфигурация Mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	Logger *slog.Logger
}

// New создаёт новый Mailer.
func New(cfg Config) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Mailer{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

// SendReport отправляет артефакт отчёта одному получателю.
//
// Письмо — HTML с вложением occurrence_report_<дата>.<ext>.
// Ошибка транспорта возвращается вызывающему как есть: политику
// повторов и прерывания рассылки решает orchestrator.
func (m *Mailer) SendReport(ctx context.Context, recipient string, artifact []byte, format domain.ReportFormat, generatedAt time.Time) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from %q: %w", m.from, err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("set recipient %q: %w", recipient, err)
	}

	dateStr := generatedAt.Format("2006-01-02")
	timeStr := generatedAt.Format("15:04")

	msg.Subject(fmt.Sprintf("Occurrence Report - %s", dateStr))
	msg.SetBodyString(mail.TypeTextHTML, reportBody(format, dateStr, timeStr))

	fileName := render.FileName(format, generatedAt)
	if err := msg.AttachReader(fileName, bytes.NewReader(artifact),
		mail.WithFileContentType(mail.ContentType(render.ContentType(format))),
	); err != nil {
		return fmt.Errorf("attach %s: %w", fileName, err)
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send report to %s: %w", recipient, err)
	}

	m.logger.Info("report email sent",
		"recipient", recipient,
		"format", format,
		"attachment", fileName,
	)
	return nil
}

// reportBody строит HTML тела письма.
func reportBody(format domain.ReportFormat, dateStr, timeStr string) string {
	formatLabel := "CSV"
	if format == domain.FormatExcel {
		formatLabel = "Excel (.xlsx)"
	}

	return fmt.Sprintf(`<h2>Occurrence Report</h2>
<p>Hello,</p>
<p>Attached is the occurrence report generated on <strong>%s</strong> at <strong>%s</strong>.</p>
<p>The file is in <strong>%s</strong> format and can be opened in Microsoft Excel, Google Sheets or LibreOffice.</p>
<br>
<p>Best regards,</p>
<p><strong>Automated Reporting System</strong></p>`,
		dateStr, timeStr, formatLabel)
}
