package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Leganyst/consultation-platform/internal/config"
)

// Без дедлайна в ctx одна отправка всё равно не длится дольше.
const defaultSendTimeout = 30 * time.Second

// Mailer доставляет письма.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer отправляет письма через SMTP.
// Письмо собирает gomail, соединение открываем сами, чтобы оно подчинялось ctx.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	dialer   net.Dialer
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.SenderAddress,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultSendTimeout)
		defer cancel()
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, msg *gomail.Message) error {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}
	// Отмена ctx рвёт соединение, даже если сервер молчит.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	err = m.session(conn, msg)
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

// session повторяет то, что делает gomail.Dialer: 465 сразу по TLS, иначе STARTTLS, если сервер его предлагает.
func (m *SMTPMailer) session(conn net.Conn, msg *gomail.Message) error {
	tlsCfg := &tls.Config{ServerName: m.host}
	if m.port == 465 {
		conn = tls.Client(conn, tlsCfg)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if m.port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsCfg); err != nil {
				return err
			}
		}
	}

	if m.username != "" {
		if ok, mechs := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.username, m.password, m.host)
			if strings.Contains(mechs, "CRAM-MD5") {
				auth = smtp.CRAMMD5Auth(m.username, m.password)
			}
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
	}

	sender := gomail.SendFunc(func(from string, to []string, w io.WriterTo) error {
		if err := c.Mail(from); err != nil {
			return err
		}
		for _, rcpt := range to {
			if err := c.Rcpt(rcpt); err != nil {
				return err
			}
		}
		data, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := w.WriteTo(data); err != nil {
			data.Close()
			return err
		}
		return data.Close()
	})
	if err := gomail.Send(sender, msg); err != nil {
		return err
	}
	return c.Quit()
}
