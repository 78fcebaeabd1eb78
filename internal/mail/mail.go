// Package mail delivers plain-text notifications, either through an SMTP relay
// or into a local outbox directory.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"campusconnect/internal/storage"
)

// Message is a single plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Render produces an RFC 5322 message with UTF-8 text.
func Render(from string, msg Message, now time.Time) []byte {
	var b bytes.Buffer
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = from[i+1:]
	}
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), domain)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	if !strings.HasSuffix(msg.Body, "\n") {
		b.WriteString("\r\n")
	}
	return b.Bytes()
}

// SMTPConfig describes an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender relays messages with net/smtp. STARTTLS is negotiated by
// smtp.SendMail when the server offers it.
type SMTPSender struct {
	cfg SMTPConfig
	now func() time.Time
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg, now: time.Now}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, Render(s.cfg.From, msg, s.now()))
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OutboxSender writes each message as an .eml file for local inspection.
type OutboxSender struct {
	store *storage.FileStore
	from  string
	now   func() time.Time
}

func NewOutboxSender(store *storage.FileStore, from string) *OutboxSender {
	return &OutboxSender{store: store, from: from, now: time.Now}
}

func (s *OutboxSender) Send(ctx context.Context, msg Message) error {
	now := s.now()
	key := fmt.Sprintf("%s/%s-%s.eml", now.UTC().Format("20060102"), now.UTC().Format("150405.000000000"), uuid.NewString()[:8])
	if _, err := s.store.Write(ctx, key, Render(s.from, msg, now)); err != nil {
		return fmt.Errorf("mail: outbox: %w", err)
	}
	return nil
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = (*OutboxSender)(nil)
)
