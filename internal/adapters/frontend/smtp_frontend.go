package frontend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/llm-scam-shield/internal/config"
	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/mikey/llm-scam-shield/internal/whitelist"
	"go.uber.org/zap"
)

// RelayFunc delivers a processed message to the downstream MTA
type RelayFunc func(sender string, recipients []string, data []byte) error

// SMTPFrontend receives mail over SMTP, labels it with a risk verdict and relays it downstream
type SMTPFrontend struct {
	checker *core.MessageChecker
	trusted *whitelist.Checker
	cfg     config.SMTPConfig
	logger  *zap.Logger
	server  *smtp.Server
	relay   RelayFunc
}

// NewSMTPFrontend creates a new SMTP intake frontend
func NewSMTPFrontend(
	checker *core.MessageChecker,
	trusted *whitelist.Checker,
	cfg config.SMTPConfig,
	logger *zap.Logger,
) *SMTPFrontend {
	f := &SMTPFrontend{
		checker: checker,
		trusted: trusted,
		cfg:     cfg,
		logger:  logger,
	}
	f.relay = f.sendDownstream
	return f
}

// Start starts the SMTP server in the background
func (f *SMTPFrontend) Start() error {
	f.server = smtp.NewServer(&smtpBackend{frontend: f})
	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = f.cfg.Domain
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50

	f.logger.Info("SMTP frontend starting", zap.String("address", f.cfg.ListenAddress))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (f *SMTPFrontend) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// processMessage checks raw and returns the message to relay.
// A RED message is rejected with a 550 error when blocking is enabled.
func (f *SMTPFrontend) processMessage(ctx context.Context, sender string, raw []byte) ([]byte, error) {
	if f.trusted != nil && f.trusted.IsTrusted(sender) {
		f.logger.Info("Skipping analysis for trusted sender", zap.String("sender_domain", domainOf(sender)))
		return raw, nil
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	body, err := extractTextFromMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}

	text := body
	if subject != "" {
		text = subject + "\n\n" + body
	}

	result := f.checker.Check(ctx, text)

	if result.RiskTier == core.RiskRed && f.cfg.BlockRed {
		f.logger.Info("Rejecting high-risk email",
			zap.String("id", result.ID),
			zap.String("sender_domain", domainOf(sender)),
			zap.String("category", result.Category))
		return nil, &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      "Rejected as likely scam: " + result.Category,
		}
	}

	headerBlock, bodyBlock := splitMessage(raw)
	headerBlock = removeHeaders(headerBlock, f.cfg.RiskHeader, f.cfg.CategoryHeader, f.cfg.ReasonHeader)

	if result.RiskTier == core.RiskRed && f.cfg.ModifySubject && f.cfg.SubjectPrefix != "" &&
		!strings.HasPrefix(subject, f.cfg.SubjectPrefix) {
		headerBlock = removeHeaders(headerBlock, "Subject")
		headerBlock = append([]byte("Subject: "+encodeHeader(f.cfg.SubjectPrefix+subject)+"\r\n"), headerBlock...)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "%s: %s\r\n", f.cfg.RiskHeader, result.RiskTier)
	fmt.Fprintf(&out, "%s: %s\r\n", f.cfg.CategoryHeader, encodeHeader(result.Category))
	fmt.Fprintf(&out, "%s: %s\r\n", f.cfg.ReasonHeader, encodeHeader(result.Explanation))
	out.Write(headerBlock)
	out.Write(bodyBlock)

	f.logger.Info("Processed email",
		zap.String("id", result.ID),
		zap.String("sender_domain", domainOf(sender)),
		zap.String("risk_tier", string(result.RiskTier)),
		zap.String("model", result.ModelUsed))

	return out.Bytes(), nil
}

// sendDownstream relays the processed message to the configured MTA
func (f *SMTPFrontend) sendDownstream(sender string, recipients []string, data []byte) error {
	addr := net.JoinHostPort(f.cfg.RelayAddress, fmt.Sprintf("%d", f.cfg.RelayPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	accepted := 0
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient", zap.String("recipient", recipient), zap.Error(err))
			continue
		}
		accepted++
	}
	if accepted == 0 {
		return errors.New("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	frontend *SMTPFrontend
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{frontend: b.frontend}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	frontend   *SMTPFrontend
	sender     string
	recipients []string
}

func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	f := s.frontend

	raw, err := io.ReadAll(r)
	if err != nil {
		f.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	out, err := f.processMessage(context.Background(), s.sender, raw)
	if err != nil {
		var smtpErr *smtp.SMTPError
		if !errors.As(err, &smtpErr) {
			f.logger.Error("Failed to process message", zap.Error(err))
		}
		return err
	}

	if !f.cfg.RelayEnabled {
		f.logger.Warn("Relay disabled, processed message was not delivered")
		return nil
	}

	if err := f.relay(s.sender, s.recipients, out); err != nil {
		f.logger.Error("Failed to relay message", zap.Error(err))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 4, 0},
			Message:      "Downstream relay unavailable, try again later",
		}
	}
	return nil
}

func (s *smtpSession) Logout() error {
	return nil
}

// splitMessage splits raw into its header block, including the final line break, and the rest
func splitMessage(raw []byte) (header, body []byte) {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return raw[:i+2], raw[i+2:]
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return raw[:i+1], raw[i+1:]
	}
	return raw, nil
}

// removeHeaders drops every occurrence of the named fields, including folded continuation lines
func removeHeaders(header []byte, names ...string) []byte {
	lines := bytes.SplitAfter(header, []byte("\n"))
	out := make([]byte, 0, len(header))
	skipping := false
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if !skipping {
				out = append(out, line...)
			}
			continue
		}
		skipping = false
		if colon := bytes.IndexByte(line, ':'); colon > 0 {
			field := strings.TrimSpace(string(line[:colon]))
			for _, name := range names {
				if name != "" && strings.EqualFold(field, name) {
					skipping = true
					break
				}
			}
		}
		if !skipping {
			out = append(out, line...)
		}
	}
	return out
}

func domainOf(address string) string {
	if at := strings.LastIndexByte(address, '@'); at >= 0 {
		return strings.ToLower(address[at+1:])
	}
	return "unknown"
}
