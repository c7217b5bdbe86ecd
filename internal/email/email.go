// Package email delivers digests over SMTP, one topic per message.
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"dailybrief/internal/config"
	"dailybrief/internal/core"
	"dailybrief/internal/logger"
)

// topicTemplate renders a single digest section as a self-contained HTML
// email with at most one outbound link.
var topicTemplate = template.Must(template.New("topic").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #111; max-width: 700px; margin: 0 auto; padding: 20px; }
    h1 { font-size: 28px; margin-bottom: 4px; }
    .date { color: #555; font-style: italic; margin-bottom: 20px; }
    h2 { font-size: 18px; margin: 0 0 6px 0; }
    .meta { color: #666; font-size: 13px; margin-bottom: 10px; }
    a { color: #0b5fff; text-decoration: none; }
    a:hover { text-decoration: underline; }
    .footer { color: #777; font-size: 12px; margin-top: 20px; }
  </style>
</head>
<body>
  <h1>{{.PersonaTitle}} Digest</h1>
  <div class="date">{{.Date}}</div>
  <p>{{.Intro}}</p>

  <h2>Topic {{.Index}}: {{.Theme}}</h2>
  <div class="meta">{{.ArticleCount}} articles, avg score: {{printf "%.2f" .AvgScore}}</div>
  <p>{{.Summary}}</p>
{{if .TopURL}}
  <p><a href="{{.TopURL}}" target="_blank">{{.TopTitle}}</a></p>
{{end}}
  <div class="footer">
    <p><strong>Total:</strong> {{.TotalArticles}} articles across {{.TotalClusters}} topics</p>
    <p><em>Powered by DailyBrief</em></p>
  </div>
</body>
</html>
`))

type topicData struct {
	PersonaTitle  string
	Date          string
	Intro         string
	Index         int
	Theme         string
	ArticleCount  int
	AvgScore      float64
	Summary       string
	TopURL        string
	TopTitle      string
	TotalArticles int
	TotalClusters int
}

// Sender delivers digest emails using the configured SMTP account.
type Sender struct {
	cfg config.Email
}

// NewSender validates the SMTP configuration and returns a sender.
func NewSender(cfg config.Email) (*Sender, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.Username == "" || cfg.Password == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp configuration incomplete")
	}
	// App passwords are often pasted with spaces.
	cfg.Password = strings.ReplaceAll(cfg.Password, " ", "")
	return &Sender{cfg: cfg}, nil
}

func personaTitle(persona string) string {
	if strings.HasPrefix(persona, "gen") {
		return "GenAI News"
	}
	return "Product Ideas"
}

// FormatTopicEmail renders section number index (1-based) of the digest.
func FormatTopicEmail(d core.Digest, section core.DigestSection, index int) (string, error) {
	data := topicData{
		PersonaTitle:  personaTitle(d.Persona),
		Date:          d.GeneratedAt.Format("January 2, 2006"),
		Intro:         d.Intro,
		Index:         index,
		Theme:         section.Theme,
		ArticleCount:  section.ArticleCount,
		AvgScore:      section.AvgScore,
		Summary:       section.Summary,
		TotalArticles: d.TotalArticles,
		TotalClusters: d.TotalClusters,
	}
	if len(section.Articles) > 0 {
		data.TopURL = section.Articles[0].URL
		data.TopTitle = section.Articles[0].Title
		if data.TopTitle == "" {
			data.TopTitle = "Read source"
		}
	}

	var buf bytes.Buffer
	if err := topicTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render topic email: %w", err)
	}
	return buf.String(), nil
}

// TopicSubject builds the subject line for one topic email.
func TopicSubject(d core.Digest, section core.DigestSection, index int) string {
	return fmt.Sprintf("%s - Topic %d: %s (%s)",
		personaTitle(d.Persona), index, section.Theme, d.GeneratedAt.Format("Jan 2, 2006"))
}

// SendDigest emails every section of the digest to the configured
// recipient, one message per topic. The first failure aborts the run.
func (s *Sender) SendDigest(d core.Digest) error {
	if s.cfg.To == "" {
		return fmt.Errorf("no recipient configured")
	}

	for i, section := range d.Sections {
		html, err := FormatTopicEmail(d, section, i+1)
		if err != nil {
			return err
		}
		subject := TopicSubject(d, section, i+1)
		if err := s.Send(s.cfg.To, subject, html); err != nil {
			return fmt.Errorf("send topic %d: %w", i+1, err)
		}
		logger.Info("digest topic emailed", "digest_id", d.ID, "topic", i+1, "to", s.cfg.To)
	}
	return nil
}

// Send delivers one HTML message. With UseTLS the connection upgrades via
// STARTTLS, otherwise it opens an implicit-TLS session.
func (s *Sender) Send(to, subject, htmlBody string) error {
	msg := buildMessage(s.cfg.From, to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseTLS {
		return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg)
	}
	return s.sendImplicitTLS(addr, auth, to, msg)
}

func (s *Sender) sendImplicitTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
