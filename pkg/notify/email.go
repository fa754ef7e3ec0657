// Package notify delivers article digests by email.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/wneessen/go-mail"

	"github.com/umputun/regwatch/pkg/domain"
)

// EmailParams defines SMTP server and message settings
type EmailParams struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Cc       []string
	TLS      string // mandatory, opportunistic or none
	Timeout  time.Duration
	Location *time.Location // timezone for dates in the message
}

// Email sends article digests as HTML email
type Email struct {
	params EmailParams
	send   func(ctx context.Context, msg *mail.Msg) error
}

var digestTmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<html>
<body style="font-family: Arial, sans-serif;">
<h2>News Articles Report ({{.Label}})</h2>
<p>Generated at {{.Generated}}, {{len .Articles}} articles</p>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
<tr style="background-color: #f2f2f2;"><th>#</th><th>Heading</th><th>Source</th><th>Keyword</th><th>Published</th><th>Link</th></tr>
{{- range $i, $a := .Articles}}
<tr><td>{{inc $i}}</td><td>{{$a.Heading}}</td><td>{{$a.Source}}</td><td>{{$a.Keyword}}</td><td>{{$a.Published}}</td><td><a href="{{$a.Link}}">Read</a></td></tr>
{{- end}}
</table>
</body>
</html>
`))

type digestArticle struct {
	Heading, Source, Keyword, Published, Link string
}

// NewEmail makes email notifier
func NewEmail(params EmailParams) *Email {
	if params.Port == 0 {
		params.Port = 587
	}
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	if params.Location == nil {
		params.Location = time.UTC
	}
	res := &Email{params: params}
	res.send = res.dialAndSend
	return res
}

// Send delivers the articles in one message, label goes to the subject
func (e *Email) Send(ctx context.Context, articles []domain.Article, label string) error {
	if len(articles) == 0 {
		return errors.New("no articles to send")
	}
	if len(e.params.To) == 0 {
		return errors.New("no recipients")
	}

	body, err := e.render(articles, label, time.Now())
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(e.params.From); err != nil {
		return fmt.Errorf("set from %q: %w", e.params.From, err)
	}
	if err := msg.To(e.params.To...); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	if len(e.params.Cc) > 0 {
		if err := msg.Cc(e.params.Cc...); err != nil {
			return fmt.Errorf("set cc: %w", err)
		}
	}
	msg.Subject(Subject(label, len(articles)))
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := e.send(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	lgr.Printf("[INFO] sent %q email with %d articles to %s", label, len(articles), strings.Join(e.params.To, ", "))
	return nil
}

// Subject makes digest subject line
func Subject(label string, count int) string {
	return fmt.Sprintf("News Articles Report (%s) - %d Articles", label, count)
}

// render makes HTML body, dates shown in the configured timezone
func (e *Email) render(articles []domain.Article, label string, now time.Time) (string, error) {
	data := struct {
		Label     string
		Generated string
		Articles  []digestArticle
	}{
		Label:     label,
		Generated: now.In(e.params.Location).Format("2006-01-02 15:04:05 MST"),
		Articles:  make([]digestArticle, 0, len(articles)),
	}
	for _, a := range articles {
		published := "N/A"
		if a.PublishedDate != nil {
			published = a.PublishedDate.In(e.params.Location).Format("2006-01-02 15:04")
		}
		data.Articles = append(data.Articles, digestArticle{
			Heading: a.Heading, Source: a.Source, Keyword: a.Keyword, Published: published, Link: a.Link,
		})
	}

	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// dialAndSend delivers message via SMTP server
func (e *Email) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(e.params.Port),
		mail.WithTimeout(e.params.Timeout),
		mail.WithTLSPolicy(tlsPolicy(e.params.TLS)),
	}
	if e.params.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(e.params.Username),
			mail.WithPassword(e.params.Password),
		)
	}

	client, err := mail.NewClient(e.params.Host, opts...)
	if err != nil {
		return fmt.Errorf("make smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func tlsPolicy(s string) mail.TLSPolicy {
	switch strings.ToLower(s) {
	case "none":
		return mail.NoTLS
	case "opportunistic":
		return mail.TLSOpportunistic
	default:
		return mail.TLSMandatory
	}
}
