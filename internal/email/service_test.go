package email

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/holamaria/internal/security/signedlink"
)

type captureSender struct {
	to, subject, body string
}

func (c *captureSender) Send(to, subject, htmlBody, textBody string) error {
	c.to, c.subject, c.body = to, subject, textBody
	return nil
}

func extractLink(t *testing.T, body string) *url.URL {
	t.Helper()
	i := strings.Index(body, "http://")
	if i < 0 {
		t.Fatalf("no link in body: %q", body)
	}
	raw := body[i:]
	if j := strings.IndexAny(raw, " \n"); j >= 0 {
		raw = raw[:j]
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse link %q: %v", raw, err)
	}
	return u
}

func TestSendActivation_LinkShape(t *testing.T) {
	sender := &captureSender{}
	codec := signedlink.New([]byte("secret"), 180*time.Second)
	svc := NewService(sender, codec, "http://127.0.0.1:8080")

	if err := svc.SendActivation("a@b.com", "maria"); err != nil {
		t.Fatalf("SendActivation err: %v", err)
	}
	if sender.to != "a@b.com" {
		t.Fatalf("to: got %q", sender.to)
	}
	if sender.subject != "Confirm your Account" {
		t.Fatalf("subject: got %q", sender.subject)
	}

	u := extractLink(t, sender.body)
	if u.Path != "/active/" {
		t.Fatalf("link path: got %q", u.Path)
	}
	code := u.Query().Get("code")
	if code == "" {
		t.Fatalf("link missing code: %q", u.String())
	}
	// el code firmado tiene que resolver al mismo email
	email, err := codec.Verify(code)
	if err != nil {
		t.Fatalf("signed code does not verify: %v", err)
	}
	if email != "a@b.com" {
		t.Fatalf("code email: got %q", email)
	}
}

func TestSendChangeEmail_LinkShape(t *testing.T) {
	sender := &captureSender{}
	codec := signedlink.New([]byte("secret"), 180*time.Second)
	svc := NewService(sender, codec, "http://127.0.0.1:8080")

	if err := svc.SendChangeEmail("new@b.com", "maria"); err != nil {
		t.Fatalf("SendChangeEmail err: %v", err)
	}
	if sender.subject != "Confirm Your Email Change" {
		t.Fatalf("subject: got %q", sender.subject)
	}
	u := extractLink(t, sender.body)
	if u.Path != "/verify/" {
		t.Fatalf("link path: got %q", u.Path)
	}
	if _, err := codec.Verify(u.Query().Get("code")); err != nil {
		t.Fatalf("signed code does not verify: %v", err)
	}
}
