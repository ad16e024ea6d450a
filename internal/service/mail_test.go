package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationLink(t *testing.T) {
	link := verificationLink("https://tracker.example/auth/verify", "abc123", "a+b@c.com")
	assert.Equal(t, "https://tracker.example/auth/verify?email=a%2Bb%40c.com&verification=abc123", link)
}

func TestNewMailer(t *testing.T) {
	cfg := MailConfig{Sender: "noreply@tracker.example", VerificationURI: "http://localhost/auth/verify"}

	m, err := NewMailer("smtp", cfg)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = NewMailer("resend", cfg)
	assert.Error(t, err)

	cfg.ResendAPIKey = "re_test"
	m, err = NewMailer("resend", cfg)
	require.NoError(t, err)
	assert.IsType(t, &ResendMailer{}, m)

	m, err = NewMailer("none", cfg)
	require.NoError(t, err)
	assert.NoError(t, m.SendVerification(context.Background(), "a@b.com", "tok"))

	_, err = NewMailer("pigeon", cfg)
	assert.Error(t, err)
}

func TestMailer_RefusesSender(t *testing.T) {
	m, err := NewMailer("smtp", MailConfig{Sender: "noreply@tracker.example"})
	require.NoError(t, err)

	assert.Error(t, m.SendVerification(context.Background(), "noreply@tracker.example", "tok"))
}

func TestSMTPMailer_CanceledContextSkipsDial(t *testing.T) {
	// Port 1 on a reserved address would hang or fail if it were dialed
	m, err := NewMailer("smtp", MailConfig{Host: "192.0.2.1", Port: 1, Sender: "noreply@tracker.example"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = m.SendVerification(ctx, "a@b.com", "tok")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMXChecker_MalformedAddress(t *testing.T) {
	c := &MXChecker{}

	for _, email := range []string{"", "nobody", "@b.com", "a@"} {
		ok, err := c.Exists(context.Background(), email)
		assert.NoError(t, err)
		assert.False(t, ok, email)
	}
}
