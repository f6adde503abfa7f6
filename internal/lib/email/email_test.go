package email

import (
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func newTestClient(s sender) *Client {
	logger := zerolog.Nop()
	return &Client{emails: s, from: "Memwarzz <hello@memwarzz.app>", logger: &logger}
}

func TestPreviewData_RendersEveryTemplate(t *testing.T) {
	for _, name := range []Template{TemplateWelcome, TemplateSponsorOutbid, TemplateBattleResult} {
		t.Run(string(name), func(t *testing.T) {
			data, ok := PreviewData[name]
			require.True(t, ok)

			html, err := Render(name, data)
			require.NoError(t, err)
			for _, v := range data {
				assert.Contains(t, html, v)
			}
		})
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}

func TestRender_EscapesHTML(t *testing.T) {
	html, err := Render(TemplateWelcome, map[string]string{"Username": "<script>", "Handle": "x"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestSendWelcomeEmail(t *testing.T) {
	s := &fakeSender{}
	c := newTestClient(s)

	require.NoError(t, c.SendWelcomeEmail("pepe@example.com", "Pepe", "pepe"))
	require.Len(t, s.sent, 1)
	assert.Equal(t, []string{"pepe@example.com"}, s.sent[0].To)
	assert.Equal(t, "Memwarzz <hello@memwarzz.app>", s.sent[0].From)
	assert.Equal(t, "Welcome to Memwarzz!", s.sent[0].Subject)
	assert.Contains(t, s.sent[0].Html, "@pepe")
}

func TestSendSponsorOutbidEmail_ProviderError(t *testing.T) {
	c := newTestClient(&fakeSender{err: errors.New("rate limited")})

	err := c.SendSponsorOutbidEmail("ops@doge.example", "Doge Labs", "Wojak Inc", "$10.00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
