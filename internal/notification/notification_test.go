package notification

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/sitefixhq/sitefix/config"
)

func TestSlackNotification(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	called := false
	httpmock.RegisterResponder("POST", "https://hooks.slack.com/services/test",
		func(req *http.Request) (*http.Response, error) {
			called = true
			return httpmock.NewStringResponse(200, `{"ok":true}`), nil
		})

	config.MockConfig(&config.Configuration{
		Notification: config.Notification{
			Slack: config.SlackWebhook{WebhookUrl: "https://hooks.slack.com/services/test"},
		},
	})

	SlackNotification(errors.New("database unreachable"))
	assert.True(t, called)
}

func TestSlackNotificationNoWebhook(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{})

	SlackNotification(errors.New("database unreachable"))
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}
