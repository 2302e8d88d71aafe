/*
Copyright 2025 Sitefix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package sms delivers notification texts through Twilio's REST API.
package sms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sitefixhq/sitefix/config"
	"github.com/sitefixhq/sitefix/internal/request"
)

const defaultAPIBase = "https://api.twilio.com"

type TwilioSender struct {
	accountSid string
	authToken  string
	fromNumber string
	apiBase    string
}

// NewTwilioSender builds a sender from the loaded configuration. With no
// Twilio credentials configured it runs in skip-send mode: sends are logged
// and reported as delivered, which keeps development environments working
// without a Twilio account.
func NewTwilioSender() (*TwilioSender, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return &TwilioSender{
		accountSid: cnf.Twilio.AccountSid,
		authToken:  cnf.Twilio.AuthToken,
		fromNumber: cnf.Twilio.FromNumber,
		apiBase:    defaultAPIBase,
	}, nil
}

type messageResponse struct {
	Sid          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"message"`
}

// Send pushes one SMS and returns Twilio's message sid.
func (s *TwilioSender) Send(ctx context.Context, destination, text string) (string, error) {
	if s.accountSid == "" || s.authToken == "" || s.fromNumber == "" {
		logrus.WithFields(logrus.Fields{
			"to":   destination,
			"body": text,
		}).Info("skipping SMS send, Twilio not configured")
		return "", nil
	}

	form := url.Values{}
	form.Set("To", destination)
	form.Set("From", s.fromNumber)
	form.Set("Body", text)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.apiBase, s.accountSid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+request.BasicAuth(s.accountSid, s.authToken))

	var message messageResponse
	resp, err := request.CallForm(req, &message)
	if err != nil {
		return "", errors.Wrap(err, "twilio request failed")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("twilio: %d %s", resp.StatusCode, message.ErrorMessage)
	}
	return message.Sid, nil
}
