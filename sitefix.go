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

// Package sitefix implements the work-order lifecycle for facility
// maintenance: creation, parts procurement gating, assignment, field
// completion, review and closure. Every transition appends an audit event,
// and transitions with user-facing consequences enqueue an entry in the
// transactional notification outbox consumed by the notification worker.
package sitefix

import (
	"github.com/sitefixhq/sitefix/config"
	"github.com/sitefixhq/sitefix/database"
)

type Sitefix struct {
	datasource database.IDataSource
}

func NewSitefix(db database.IDataSource) (*Sitefix, error) {
	return &Sitefix{datasource: db}, nil
}

// taskLink builds the deep link included in notification payloads. With no
// configured base URL it degrades to a relative path.
func taskLink(workOrderID string) string {
	cnf, err := config.Fetch()
	if err != nil {
		return "/tasks/" + workOrderID
	}
	return cnf.AppBaseUrl + "/tasks/" + workOrderID
}
