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

package model

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// Roles recognised by the lifecycle. Authentication is handled outside this
// service; callers supply an already-resolved Actor per request.
const (
	RoleGM         = "gm"
	RoleContractor = "contractor"
)

// Actor is the identity context supplied with every lifecycle call.
type Actor struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
	DisplayName    string `json:"display_name"`
}

func (a Actor) IsGM() bool {
	return a.Role == RoleGM
}

func (a Actor) IsContractor() bool {
	return a.Role == RoleContractor
}
