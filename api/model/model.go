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
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sitefixhq/sitefix/model"
)

// CreateWorkOrder is the request body for opening a work order.
type CreateWorkOrder struct {
	SiteID      string     `json:"site_id"`
	LocationID  string     `json:"location_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
}

func (w *CreateWorkOrder) ValidateCreateWorkOrder() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.SiteID, validation.Required),
		validation.Field(&w.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&w.Priority, validation.In(model.PriorityEmergency, model.PriorityHigh, model.PriorityNormal, model.PriorityLow)),
	)
}

func (w *CreateWorkOrder) ToWorkOrder() *model.WorkOrder {
	return &model.WorkOrder{
		SiteID:      w.SiteID,
		LocationID:  w.LocationID,
		Title:       w.Title,
		Description: w.Description,
		Priority:    w.Priority,
		DueAt:       w.DueAt,
	}
}

// UpdateWorkOrder is the request body for patching a work order. Absent
// fields are left untouched.
type UpdateWorkOrder struct {
	Priority     *string    `json:"priority"`
	Status       *string    `json:"status"`
	OnHoldReason *string    `json:"on_hold_reason"`
	OnHoldNotes  *string    `json:"on_hold_notes"`
	DueAt        *time.Time `json:"due_at"`
}

func (w *UpdateWorkOrder) ValidateUpdateWorkOrder() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Priority, validation.NilOrNotEmpty),
		validation.Field(&w.Status, validation.NilOrNotEmpty),
	)
}

func (w *UpdateWorkOrder) ToPatch() model.WorkOrderPatch {
	return model.WorkOrderPatch{
		Priority:     w.Priority,
		Status:       w.Status,
		OnHoldReason: w.OnHoldReason,
		OnHoldNotes:  w.OnHoldNotes,
		DueAt:        w.DueAt,
	}
}

// CreatePart is the request body for attaching a part.
type CreatePart struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	IsRequired *bool  `json:"is_required"`
}

func (p *CreatePart) ValidateCreatePart() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Quantity, validation.Min(0)),
	)
}

func (p *CreatePart) ToPart() *model.Part {
	quantity := p.Quantity
	if quantity == 0 {
		quantity = 1
	}
	required := true
	if p.IsRequired != nil {
		required = *p.IsRequired
	}
	return &model.Part{
		Name:       p.Name,
		Quantity:   quantity,
		IsRequired: required,
	}
}

// UpdatePart is the request body for patching a part.
type UpdatePart struct {
	ApprovalStatus       *string `json:"approval_status"`
	ProcurementStatus    *string `json:"procurement_status"`
	QuotedTotalCostCents *int64  `json:"quoted_total_cost_cents"`
	ActualTotalCostCents *int64  `json:"actual_total_cost_cents"`
}

func (p *UpdatePart) ValidateUpdatePart() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.QuotedTotalCostCents, validation.Min(int64(0))),
		validation.Field(&p.ActualTotalCostCents, validation.Min(int64(0))),
	)
}

func (p *UpdatePart) ToPatch() model.PartPatch {
	return model.PartPatch{
		ApprovalStatus:       p.ApprovalStatus,
		ProcurementStatus:    p.ProcurementStatus,
		QuotedTotalCostCents: p.QuotedTotalCostCents,
		ActualTotalCostCents: p.ActualTotalCostCents,
	}
}

// AssignWorkOrder is the request body for handing a work order to a
// contractor.
type AssignWorkOrder struct {
	AssignedToUserID string `json:"assigned_to_user_id"`
	Force            bool   `json:"force"`
}

func (a *AssignWorkOrder) ValidateAssignWorkOrder() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.AssignedToUserID, validation.Required),
	)
}

// SubmitCompletion is the request body for a contractor's completion
// submission. PhotoURLs are references already stored by the photo
// collaborator.
type SubmitCompletion struct {
	MinutesWorked   int      `json:"minutes_worked"`
	CompletionNotes string   `json:"completion_notes"`
	PhotoURLs       []string `json:"photo_urls"`
}

func (s *SubmitCompletion) ValidateSubmitCompletion() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.MinutesWorked, validation.Required, validation.Min(1)),
		validation.Field(&s.PhotoURLs, validation.Required, validation.Length(1, 10)),
	)
}

// ReviewCompletion is the request body for a GM's review decision.
type ReviewCompletion struct {
	Decision    string `json:"decision"`
	ReviewNotes string `json:"review_notes"`
}

func (r *ReviewCompletion) ValidateReviewCompletion() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Decision, validation.Required, validation.In(model.DecisionApprove, model.DecisionReject)),
	)
}

// CreateComment is the request body for adding a comment.
type CreateComment struct {
	Message string `json:"message"`
}

func (c *CreateComment) ValidateCreateComment() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Message, validation.Required),
	)
}
