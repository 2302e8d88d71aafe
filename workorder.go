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

package sitefix

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

// WorkOrderDetail is the full read model for one work order.
type WorkOrderDetail struct {
	WorkOrder   *model.WorkOrder   `json:"work_order"`
	Parts       []model.Part       `json:"parts"`
	Assignment  *model.Assignment  `json:"assignment,omitempty"`
	Completions []model.Completion `json:"completions"`
	Attachments []model.Attachment `json:"attachments"`
	Comments    []model.Comment    `json:"comments"`
	Events      []model.Event      `json:"events"`
}

// CreateWorkOrder opens a new work order. Only a GM may create one.
func (s *Sitefix) CreateWorkOrder(ctx context.Context, actor model.Actor, wo *model.WorkOrder) (*model.WorkOrder, error) {
	if !actor.IsGM() {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only a GM can create work orders", nil)
	}
	if wo.Title == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Title is required", nil)
	}
	if wo.SiteID == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Site is required", nil)
	}
	if wo.Priority == "" {
		wo.Priority = model.PriorityNormal
	}
	if !model.ValidPriority(wo.Priority) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Invalid priority '%s'", wo.Priority), nil)
	}

	wo.OrganizationID = actor.OrganizationID
	wo.Status = model.StatusOpen
	wo.CreatedBy = actor.UserID

	err := s.datasource.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.datasource.CreateWorkOrder(ctx, tx, wo); err != nil {
			return err
		}
		return s.datasource.CreateEvent(ctx, tx, &model.Event{
			WorkOrderID: wo.WorkOrderID,
			ActorID:     actor.UserID,
			Type:        model.EventWorkOrderCreated,
			Message:     fmt.Sprintf("%s created this work order.", actor.DisplayName),
			Metadata:    map[string]interface{}{"title": wo.Title, "priority": wo.Priority},
		})
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// UpdateWorkOrder patches priority, due date, status and hold fields.
// Contractors may not set needs_review or closed and may not touch priority
// or due date. Exactly one event is appended per call: status_changed wins
// over hold_changed, which wins over the generic work_order_updated.
func (s *Sitefix) UpdateWorkOrder(ctx context.Context, actor model.Actor, workOrderID string, patch model.WorkOrderPatch) (*model.WorkOrder, error) {
	if actor.IsContractor() {
		if patch.Status != nil && (*patch.Status == model.StatusNeedsReview || *patch.Status == model.StatusClosed) {
			return nil, apierror.NewAPIError(apierror.ErrForbidden, fmt.Sprintf("Contractors cannot set status to '%s'", *patch.Status), nil)
		}
		if patch.Priority != nil || patch.DueAt != nil {
			return nil, apierror.NewAPIError(apierror.ErrForbidden, "Contractors cannot edit priority or due date", nil)
		}
	}
	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Invalid status '%s'", *patch.Status), nil)
	}
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Invalid priority '%s'", *patch.Priority), nil)
	}
	if patch.OnHoldReason != nil && *patch.OnHoldReason != "" && !model.ValidHoldReason(*patch.OnHoldReason) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Invalid hold reason '%s'", *patch.OnHoldReason), nil)
	}

	var wo *model.WorkOrder
	err := s.datasource.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		wo, err = s.lockWorkOrder(ctx, tx, actor, workOrderID)
		if err != nil {
			return err
		}
		if wo.IsClosed() {
			return apierror.NewAPIError(apierror.ErrConflict, "Work order is closed", nil)
		}

		prior := *wo
		if patch.Priority != nil {
			wo.Priority = *patch.Priority
		}
		if patch.DueAt != nil {
			wo.DueAt = patch.DueAt
		}
		if patch.Status != nil {
			wo.Status = *patch.Status
		}
		// Hold fields persist until overwritten, even after the work order
		// leaves on_hold.
		if patch.OnHoldReason != nil {
			wo.OnHoldReason = *patch.OnHoldReason
		}
		if patch.OnHoldNotes != nil {
			wo.OnHoldNotes = *patch.OnHoldNotes
		}

		statusChanged := patch.Status != nil && wo.Status != prior.Status
		holdChanged := (patch.OnHoldReason != nil && wo.OnHoldReason != prior.OnHoldReason) ||
			(patch.OnHoldNotes != nil && wo.OnHoldNotes != prior.OnHoldNotes)

		if err := s.datasource.UpdateWorkOrderFields(ctx, tx, wo); err != nil {
			return err
		}

		event := &model.Event{
			WorkOrderID: wo.WorkOrderID,
			ActorID:     actor.UserID,
			Type:        model.EventWorkOrderUpdated,
			Message:     fmt.Sprintf("%s updated task details.", actor.DisplayName),
		}
		switch {
		case statusChanged:
			event.Type = model.EventStatusChanged
			event.Message = fmt.Sprintf("%s set status to %s.", actor.DisplayName, wo.Status)
			event.Metadata = map[string]interface{}{"from": prior.Status, "to": wo.Status}
		case holdChanged:
			event.Type = model.EventHoldChanged
			event.Message = fmt.Sprintf("%s updated hold info.", actor.DisplayName)
			event.Metadata = map[string]interface{}{"on_hold_reason": wo.OnHoldReason, "on_hold_notes": wo.OnHoldNotes}
		}
		return s.datasource.CreateEvent(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// CloseWorkOrder marks a work order closed. Closure is terminal and, by
// product decision, enqueues no notification.
func (s *Sitefix) CloseWorkOrder(ctx context.Context, actor model.Actor, workOrderID string) (*model.WorkOrder, error) {
	if !actor.IsGM() {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only a GM can close work orders", nil)
	}

	var wo *model.WorkOrder
	err := s.datasource.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		wo, err = s.lockWorkOrder(ctx, tx, actor, workOrderID)
		if err != nil {
			return err
		}
		if wo.IsClosed() {
			return apierror.NewAPIError(apierror.ErrConflict, "Work order is already closed", nil)
		}

		closedAt := time.Now()
		if err := s.datasource.CloseWorkOrder(ctx, tx, wo.WorkOrderID, actor.UserID, closedAt); err != nil {
			return err
		}
		wo.Status = model.StatusClosed
		wo.ClosedAt = &closedAt
		wo.ClosedBy = actor.UserID

		return s.datasource.CreateEvent(ctx, tx, &model.Event{
			WorkOrderID: wo.WorkOrderID,
			ActorID:     actor.UserID,
			Type:        model.EventWorkOrderClosed,
			Message:     fmt.Sprintf("%s closed this work order.", actor.DisplayName),
		})
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// GetWorkOrderDetail returns a work order with its parts, assignment,
// completions, attachments, comments and event history. Contractors may
// only read work orders they actively hold.
func (s *Sitefix) GetWorkOrderDetail(ctx context.Context, actor model.Actor, workOrderID string) (*WorkOrderDetail, error) {
	wo, err := s.getWorkOrderScoped(ctx, actor, workOrderID)
	if err != nil {
		return nil, err
	}

	detail := &WorkOrderDetail{WorkOrder: wo}
	if detail.Assignment, err = s.datasource.GetActiveAssignment(ctx, workOrderID); err != nil {
		return nil, err
	}
	if actor.IsContractor() && (detail.Assignment == nil || detail.Assignment.AssignedTo != actor.UserID) {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Work order is not assigned to you", nil)
	}
	if detail.Parts, err = s.datasource.ListParts(ctx, workOrderID); err != nil {
		return nil, err
	}
	if detail.Completions, err = s.datasource.ListCompletions(ctx, workOrderID); err != nil {
		return nil, err
	}
	if detail.Attachments, err = s.datasource.ListAttachments(ctx, workOrderID); err != nil {
		return nil, err
	}
	if detail.Comments, err = s.datasource.ListComments(ctx, workOrderID); err != nil {
		return nil, err
	}
	if detail.Events, err = s.datasource.ListEvents(ctx, workOrderID); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListWorkOrders returns the actor's view of the organization's work orders:
// GMs see everything, contractors only what is actively assigned to them.
// status is an optional filter.
func (s *Sitefix) ListWorkOrders(ctx context.Context, actor model.Actor, status string) ([]model.WorkOrder, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Invalid status '%s'", status), nil)
	}
	if actor.IsContractor() {
		return s.datasource.ListAssignedWorkOrders(ctx, actor.OrganizationID, actor.UserID, status)
	}
	return s.datasource.ListWorkOrders(ctx, actor.OrganizationID, status)
}

// lockWorkOrder loads and row-locks a work order inside tx, scoped to the
// actor's organization. Cross-organization references surface as not found.
func (s *Sitefix) lockWorkOrder(ctx context.Context, tx *sql.Tx, actor model.Actor, workOrderID string) (*model.WorkOrder, error) {
	wo, err := s.datasource.GetWorkOrderForUpdate(ctx, tx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo.OrganizationID != actor.OrganizationID {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Work order with ID '%s' not found", workOrderID), nil)
	}
	return wo, nil
}

func (s *Sitefix) getWorkOrderScoped(ctx context.Context, actor model.Actor, workOrderID string) (*model.WorkOrder, error) {
	wo, err := s.datasource.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo.OrganizationID != actor.OrganizationID {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Work order with ID '%s' not found", workOrderID), nil)
	}
	return wo, nil
}
