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

// SubmitCompletion records a contractor's field completion: the completion
// row, its photo attachments, the forced needs_review status and one
// completion_submitted notification per reachable GM, all in one
// transaction. The submitter must hold the active assignment and supply at
// least one photo reference.
func (s *Sitefix) SubmitCompletion(ctx context.Context, actor model.Actor, workOrderID string, minutesWorked int, notes string, photoURLs []string) (*model.Completion, error) {
	if !actor.IsContractor() {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only contractors can submit completion", nil)
	}
	if minutesWorked < 1 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Minutes worked must be at least 1", nil)
	}
	if len(photoURLs) == 0 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "At least one completion photo is required", nil)
	}

	completion := &model.Completion{
		WorkOrderID:     workOrderID,
		SubmittedBy:     actor.UserID,
		MinutesWorked:   minutesWorked,
		CompletionNotes: notes,
	}

	err := s.datasource.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		wo, err := s.lockWorkOrder(ctx, tx, actor, workOrderID)
		if err != nil {
			return err
		}
		if wo.IsClosed() {
			return apierror.NewAPIError(apierror.ErrConflict, "Work order is closed", nil)
		}

		active, err := s.datasource.GetActiveAssignment(ctx, workOrderID)
		if err != nil {
			return err
		}
		if active == nil || active.AssignedTo != actor.UserID {
			return apierror.NewAPIError(apierror.ErrForbidden, "Work order is not assigned to you", nil)
		}

		if err := s.datasource.CreateCompletion(ctx, tx, completion); err != nil {
			return err
		}
		for _, url := range photoURLs {
			err := s.datasource.CreateAttachment(ctx, tx, &model.Attachment{
				WorkOrderID:  workOrderID,
				CompletionID: completion.CompletionID,
				UploadedBy:   actor.UserID,
				Type:         model.AttachmentCompletionPhoto,
				FileURL:      url,
			})
			if err != nil {
				return err
			}
		}

		if err := s.datasource.SetWorkOrderStatus(ctx, tx, workOrderID, model.StatusNeedsReview); err != nil {
			return err
		}

		err = s.datasource.CreateEvent(ctx, tx, &model.Event{
			WorkOrderID: workOrderID,
			ActorID:     actor.UserID,
			Type:        model.EventCompletionSubmitted,
			Message:     fmt.Sprintf("%s submitted completion (ready for GM review).", actor.DisplayName),
			Metadata:    map[string]interface{}{"completion_id": completion.CompletionID, "minutes_worked": minutesWorked},
		})
		if err != nil {
			return err
		}

		gms, err := s.datasource.ListUsersByRole(ctx, actor.OrganizationID, model.RoleGM)
		if err != nil {
			return err
		}
		for _, gm := range gms {
			if gm.Phone == "" {
				continue
			}
			err := s.datasource.EnqueueNotification(ctx, tx, &model.OutboxEntry{
				OrganizationID: actor.OrganizationID,
				WorkOrderID:    workOrderID,
				Destination:    gm.Phone,
				Template:       model.TemplateCompletionSubmitted,
				Payload: map[string]interface{}{
					"work_order_id": workOrderID,
					"title":         wo.Title,
					"contractor":    actor.DisplayName,
					"link":          taskLink(workOrderID),
				},
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// ReviewCompletion records a GM's approve/reject decision on a submitted
// completion. Rejection reverts the work order to in_progress and notifies
// the submitter; approval leaves the status untouched, closure being a
// separate explicit action.
func (s *Sitefix) ReviewCompletion(ctx context.Context, actor model.Actor, workOrderID, completionID, decision, reviewNotes string) (*model.Completion, error) {
	if !actor.IsGM() {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only a GM can review completions", nil)
	}
	if decision != model.DecisionApprove && decision != model.DecisionReject {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Invalid decision '%s'", decision), nil)
	}

	var completion *model.Completion
	err := s.datasource.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		wo, err := s.lockWorkOrder(ctx, tx, actor, workOrderID)
		if err != nil {
			return err
		}
		if wo.IsClosed() {
			return apierror.NewAPIError(apierror.ErrConflict, "Work order is closed", nil)
		}

		completion, err = s.datasource.GetCompletion(ctx, workOrderID, completionID)
		if err != nil {
			return err
		}

		reviewedAt := time.Now()
		completion.ReviewStatus = model.ReviewApproved
		if decision == model.DecisionReject {
			completion.ReviewStatus = model.ReviewRejected
		}
		completion.ReviewedBy = actor.UserID
		completion.ReviewedAt = &reviewedAt
		completion.ReviewNotes = reviewNotes

		if err := s.datasource.ReviewCompletion(ctx, tx, completion); err != nil {
			return err
		}

		verb := "approved"
		if decision == model.DecisionReject {
			verb = "rejected"
		}
		err = s.datasource.CreateEvent(ctx, tx, &model.Event{
			WorkOrderID: workOrderID,
			ActorID:     actor.UserID,
			Type:        model.EventCompletionReviewed,
			Message:     fmt.Sprintf("%s %s the completion submission.", actor.DisplayName, verb),
			Metadata:    map[string]interface{}{"completion_id": completionID, "decision": decision},
		})
		if err != nil {
			return err
		}

		if decision != model.DecisionReject {
			return nil
		}

		if err := s.datasource.SetWorkOrderStatus(ctx, tx, workOrderID, model.StatusInProgress); err != nil {
			return err
		}
		submitter, err := s.datasource.GetUserByID(ctx, completion.SubmittedBy)
		if err != nil {
			return err
		}
		if submitter.Phone == "" {
			return nil
		}
		return s.datasource.EnqueueNotification(ctx, tx, &model.OutboxEntry{
			OrganizationID: actor.OrganizationID,
			WorkOrderID:    workOrderID,
			Destination:    submitter.Phone,
			Template:       model.TemplateCompletionRejected,
			Payload: map[string]interface{}{
				"work_order_id": workOrderID,
				"title":         wo.Title,
				"review_notes":  reviewNotes,
				"link":          taskLink(workOrderID),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return completion, nil
}
