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

// AssignWorkOrder hands a work order to a contractor. Unless force is set,
// assignment is blocked while any required part is not approved-and-arrived;
// the returned error carries the blocking parts. Any prior active assignment
// is closed out in the same transaction, so at most one assignment is ever
// active. If the assignee has a phone number an "assigned" notification is
// enqueued.
func (s *Sitefix) AssignWorkOrder(ctx context.Context, actor model.Actor, workOrderID, assigneeID string, force bool) (*model.Assignment, error) {
	if !actor.IsGM() {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only a GM can assign work orders", nil)
	}

	assignment := &model.Assignment{
		WorkOrderID:   workOrderID,
		AssignedTo:    assigneeID,
		AssignedBy:    actor.UserID,
		ForceAssigned: force,
	}

	err := s.datasource.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		wo, err := s.lockWorkOrder(ctx, tx, actor, workOrderID)
		if err != nil {
			return err
		}
		if wo.IsClosed() {
			return apierror.NewAPIError(apierror.ErrConflict, "Work order is closed", nil)
		}

		assignee, err := s.datasource.GetUserByID(ctx, assigneeID)
		if err != nil {
			if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrNotFound {
				return apierror.NewAPIError(apierror.ErrInvalidInput, "Assignee must be an active contractor in the same organization", nil)
			}
			return err
		}
		if assignee.Role != model.RoleContractor || !assignee.IsActive || assignee.OrganizationID != wo.OrganizationID {
			return apierror.NewAPIError(apierror.ErrInvalidInput, "Assignee must be an active contractor in the same organization", nil)
		}

		if !force {
			parts, err := s.datasource.ListParts(ctx, workOrderID)
			if err != nil {
				return err
			}
			if ready, blocking := ReadyToAssign(parts); !ready {
				return apierror.NewAPIError(apierror.ErrPreconditionFailed,
					"Cannot assign until all required parts are approved and arrived",
					map[string]interface{}{"blocking_parts": blocking})
			}
		}

		if err := s.datasource.CloseActiveAssignment(ctx, tx, workOrderID, time.Now()); err != nil {
			return err
		}
		if err := s.datasource.CreateAssignment(ctx, tx, assignment); err != nil {
			return err
		}

		err = s.datasource.CreateEvent(ctx, tx, &model.Event{
			WorkOrderID: workOrderID,
			ActorID:     actor.UserID,
			Type:        model.EventAssignmentCreated,
			Message:     fmt.Sprintf("%s assigned this work order to %s.", actor.DisplayName, assignee.FullName),
			Metadata:    map[string]interface{}{"assigned_to_user_id": assignee.UserID, "force": force},
		})
		if err != nil {
			return err
		}

		if assignee.Phone == "" {
			return nil
		}
		return s.datasource.EnqueueNotification(ctx, tx, &model.OutboxEntry{
			OrganizationID: actor.OrganizationID,
			WorkOrderID:    workOrderID,
			Destination:    assignee.Phone,
			Template:       model.TemplateAssigned,
			Payload: map[string]interface{}{
				"work_order_id": workOrderID,
				"title":         wo.Title,
				"link":          taskLink(workOrderID),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}
