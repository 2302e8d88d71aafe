package sitefix

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

// AddPart attaches a purchasable part to a work order. GM only.
func (s *Sitefix) AddPart(ctx context.Context, actor model.Actor, workOrderID string, p *model.Part) (*model.Part, error) {
	if !actor.IsGM() {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only a GM can add parts", nil)
	}
	if p.Name == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Part name is required", nil)
	}
	if p.Quantity < 1 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Quantity must be at least 1", nil)
	}

	p.WorkOrderID = workOrderID
	p.ApprovalStatus = model.ApprovalNotRequested
	p.ProcurementStatus = model.ProcurementNotStarted

	err := s.datasource.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		wo, err := s.lockWorkOrder(ctx, tx, actor, workOrderID)
		if err != nil {
			return err
		}
		if wo.IsClosed() {
			return apierror.NewAPIError(apierror.ErrConflict, "Work order is closed", nil)
		}
		if err := s.datasource.CreatePart(ctx, tx, p); err != nil {
			return err
		}
		return s.datasource.CreateEvent(ctx, tx, &model.Event{
			WorkOrderID: workOrderID,
			ActorID:     actor.UserID,
			Type:        model.EventPartCreated,
			Message:     fmt.Sprintf("%s added part %q.", actor.DisplayName, p.Name),
			Metadata:    map[string]interface{}{"part_id": p.PartID},
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePart patches a part's approval status, procurement status and costs.
// GM only. Any call carrying a procurement status of quoted, ordered or
// arrived stamps the matching timestamp, including re-sends of the current
// status.
func (s *Sitefix) UpdatePart(ctx context.Context, actor model.Actor, workOrderID, partID string, patch model.PartPatch) (*model.Part, error) {
	if !actor.IsGM() {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only a GM can update parts", nil)
	}
	if patch.ApprovalStatus != nil && !model.ValidApprovalStatus(*patch.ApprovalStatus) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Invalid approval status '%s'", *patch.ApprovalStatus), nil)
	}
	if patch.ProcurementStatus != nil && !model.ValidProcurementStatus(*patch.ProcurementStatus) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Invalid procurement status '%s'", *patch.ProcurementStatus), nil)
	}

	var p *model.Part
	err := s.datasource.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		wo, err := s.lockWorkOrder(ctx, tx, actor, workOrderID)
		if err != nil {
			return err
		}
		if wo.IsClosed() {
			return apierror.NewAPIError(apierror.ErrConflict, "Work order is closed", nil)
		}

		p, err = s.datasource.GetPart(ctx, workOrderID, partID)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if patch.ApprovalStatus != nil {
			p.ApprovalStatus = *patch.ApprovalStatus
			changes["approval_status"] = p.ApprovalStatus
		}
		if patch.ProcurementStatus != nil {
			p.ProcurementStatus = *patch.ProcurementStatus
			changes["procurement_status"] = p.ProcurementStatus

			now := time.Now()
			switch p.ProcurementStatus {
			case model.ProcurementQuoted:
				p.QuotedAt = &now
			case model.ProcurementOrdered:
				p.OrderedAt = &now
			case model.ProcurementArrived:
				p.ArrivedAt = &now
			}
		}
		if patch.QuotedTotalCostCents != nil {
			p.QuotedTotalCostCents = patch.QuotedTotalCostCents
			changes["quoted_total_cost_cents"] = *patch.QuotedTotalCostCents
		}
		if patch.ActualTotalCostCents != nil {
			p.ActualTotalCostCents = patch.ActualTotalCostCents
			changes["actual_total_cost_cents"] = *patch.ActualTotalCostCents
		}

		if err := s.datasource.UpdatePart(ctx, tx, p); err != nil {
			return err
		}
		return s.datasource.CreateEvent(ctx, tx, &model.Event{
			WorkOrderID: workOrderID,
			ActorID:     actor.UserID,
			Type:        model.EventPartUpdated,
			Message:     fmt.Sprintf("%s updated a part.", actor.DisplayName),
			Metadata:    map[string]interface{}{"part_id": partID, "changes": changes},
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
