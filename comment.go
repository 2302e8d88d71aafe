package sitefix

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

// AddComment appends a free-text note to a work order's thread. Comments
// stay open after closure; they are conversation, not lifecycle mutations.
func (s *Sitefix) AddComment(ctx context.Context, actor model.Actor, workOrderID, message string) (*model.Comment, error) {
	if message == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Message is required", nil)
	}

	if _, err := s.getWorkOrderScoped(ctx, actor, workOrderID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		WorkOrderID: workOrderID,
		UserID:      actor.UserID,
		Message:     message,
	}

	err := s.datasource.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.datasource.CreateComment(ctx, tx, comment); err != nil {
			return err
		}
		return s.datasource.CreateEvent(ctx, tx, &model.Event{
			WorkOrderID: workOrderID,
			ActorID:     actor.UserID,
			Type:        model.EventCommentAdded,
			Message:     fmt.Sprintf("%s commented.", actor.DisplayName),
		})
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}
