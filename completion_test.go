package sitefix

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

func activeAssignmentRow(assignee string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"assignment_id", "work_order_id", "assigned_to_user_id", "assigned_by_user_id", "assigned_at", "unassigned_at", "force_assigned"}).
		AddRow("asg_1", "wo_1", assignee, "usr_gm", time.Now(), nil, false)
}

func completionRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"completion_id", "work_order_id", "submitted_by_user_id", "submitted_at", "minutes_worked", "completion_notes", "review_status", "reviewed_by_user_id", "reviewed_at", "review_notes"}).
		AddRow("cmp_1", "wo_1", "usr_contractor", time.Now(), 90, nil, model.ReviewSubmitted, nil, nil, nil)
}

func TestSubmitCompletion(t *testing.T) {
	service, mock := newTestService(t)

	gms := sqlmock.NewRows([]string{"user_id", "organization_id", "role", "full_name", "phone", "email", "is_active", "created_at"}).
		AddRow("usr_gm", "org_1", model.RoleGM, "Grace Manager", "+15559998888", "grace@example.com", true, time.Now()).
		AddRow("usr_gm2", "org_1", model.RoleGM, "Gina Manager", "", "gina@example.com", true, time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM work_orders").
		WithArgs("wo_1").
		WillReturnRows(workOrderRow(model.StatusInProgress))
	mock.ExpectQuery("SELECT .* FROM work_order_assignments").
		WithArgs("wo_1").
		WillReturnRows(activeAssignmentRow("usr_contractor"))
	mock.ExpectExec("INSERT INTO work_order_completions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO attachments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE work_orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO work_order_events").
		WithArgs(sqlmock.AnyArg(), "wo_1", "usr_contractor", model.EventCompletionSubmitted, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT .* FROM users").
		WithArgs("org_1", model.RoleGM).
		WillReturnRows(gms)
	// One outbox entry, for the single GM with a phone number.
	mock.ExpectExec("INSERT INTO notification_outbox").
		WithArgs(sqlmock.AnyArg(), "org_1", sqlmock.AnyArg(), "+15559998888", model.TemplateCompletionSubmitted, sqlmock.AnyArg(), sqlmock.AnyArg(), model.OutboxPending).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	completion, err := service.SubmitCompletion(context.Background(), contractorActor(), "wo_1", 90, "replaced seal", []string{"/uploads/p1.jpg"})
	assert.NoError(t, err)
	assert.Contains(t, completion.CompletionID, "cmp_")
	assert.Equal(t, model.ReviewSubmitted, completion.ReviewStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitCompletionNoPhotos(t *testing.T) {
	service, mock := newTestService(t)

	_, err := service.SubmitCompletion(context.Background(), contractorActor(), "wo_1", 90, "", nil)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
	// Rejected before any query: no completion, no status change, no event.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitCompletionNotAssignee(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM work_orders").
		WithArgs("wo_1").
		WillReturnRows(workOrderRow(model.StatusInProgress))
	mock.ExpectQuery("SELECT .* FROM work_order_assignments").
		WithArgs("wo_1").
		WillReturnRows(activeAssignmentRow("usr_other"))
	mock.ExpectRollback()

	_, err := service.SubmitCompletion(context.Background(), contractorActor(), "wo_1", 90, "", []string{"/uploads/p1.jpg"})
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrForbidden, apiErr.Code)
}

func TestSubmitCompletionGMForbidden(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.SubmitCompletion(context.Background(), gmActor(), "wo_1", 90, "", []string{"/uploads/p1.jpg"})
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrForbidden, apiErr.Code)
}

func TestReviewCompletionApprove(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM work_orders").
		WithArgs("wo_1").
		WillReturnRows(workOrderRow(model.StatusNeedsReview))
	mock.ExpectQuery("SELECT .* FROM work_order_completions").
		WithArgs("wo_1", "cmp_1").
		WillReturnRows(completionRow())
	mock.ExpectExec("UPDATE work_order_completions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO work_order_events").
		WithArgs(sqlmock.AnyArg(), "wo_1", "usr_gm", model.EventCompletionReviewed, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Approval never touches work-order status and enqueues nothing.
	mock.ExpectCommit()

	completion, err := service.ReviewCompletion(context.Background(), gmActor(), "wo_1", "cmp_1", model.DecisionApprove, "looks good")
	assert.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, completion.ReviewStatus)
	assert.Equal(t, "usr_gm", completion.ReviewedBy)
	assert.NotNil(t, completion.ReviewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCompletionReject(t *testing.T) {
	service, mock := newTestService(t)

	submitter := sqlmock.NewRows([]string{"user_id", "organization_id", "role", "full_name", "phone", "email", "is_active", "created_at"}).
		AddRow("usr_contractor", "org_1", model.RoleContractor, "Carl Contractor", "+15550001111", "carl@example.com", true, time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM work_orders").
		WithArgs("wo_1").
		WillReturnRows(workOrderRow(model.StatusNeedsReview))
	mock.ExpectQuery("SELECT .* FROM work_order_completions").
		WithArgs("wo_1", "cmp_1").
		WillReturnRows(completionRow())
	mock.ExpectExec("UPDATE work_order_completions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO work_order_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE work_orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .* FROM users").
		WithArgs("usr_contractor").
		WillReturnRows(submitter)
	mock.ExpectExec("INSERT INTO notification_outbox").
		WithArgs(sqlmock.AnyArg(), "org_1", sqlmock.AnyArg(), "+15550001111", model.TemplateCompletionRejected, sqlmock.AnyArg(), sqlmock.AnyArg(), model.OutboxPending).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	completion, err := service.ReviewCompletion(context.Background(), gmActor(), "wo_1", "cmp_1", model.DecisionReject, "redo the seal")
	assert.NoError(t, err)
	assert.Equal(t, model.ReviewRejected, completion.ReviewStatus)
	assert.Equal(t, "redo the seal", completion.ReviewNotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCompletionContractorForbidden(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.ReviewCompletion(context.Background(), contractorActor(), "wo_1", "cmp_1", model.DecisionApprove, "")
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrForbidden, apiErr.Code)
}

func TestReviewCompletionInvalidDecision(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.ReviewCompletion(context.Background(), gmActor(), "wo_1", "cmp_1", "maybe", "")
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
}
