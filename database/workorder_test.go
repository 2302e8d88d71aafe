package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

func workOrderRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"work_order_id", "organization_id", "site_id", "location_id", "title", "description", "priority", "status", "on_hold_reason", "on_hold_notes", "due_at", "created_by_user_id", "created_at", "updated_at", "closed_at", "closed_by_user_id"}).
		AddRow("wo_1", "org_1", "site_1", "Kitchen", "Fix the fryer", "Pilot light out", model.PriorityHigh, model.StatusOpen, nil, nil, nil, "usr_gm", now, now, nil, nil)
}

func TestCreateWorkOrderRow(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO work_orders").
		WithArgs(sqlmock.AnyArg(), "org_1", "site_1", nullString("Kitchen"), "Fix the fryer", nullString("Pilot light out"), model.PriorityHigh, model.StatusOpen, nullTime(nil), "usr_gm", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	tx, err := ds.Conn.Begin()
	assert.NoError(t, err)

	wo := &model.WorkOrder{
		OrganizationID: "org_1",
		SiteID:         "site_1",
		LocationID:     "Kitchen",
		Title:          "Fix the fryer",
		Description:    "Pilot light out",
		Priority:       model.PriorityHigh,
		Status:         model.StatusOpen,
		CreatedBy:      "usr_gm",
	}
	err = ds.CreateWorkOrder(context.Background(), tx, wo)
	assert.NoError(t, err)
	assert.Contains(t, wo.WorkOrderID, "wo_")
	assert.WithinDuration(t, time.Now(), wo.CreatedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWorkOrderUnknownSite(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO work_orders").
		WillReturnError(&pq.Error{Code: "23503"})

	tx, err := ds.Conn.Begin()
	assert.NoError(t, err)

	err = ds.CreateWorkOrder(context.Background(), tx, &model.WorkOrder{OrganizationID: "org_1", SiteID: "site_missing", Title: "x", Priority: model.PriorityNormal, Status: model.StatusOpen, CreatedBy: "usr_gm"})
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetWorkOrder(t *testing.T) {
	ds, mock := newTestDatasource(t)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM work_orders").
		WithArgs("wo_1").
		WillReturnRows(workOrderRows(now))

	wo, err := ds.GetWorkOrder(context.Background(), "wo_1")
	assert.NoError(t, err)
	assert.Equal(t, "wo_1", wo.WorkOrderID)
	assert.Equal(t, "Kitchen", wo.LocationID)
	assert.Nil(t, wo.DueAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWorkOrderNotFound(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectQuery("SELECT .* FROM work_orders").
		WithArgs("wo_missing").
		WillReturnRows(sqlmock.NewRows([]string{"work_order_id"}))

	_, err := ds.GetWorkOrder(context.Background(), "wo_missing")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestUpdateWorkOrderFieldsNotFound(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE work_orders").
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := ds.Conn.Begin()
	assert.NoError(t, err)

	err = ds.UpdateWorkOrderFields(context.Background(), tx, &model.WorkOrder{WorkOrderID: "wo_missing", Priority: model.PriorityLow, Status: model.StatusOpen})
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestListWorkOrdersStatusFilter(t *testing.T) {
	ds, mock := newTestDatasource(t)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM work_orders").
		WithArgs("org_1", model.StatusOpen).
		WillReturnRows(workOrderRows(now))

	workOrders, err := ds.ListWorkOrders(context.Background(), "org_1", model.StatusOpen)
	assert.NoError(t, err)
	assert.Len(t, workOrders, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
