package sitefix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitefixhq/sitefix/model"
)

func TestReadyToAssignNoParts(t *testing.T) {
	ready, blocking := ReadyToAssign(nil)
	assert.True(t, ready)
	assert.Empty(t, blocking)
}

func TestReadyToAssignAllRequiredReady(t *testing.T) {
	parts := []model.Part{
		{Name: "Thermostat", IsRequired: true, ApprovalStatus: model.ApprovalApproved, ProcurementStatus: model.ProcurementArrived},
		{Name: "Gasket", IsRequired: false, ApprovalStatus: model.ApprovalNotRequested, ProcurementStatus: model.ProcurementNotStarted},
	}
	ready, blocking := ReadyToAssign(parts)
	assert.True(t, ready)
	assert.Empty(t, blocking)
}

func TestReadyToAssignBlockedByRequiredPart(t *testing.T) {
	parts := []model.Part{
		{Name: "Thermostat", IsRequired: true, ApprovalStatus: model.ApprovalApproved, ProcurementStatus: model.ProcurementArrived},
		{Name: "Compressor", IsRequired: true, ApprovalStatus: model.ApprovalApproved, ProcurementStatus: model.ProcurementOrdered},
		{Name: "Relay", IsRequired: true, ApprovalStatus: model.ApprovalPendingApproval, ProcurementStatus: model.ProcurementArrived},
	}
	ready, blocking := ReadyToAssign(parts)
	assert.False(t, ready)
	assert.Len(t, blocking, 2)
	assert.Equal(t, "Compressor", blocking[0].Name)
	assert.Equal(t, "Relay", blocking[1].Name)
}
