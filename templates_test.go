package sitefix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitefixhq/sitefix/model"
)

func TestRenderTemplateAssigned(t *testing.T) {
	text := RenderTemplate(model.TemplateAssigned, map[string]interface{}{
		"title": "Fix the fryer",
		"link":  "https://app.sitefix.example/tasks/wo_1",
	})
	assert.Equal(t, "New task assigned: Fix the fryer\nhttps://app.sitefix.example/tasks/wo_1", text)
}

func TestRenderTemplateCompletionSubmitted(t *testing.T) {
	text := RenderTemplate(model.TemplateCompletionSubmitted, map[string]interface{}{
		"title":      "Fix the fryer",
		"contractor": "Carl Contractor",
	})
	assert.Equal(t, "Task completed and ready for review: Fix the fryer (by Carl Contractor)", text)
}

func TestRenderTemplateCompletionRejected(t *testing.T) {
	text := RenderTemplate(model.TemplateCompletionRejected, map[string]interface{}{
		"title":        "Fix the fryer",
		"review_notes": "redo the seal",
		"link":         "https://app.sitefix.example/tasks/wo_1",
	})
	assert.Equal(t, "Completion needs changes: Fix the fryer\nNotes: redo the seal\nhttps://app.sitefix.example/tasks/wo_1", text)
}

func TestRenderTemplateClosed(t *testing.T) {
	text := RenderTemplate(model.TemplateClosed, map[string]interface{}{"title": "Fix the fryer"})
	assert.Equal(t, "Work order closed: Fix the fryer", text)
}

func TestRenderTemplateUnknownFallsBack(t *testing.T) {
	text := RenderTemplate("mystery", map[string]interface{}{"link": "https://app.sitefix.example/tasks/wo_1"})
	assert.Equal(t, "Notification\nhttps://app.sitefix.example/tasks/wo_1", text)
}
