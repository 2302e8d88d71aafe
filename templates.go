package sitefix

import (
	"fmt"

	"github.com/sitefixhq/sitefix/model"
)

// RenderTemplate turns an outbox entry's template and payload into message
// text. Unknown templates fall back to a bare notification so a bad entry
// never wedges the worker.
func RenderTemplate(template string, payload map[string]interface{}) string {
	link := ""
	if l := payloadString(payload, "link"); l != "" {
		link = "\n" + l
	}
	switch template {
	case model.TemplateAssigned:
		return fmt.Sprintf("New task assigned: %s%s", payloadString(payload, "title"), link)
	case model.TemplateCompletionSubmitted:
		return fmt.Sprintf("Task completed and ready for review: %s (by %s)%s", payloadString(payload, "title"), payloadString(payload, "contractor"), link)
	case model.TemplateCompletionRejected:
		return fmt.Sprintf("Completion needs changes: %s\nNotes: %s%s", payloadString(payload, "title"), payloadString(payload, "review_notes"), link)
	case model.TemplateClosed:
		return fmt.Sprintf("Work order closed: %s%s", payloadString(payload, "title"), link)
	default:
		return fmt.Sprintf("Notification%s", link)
	}
}

func payloadString(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
