package sitefix

import "github.com/sitefixhq/sitefix/model"

// ReadyToAssign reports whether a work order can be handed to a contractor
// given its parts: every required part must be approved and arrived. The
// blocking parts are returned for diagnostic display. A work order with no
// required parts is trivially ready.
func ReadyToAssign(parts []model.Part) (bool, []model.Part) {
	blocking := []model.Part{}
	for _, p := range parts {
		if p.IsRequired && !p.Ready() {
			blocking = append(blocking, p)
		}
	}
	return len(blocking) == 0, blocking
}
