package events

import "github.com/atomicstack/coco/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Loaded(lines int, truncated bool) {
	logging.Trace("app.loaded", map[string]interface{}{"lines": lines, "truncated": truncated})
}

func (AppTracer) Finish(status string, selected int) {
	logging.Trace("app.finish", map[string]interface{}{"status": status, "selected": selected})
}
