package events

import "github.com/atomicstack/coco/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type SelectionTracer struct{}

type CommandTracer struct{}

var (
	UI        = UITracer{}
	Filter    = FilterTracer{}
	Selection = SelectionTracer{}
	Command   = CommandTracer{}
)

func (UITracer) Cursor(cursor, offset int) {
	logging.Trace("ui.cursor", map[string]interface{}{"cursor": cursor, "offset": offset})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (FilterTracer) Append(query string) {
	logging.Trace("filter.append", map[string]interface{}{"query": query})
}

func (FilterTracer) Backspace(query string) {
	logging.Trace("filter.backspace", map[string]interface{}{"query": query})
}

func (FilterTracer) Rotate(mode string) {
	logging.Trace("filter.rotate", map[string]interface{}{"mode": mode})
}

func (FilterTracer) Applied(mode, query string, filtered, total int) {
	logging.Trace("filter.applied", map[string]interface{}{
		"mode":     mode,
		"query":    query,
		"filtered": filtered,
		"total":    total,
	})
}

func (FilterTracer) Rejected(mode, query string, err error) {
	payload := map[string]interface{}{"mode": mode, "query": query}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("filter.rejected", payload)
}

func (SelectionTracer) Toggle(position int, selected bool) {
	logging.Trace("selection.toggle", map[string]interface{}{"position": position, "selected": selected})
}

func (SelectionTracer) Confirm(count int) {
	logging.Trace("selection.confirm", map[string]interface{}{"count": count})
}

func (SelectionTracer) Cancel() {
	logging.Trace("selection.cancel", nil)
}

func (CommandTracer) Queue(seq uint64, query string) {
	logging.Trace("command.queue", map[string]interface{}{"seq": seq, "query": query})
}

func (CommandTracer) Result(seq uint64, filtered int) {
	logging.Trace("command.result", map[string]interface{}{"seq": seq, "filtered": filtered})
}

func (CommandTracer) Stale(seq, latest uint64) {
	logging.Trace("command.stale", map[string]interface{}{"seq": seq, "latest": latest})
}
