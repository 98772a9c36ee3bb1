package datarecording

import (
	"time"

	"github.com/sarchlab/taic/hooking"
	"github.com/sarchlab/taic/uintr"
)

// RouteEventTable is the table route events are recorded into.
const RouteEventTable = "uintr_route_events"

// A RouteEvent is one recorded trap-boundary transition. The owner is stored
// signed because SQLite has no unsigned 64-bit type; the no-owner sentinel
// reads back as -1.
type RouteEvent struct {
	Time    int64
	Kind    string
	CPU     int
	HartID  int64
	LQIndex int64
	Owner   int64
	Err     string
}

type routeLogger struct {
	recorder DataRecorder
}

// NewRouteLogger returns a hook that records every save/restore/release the
// trap-boundary engine performs. Attach it to a uintr.Engine.
func NewRouteLogger(recorder DataRecorder) hooking.Hook {
	recorder.CreateTable(RouteEventTable, RouteEvent{})

	return &routeLogger{recorder: recorder}
}

func (l *routeLogger) Func(ctx hooking.HookCtx) {
	detail, ok := ctx.Detail.(uintr.HookDetail)
	if !ok {
		return
	}

	errStr := ""
	if detail.Err != nil {
		errStr = detail.Err.Error()
	}

	l.recorder.InsertData(RouteEventTable, RouteEvent{
		Time:    time.Now().UnixNano(),
		Kind:    ctx.Pos.Name,
		CPU:     detail.CPU,
		HartID:  int64(detail.HartID),
		LQIndex: int64(detail.LQIndex),
		Owner:   int64(detail.Owner),
		Err:     errStr,
	})
}
