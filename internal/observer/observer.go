package observer

import (
	"context"
	"fmt"
	"io"
	"sync"

	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/logger"
)

// Funcs adapts optional callbacks to the observer interface.
// Nil callbacks are skipped, so a caller can subscribe to a subset of events.
type Funcs struct {
	// OnSensorStatusChanged is called after sensors were reset or changed.
	OnSensorStatusChanged func(ctx context.Context)
	// OnCatDetected is called with the result of every processed image.
	OnCatDetected func(ctx context.Context, catPresent bool)
	// OnAlarmStatusChanged is called with every new alarm status.
	OnAlarmStatusChanged func(ctx context.Context, status domain.AlarmStatus)
}

// SensorStatusChanged calls OnSensorStatusChanged if set.
func (f *Funcs) SensorStatusChanged(ctx context.Context) {
	if f.OnSensorStatusChanged != nil {
		f.OnSensorStatusChanged(ctx)
	}
}

// CatDetected calls OnCatDetected if set.
func (f *Funcs) CatDetected(ctx context.Context, catPresent bool) {
	if f.OnCatDetected != nil {
		f.OnCatDetected(ctx, catPresent)
	}
}

// AlarmStatusChanged calls OnAlarmStatusChanged if set.
func (f *Funcs) AlarmStatusChanged(ctx context.Context, status domain.AlarmStatus) {
	if f.OnAlarmStatusChanged != nil {
		f.OnAlarmStatusChanged(ctx, status)
	}
}

// Logging writes every notification to the context logger.
type Logging struct{}

// SensorStatusChanged logs the sensor notification.
func (*Logging) SensorStatusChanged(ctx context.Context) {
	logger.Info(ctx, "Sensor status changed")
}

// CatDetected logs the cat detection result.
func (*Logging) CatDetected(ctx context.Context, catPresent bool) {
	logger.InfoKV(ctx, "Cat detection result", "cat_present", catPresent)
}

// AlarmStatusChanged logs the new alarm status, as a warning once the alarm fires.
func (*Logging) AlarmStatusChanged(ctx context.Context, status domain.AlarmStatus) {
	if status == domain.Alarm {
		logger.WarnKV(ctx, "Alarm raised", "status", status.String())

		return
	}

	logger.InfoKV(ctx, "Alarm status changed", "status", status.String())
}

// Printer writes one human-readable line per notification, e.g. for a terminal.
type Printer struct {
	// w receives the lines.
	w io.Writer
	// mu serialises writes to w.
	mu sync.Mutex
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// SensorStatusChanged prints the sensor notification.
func (p *Printer) SensorStatusChanged(context.Context) {
	p.println("sensors: status changed")
}

// CatDetected prints the cat detection result.
func (p *Printer) CatDetected(_ context.Context, catPresent bool) {
	if catPresent {
		p.println("camera: cat detected")

		return
	}

	p.println("camera: no cat")
}

// AlarmStatusChanged prints the new alarm status.
func (p *Printer) AlarmStatusChanged(_ context.Context, status domain.AlarmStatus) {
	p.println("alarm: " + status.String())
}

func (p *Printer) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintln(p.w, line)
}
