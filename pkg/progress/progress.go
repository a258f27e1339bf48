// Package progress defines the sink contract long-running operations use
// to report advancement. Ingestion, reconciliation, and apply all thread a
// single Sink instead of ad-hoc callbacks, so the reporting signature
// cannot drift between phases.
package progress

import "github.com/rs/zerolog"

// Sink receives progress reports from a long-running operation.
// Percent is in the range 0..100; message is a short human-readable line.
// Implementations must not block the reporting goroutine.
type Sink interface {
	Report(percent int, message string)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(percent int, message string)

// Report implements the Sink interface.
func (f SinkFunc) Report(percent int, message string) {
	f(percent, message)
}

// Nop is a Sink that discards all reports.
var Nop Sink = SinkFunc(func(int, string) {})

// Update is one progress report delivered over a channel.
type Update struct {
	Percent int
	Message string
}

// ChannelSink forwards reports to a bounded channel without ever blocking
// the worker: when the channel is full the report is dropped. The consumer
// only cares about the latest state, so dropped intermediate updates are
// harmless.
type ChannelSink struct {
	ch chan Update
}

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{ch: make(chan Update, buffer)}
}

// Report implements the Sink interface.
func (s *ChannelSink) Report(percent int, message string) {
	select {
	case s.ch <- Update{Percent: percent, Message: message}:
	default:
	}
}

// Updates returns the receive side of the sink.
func (s *ChannelSink) Updates() <-chan Update {
	return s.ch
}

// Close closes the update channel. Only the producing side may call it,
// after the operation has finished reporting.
func (s *ChannelSink) Close() {
	close(s.ch)
}

// LogSink writes progress reports through a zerolog logger at debug level,
// promoting the 0 and 100 marks to info.
type LogSink struct {
	Logger *zerolog.Logger
}

// Report implements the Sink interface.
func (s *LogSink) Report(percent int, message string) {
	if s.Logger == nil {
		return
	}
	ev := s.Logger.Debug()
	if percent == 0 || percent >= 100 {
		ev = s.Logger.Info()
	}
	ev.Int("percent", percent).Msg(message)
}
