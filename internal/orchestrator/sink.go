package orchestrator

import (
	"github.com/turtacn/Lulo/pkg/logger"
	"github.com/turtacn/Lulo/pkg/protocol"
)

// Sink receives progress events. Emit must not block the caller.
type Sink interface {
	Emit(ev protocol.Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev protocol.Event)

func (f SinkFunc) Emit(ev protocol.Event) { f(ev) }

// DiscardSink drops every event.
type DiscardSink struct{}

func (DiscardSink) Emit(protocol.Event) {}

// ChannelSink forwards events to a buffered channel, dropping them when the
// buffer is full.
type ChannelSink chan protocol.Event

func (c ChannelSink) Emit(ev protocol.Event) {
	select {
	case c <- ev:
	default:
		logger.Log.Debug("Orchestrator: event dropped, consumer too slow", "stage", ev.Stage, "message", ev.Message)
	}
}

// MultiSink fans an event out to every sink in order.
type MultiSink []Sink

func (m MultiSink) Emit(ev protocol.Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ev)
		}
	}
}

// Personal.AI order the ending
