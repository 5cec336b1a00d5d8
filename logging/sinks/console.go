package sinks

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"stagfall/server/logging"
)

// ConsoleSink renders events as structured console lines.
type ConsoleSink struct {
	logger zerolog.Logger
}

func NewConsoleSink(w io.Writer, cfg logging.ConsoleConfig) *ConsoleSink {
	writer := zerolog.ConsoleWriter{Out: w, NoColor: !cfg.UseColor, TimeFormat: "15:04:05"}
	return &ConsoleSink{logger: zerolog.New(writer).With().Timestamp().Logger()}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	line := s.logger.WithLevel(zerologLevel(event.Severity)).
		Str("event", string(event.Type)).
		Uint64("tick", event.Tick)
	if event.Actor.ID != "" {
		line = line.Str("actor", string(event.Actor.Kind)+":"+event.Actor.ID)
	}
	for _, target := range event.Targets {
		line = line.Str("target", string(target.Kind)+":"+target.ID)
	}
	if event.Payload != nil {
		line = line.Interface("payload", event.Payload)
	}
	for k, v := range event.Extra {
		line = line.Interface(k, v)
	}
	line.Msg(event.Category)
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

func zerologLevel(sev logging.Severity) zerolog.Level {
	switch sev {
	case logging.SeverityDebug:
		return zerolog.DebugLevel
	case logging.SeverityWarn:
		return zerolog.WarnLevel
	case logging.SeverityError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
