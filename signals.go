package hal

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for hal events.
var (
	SignalCodecRegistered = capitan.NewSignal("hal.registry.codec.registered", "Codec registered with a registry")
	SignalRenderStart     = capitan.NewSignal("hal.render.start", "Render operation beginning")
	SignalRenderComplete  = capitan.NewSignal("hal.render.complete", "Render operation finished")
	SignalParseStart      = capitan.NewSignal("hal.parse.start", "Parse operation beginning")
	SignalParseComplete   = capitan.NewSignal("hal.parse.complete", "Parse operation finished")
	SignalValidateFailed  = capitan.NewSignal("hal.validate.failed", "Representation failed validation")
)

// Keys for typed event data.
var (
	KeyContentType   = capitan.NewStringKey("content_type")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyLinkCount     = capitan.NewIntKey("links")
	KeyEmbeddedCount = capitan.NewIntKey("embedded")
	KeyError         = capitan.NewErrorKey("error")
)

// emitCodecRegistered emits an event when a codec joins a registry.
func emitCodecRegistered(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalCodecRegistered,
		KeyContentType.Field(contentType),
	)
}

// emitRenderStart emits an event when render begins.
func emitRenderStart(ctx context.Context, contentType string, r Representation) {
	capitan.Emit(ctx, SignalRenderStart,
		KeyContentType.Field(contentType),
		KeyLinkCount.Field(len(r.links)),
		KeyEmbeddedCount.Field(len(r.children)),
	)
}

// emitRenderComplete emits an event when render finishes.
func emitRenderComplete(ctx context.Context, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRenderComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRenderComplete, fields...)
	}
}

// emitParseStart emits an event when parse begins.
func emitParseStart(ctx context.Context, contentType string, size int) {
	capitan.Emit(ctx, SignalParseStart,
		KeyContentType.Field(contentType),
		KeySize.Field(size),
	)
}

// emitParseComplete emits an event when parse finishes.
func emitParseComplete(ctx context.Context, contentType string, r Representation, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyDuration.Field(duration),
		KeyLinkCount.Field(len(r.links)),
		KeyEmbeddedCount.Field(len(r.children)),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalParseComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalParseComplete, fields...)
	}
}

// emitValidateFailed emits an event when a representation is rejected before rendering.
func emitValidateFailed(ctx context.Context, contentType string, err error) {
	capitan.Error(ctx, SignalValidateFailed,
		KeyContentType.Field(contentType),
		KeyError.Field(err),
	)
}
