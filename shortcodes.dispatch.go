package shortcodes

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/itsatony/go-shortcodes/internal"
)

// dispatcher invokes registered handlers for one parse call. It carries
// the caller's context and data unchanged to every handler.
type dispatcher struct {
	ctx    context.Context
	data   any
	logger *zap.Logger
}

// Dispatch implements internal.Dispatcher
func (d *dispatcher) Dispatch(call internal.Call) (string, error) {
	if call.Entry.Handler == nil {
		return "", internal.NewSyntaxError(internal.KindInvalidTag, internal.ErrMsgUnknownTag, call.Entry.Tag, call.Token.Position)
	}

	d.logger.Debug(LogMsgHandlerInvoked,
		zap.String(LogFieldTag, call.Entry.Tag),
		zap.Bool(LogFieldBlock, call.IsBlock),
		zap.Int(LogFieldDepth, call.Depth),
		zap.Int(LogFieldLine, call.Token.Position.Line),
		zap.Int(LogFieldColumn, call.Token.Position.Column),
	)
	start := time.Now()

	out, err := call.Entry.Handler.Handle(d.ctx, internal.Invocation{
		Tag:      call.Entry.Tag,
		Data:     d.data,
		Content:  call.Content,
		IsBlock:  call.IsBlock,
		Args:     call.Args,
		Position: call.Token.Position,
	})
	if err != nil {
		return "", err
	}

	d.logger.Debug(LogMsgHandlerComplete,
		zap.String(LogFieldTag, call.Entry.Tag),
		zap.Duration(LogFieldDuration, time.Since(start)),
		zap.Int(LogFieldOutput, len(out)),
	)
	return out, nil
}

// validatingDispatcher accepts every call without invoking handlers
type validatingDispatcher struct{}

// Dispatch implements internal.Dispatcher
func (validatingDispatcher) Dispatch(call internal.Call) (string, error) {
	return "", nil
}
