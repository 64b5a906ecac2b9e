package instrument

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const masked = "***"

func setupLogging(service string, lp *sdklog.LoggerProvider, maskFields []string) {
	var h slog.Handler = newJSONHandler(os.Stdout)
	if lp != nil {
		h = fanout{h, otelslog.NewHandler(service, otelslog.WithLoggerProvider(lp))}
	}
	slog.SetDefault(slog.New(NewHandler(h, service, maskFields)))
}

func newJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "ts"
			case slog.LevelKey:
				a.Key = "severity"
			case slog.SourceKey:
				src, ok := a.Value.Any().(*slog.Source)
				if !ok {
					return a
				}
				_, rel, found := strings.Cut(src.File, "/internal/")
				if !found {
					return slog.Attr{}
				}
				return slog.String("file", "internal/"+rel+":"+strconv.Itoa(src.Line))
			}
			return a
		},
	})
}

// NewHandler decorates next with the correlation id and service name of
// every record, masking the given keys.
func NewHandler(next slog.Handler, service string, maskFields []string) slog.Handler {
	keys := make(map[string]struct{}, len(maskFields))
	for _, f := range maskFields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys[f] = struct{}{}
		}
	}
	return &contextHandler{next: next, service: service, mask: keys}
}

type contextHandler struct {
	next    slog.Handler
	service string
	mask    map[string]struct{}
}

func (h *contextHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.maskAttr(a))
		return true
	})
	if id := GetCorrelationID(ctx); id != "" {
		out.AddAttrs(slog.String("_cID", id))
	}
	if h.service != "" {
		out.AddAttrs(slog.String("service", h.service))
	}
	return h.next.Handle(ctx, out)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cp[i] = h.maskAttr(a)
	}
	return &contextHandler{next: h.next.WithAttrs(cp), service: h.service, mask: h.mask}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), service: h.service, mask: h.mask}
}

func (h *contextHandler) hidden(key string) bool {
	_, ok := h.mask[strings.ToLower(key)]
	return ok
}

func (h *contextHandler) maskAttr(a slog.Attr) slog.Attr {
	if len(h.mask) == 0 {
		return a
	}
	if h.hidden(a.Key) {
		return slog.String(a.Key, masked)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, g := range group {
			out[i] = h.maskAttr(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	case slog.KindString:
		if s, ok := h.maskJSON([]byte(a.Value.String())); ok {
			return slog.String(a.Key, s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case []byte:
			if s, ok := h.maskJSON(v); ok {
				return slog.String(a.Key, s)
			}
		case map[string]any:
			return slog.Any(a.Key, h.maskValue(v))
		case map[string]string:
			m := make(map[string]any, len(v))
			for k, s := range v {
				m[k] = s
			}
			return slog.Any(a.Key, h.maskValue(m))
		}
	}
	return a
}

func (h *contextHandler) maskJSON(b []byte) (string, bool) {
	if len(b) == 0 || (b[0] != '{' && b[0] != '[') {
		return "", false
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return "", false
	}
	out, err := json.Marshal(h.maskValue(v))
	if err != nil {
		return "", false
	}
	return string(out), true
}

func (h *contextHandler) maskValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if h.hidden(k) {
				out[k] = masked
				continue
			}
			out[k] = h.maskValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = h.maskValue(val)
		}
		return out
	default:
		return v
	}
}

// fanout sends each record to every handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
