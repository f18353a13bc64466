package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys that are always masked. These are
// the parameter and header names a MediaWiki bot actually sends.
var sensitiveKeys = map[string]bool{
	// Login API parameters
	"lgpassword": true,
	"lgtoken":    true,
	"password":   true,

	// Action tokens
	"token":         true,
	"csrftoken":     true,
	"csrf_token":    true,
	"logintoken":    true,
	"rollbacktoken": true,
	"watchtoken":    true,

	// OAuth
	"oauth_token":           true,
	"oauth_token_secret":    true,
	"oauth_consumer_secret": true,

	// HTTP
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,

	// Config
	"botpassword": true,
	"secret":      true,
	"credential":  true,
	"credentials": true,
}

// sensitivePatterns match values that look like credentials regardless of
// the attribute key they were logged under.
var sensitivePatterns = []*regexp.Regexp{
	// MediaWiki CSRF tokens end in "+\" (URL form "+%5C\\").
	regexp.MustCompile(`^[0-9a-f]{32,}\+\\$`),

	// BotPassword secrets are 32 lowercase alphanumerics.
	regexp.MustCompile(`^[0-9a-z]{32}$`),

	// Session cookies in "name=value" form.
	regexp.MustCompile(`(?i)^[a-z0-9_]*session[a-z0-9_]*=`),

	// Bearer / Basic auth header values.
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
}

// MaskValue is the string used to replace masked values.
const MaskValue = "***REDACTED***"

// MaskingHandler wraps an slog.Handler and redacts credential attributes
// before records reach the underlying handler. It works with any handler
// (text, JSON) and with libraries that accept a *slog.Logger.
type MaskingHandler struct {
	handler slog.Handler
}

// NewMaskingHandler creates a MaskingHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewMaskingHandler(handler slog.Handler) *MaskingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &MaskingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *MaskingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added,
// masked first.
func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &MaskingHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursing into groups.
func (h *MaskingHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		if isSensitiveValue(a.Value.String()) {
			return slog.String(a.Key, MaskValue)
		}
	}

	return a
}

// containsSensitiveKeyword checks whether the key embeds a credential word.
// The bare word "token" is included deliberately: every MediaWiki token is
// a credential, and no benign attribute in this codebase uses the word.
func containsSensitiveKeyword(key string) bool {
	for _, keyword := range []string{"password", "token", "secret", "cookie", "credential"} {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks whether a value matches a credential pattern.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// NewLogger creates a credential-masking text logger writing to w.
// verbose selects Debug level; otherwise Warn.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewMaskingHandler(textHandler))
}

// NewJSONLogger is NewLogger with JSON output, for log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewMaskingHandler(jsonHandler))
}
