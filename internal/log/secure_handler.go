package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// credentialKeys are attribute, header and query keys that always carry
// credentials. Keys are compared lower-cased.
var credentialKeys = newKeySet(
	"authorization", "proxy-authorization", "cookie", "set-cookie",
	"x-api-key", "x-auth-token",
	"password", "secret", "token", "api_token", "api_key", "apikey", "api-key",
	"access_token", "refresh_token",
	"session", "session_id", "sessionid", "sid",
)

// credentialKeywords mark a key as sensitive when contained anywhere in it.
// The bare "key" is left out because it matches too much ("sort_key").
var credentialKeywords = []string{
	"password", "secret", "token", "auth", "cookie", "credential",
}

// credentialValues match values that are credentials whatever their key.
var credentialValues = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	// Opaque API tokens
	regexp.MustCompile(`^[a-zA-Z0-9_-]{40,}$`),
}

// embeddedURL finds absolute URLs inside free text such as error messages.
var embeddedURL = regexp.MustCompile(`https?://[^\s"']+`)

func newKeySet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler is an slog.Handler that masks API tokens, session cookies
// and credential query parameters before records reach the wrapped handler.
//
// Design decision: masking lives in a handler rather than at the call
// sites, so the api, fetch and stats packages keep logging request URLs
// and errors through a plain *slog.Logger.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next. A nil next wraps slog.Default().Handler().
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler. URLs in the message are masked too.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, scrubText(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		masked = append(masked, sanitizeAttr(a))
	}
	return &SecureHandler{next: h.next.WithAttrs(masked)}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

// sanitizeAttr masks one attribute. Groups are walked recursively and
// errors are rendered to text so URLs inside them can be masked.
func sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		masked := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			masked = append(masked, sanitizeAttr(ga))
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	case slog.KindString:
		if isSensitiveKey(a.Key) || isSensitiveValue(a.Value.String()) {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, scrubText(a.Value.String()))
	case slog.KindAny:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, MaskValue)
		}
		if err, ok := a.Value.Any().(error); ok && err != nil {
			return slog.String(a.Key, scrubText(err.Error()))
		}
		return a
	default:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, MaskValue)
		}
		return a
	}
}

// isSensitiveKey reports whether an attribute or query key names a credential.
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if _, ok := credentialKeys[key]; ok {
		return true
	}
	for _, kw := range credentialKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, re := range credentialValues {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// scrubText masks every absolute URL embedded in s.
func scrubText(s string) string {
	if !strings.Contains(s, "://") {
		return s
	}
	return embeddedURL.ReplaceAllStringFunc(s, func(raw string) string {
		if masked, ok := sanitizeURL(raw); ok {
			return masked
		}
		return raw
	})
}

// sanitizeURL masks credential query parameters and user info of an
// absolute URL. It reports false when s is not a URL or nothing was masked.
func sanitizeURL(s string) (string, bool) {
	if !strings.Contains(s, "://") {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}

	changed := false
	if u.User != nil {
		u.User = url.User(MaskValue)
		changed = true
	}

	query := u.Query()
	for key := range query {
		if isSensitiveKey(key) {
			query.Set(key, MaskValue)
			changed = true
		}
	}
	if !changed {
		return "", false
	}
	u.RawQuery = query.Encode()

	// Encode escapes the mask; keep it readable.
	return strings.ReplaceAll(u.String(), url.QueryEscape(MaskValue), MaskValue), true
}

// NewSecureLogger returns a text logger writing to w through a
// SecureHandler. It logs at Warn, or Debug when verbose is set.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger creates a new slog.Logger with secure handling
// that outputs JSON format. The CLI uses it with --log-json.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
