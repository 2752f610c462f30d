package common

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// MaskedValue replaces anything the masker hides.
const MaskedValue = "***MASKED***"

// SensitivePattern detects a secret inside free text.
type SensitivePattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// DefaultSensitiveKeys are attribute and header names whose values are never logged.
var DefaultSensitiveKeys = []string{"auth_key", "key", "password", "email"}

// DefaultSensitivePatterns cover secrets that show up inside response bodies and header dumps.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		Name:        "auth_key",
		Regex:       regexp.MustCompile(`(?i)("?(?:auth_key|key)"?\s*[:=]\s*"?)([^"',}\]\s]+)`),
		Replacement: "${1}" + MaskedValue,
	},
	{
		Name:        "password",
		Regex:       regexp.MustCompile(`(?i)("?(?:password|passwd|pwd)"?\s*[:=]\s*"?)([^"',}\]\s]+)`),
		Replacement: "${1}" + MaskedValue,
	},
	{
		Name:        "email",
		Regex:       regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		Replacement: MaskedValue,
	},
}

// Masker hides credentials and auth keys in log output.
type Masker struct {
	keys     map[string]struct{}
	patterns []SensitivePattern
	enabled  bool
}

// NewMasker creates a masker with the default keys and patterns.
func NewMasker() *Masker {
	m := &Masker{keys: map[string]struct{}{}, patterns: DefaultSensitivePatterns, enabled: true}
	for _, k := range DefaultSensitiveKeys {
		m.keys[k] = struct{}{}
	}
	return m
}

// SetEnabled enables or disables masking
func (m *Masker) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// IsEnabled returns whether masking is enabled
func (m *Masker) IsEnabled() bool {
	return m != nil && m.enabled
}

// AddKey marks another attribute name as sensitive.
func (m *Masker) AddKey(key string) {
	m.keys[strings.ToLower(strings.TrimSpace(key))] = struct{}{}
}

// MaskString masks sensitive information in a string
func (m *Masker) MaskString(input string) string {
	if !m.IsEnabled() {
		return input
	}
	out := input
	for _, p := range m.patterns {
		out = p.Regex.ReplaceAllString(out, p.Replacement)
	}
	return out
}

// MaskValue masks value entirely when key is sensitive, otherwise masks secrets inside it.
func (m *Masker) MaskValue(key string, value string) string {
	if !m.IsEnabled() {
		return value
	}
	if _, ok := m.keys[strings.ToLower(key)]; ok {
		return MaskedValue
	}
	return m.MaskString(value)
}

func (m *Masker) maskAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, m.MaskValue(a.Key, a.Value.String()))
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]any, 0, len(group))
		for _, g := range group {
			out = append(out, m.maskAttr(g))
		}
		return slog.Group(a.Key, out...)
	default:
		if _, ok := m.keys[strings.ToLower(a.Key)]; ok && m.enabled {
			return slog.String(a.Key, MaskedValue)
		}
		return a
	}
}

// maskingHandler runs every attribute through a Masker before delegating.
type maskingHandler struct {
	next   slog.Handler
	masker *Masker
}

func (h *maskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *maskingHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.masker.IsEnabled() {
		return h.next.Handle(ctx, r)
	}
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.masker.maskAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *maskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.masker.maskAttr(a)
	}
	return &maskingHandler{next: h.next.WithAttrs(masked), masker: h.masker}
}

func (h *maskingHandler) WithGroup(name string) slog.Handler {
	return &maskingHandler{next: h.next.WithGroup(name), masker: h.masker}
}

var globalMasker = NewMasker()

// SetGlobalMasker sets the global masker instance
func SetGlobalMasker(masker *Masker) {
	globalMasker = masker
}

// GetGlobalMasker returns the global masker instance
func GetGlobalMasker() *Masker {
	return globalMasker
}

// MaskSensitiveData masks sensitive data using the global masker
func MaskSensitiveData(input string) string {
	return globalMasker.MaskString(input)
}

// EnableMasking enables/disables global masking
func EnableMasking(enabled bool) {
	globalMasker.SetEnabled(enabled)
}
