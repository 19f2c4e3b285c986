package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

const componentKey = "component"

// TextHandler writes one line per record for reading in a terminal. A
// "component" attribute is lifted out of the attributes and shown in brackets
// after the level so output can be filtered by the part of the sorter that
// logged it.
type TextHandler struct {
	out       io.Writer
	component string
	mu        *sync.Mutex // Serialize writes to out
	attrs     []slog.Attr
}

func NewTextHandler(out io.Writer) *TextHandler {
	return &TextHandler{
		out:       out,
		mu:        &sync.Mutex{},
		component: "csvsort",
	}
}

func (h *TextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= globalLevel.Level()
}

func (h *TextHandler) Handle(ctx context.Context, r slog.Record) error {
	component := h.component
	buf := make([]byte, 0, 1024)

	for _, a := range h.attrs {
		buf = appendAttr(buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == componentKey {
			component = a.Value.String()
			return true
		}
		buf = appendAttr(buf, a)
		return true
	})

	line := make([]byte, 0, len(buf)+128)
	line = fmt.Appendf(line, "%s ", time.Now().Format("2006/01/02 15:04:05"))
	line = fmt.Appendf(line, "%s ", r.Level.String())
	line = fmt.Appendf(line, "[%s] ", component)
	line = fmt.Appendf(line, "%s", r.Message)
	line = append(line, buf...)
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line)
	return err
}

func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	attrs = slices.Clone(attrs)
	for i, a := range attrs {
		if a.Key == componentKey {
			next.component = a.Value.String()
			attrs = slices.Delete(attrs, i, i+1)
			break
		}
	}

	next.attrs = append(next.attrs, attrs...)
	return next
}

func (h *TextHandler) WithGroup(name string) slog.Handler {
	panic("groups not supported")
}

func (h *TextHandler) clone() *TextHandler {
	return &TextHandler{
		out:       h.out,
		mu:        h.mu,
		component: h.component,
		attrs:     slices.Clip(h.attrs),
	}
}

func appendAttr(buf []byte, a slog.Attr) []byte {
	buf = fmt.Appendf(buf, " %s=", a.Key)
	return appendValue(buf, a.Value)
}

// Append a value to the buffer wrapping in quotes if needed.
func appendValue(buf []byte, value slog.Value) []byte {
	s := value.String()
	if needsQuoting(s) {
		buf = fmt.Appendf(buf, "%q", s)
	} else {
		buf = fmt.Appendf(buf, "%s", s)
	}
	return buf
}

// Copied from the std library with safeSet check removed since really only
// spaces and `=` should be a problem with the text logger.
func needsQuoting(s string) bool {
	if len(s) == 0 {
		return true
	}
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			// Quote anything except a backslash that would need quoting in a
			// JSON string, as well as space and '='
			if b != '\\' && (b == ' ' || b == '=') {
				return true
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return true
		}
		i += size
	}
	return false
}
