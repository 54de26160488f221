package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// writeTestFile is a helper that writes data to a file path.
func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func collect(ch <-chan string) []string {
	var out []string
	for line := range ch {
		out = append(out, line)
	}
	return out
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "abc", []string{"abc"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"bare cr", "a\rb", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
		{"only newline", "\n", []string{""}},
		{"cr then crlf", "a\r\r\nb", []string{"a", "", "b"}},
		{"form feed and vt", "a\fb\vc", []string{"a", "b", "c"}},
		{"unicode separators", "a\u2028b\u2029c\u0085d", []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestStreamLines_TrimsAndOrders(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	require.NoError(t, writeTestFile(a, "  <Doc>\r\n\t<Code>1</Code>  \r\n"))
	require.NoError(t, writeTestFile(b, "second\n\nthird"))

	lines := collect(StreamLines(context.Background(), []string{a, b}, "utf-8", zap.NewNop()))
	assert.Equal(t, []string{"<Doc>", "<Code>1</Code>", "second", "", "third"}, lines)
}

func TestStreamLines_DecodesWindows1251(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upd.xml")
	// `<КИЗ>` in windows-1251
	raw := []byte{'<', 0xCA, 0xC8, 0xC7, '>', '\n'}
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	lines := collect(StreamLines(context.Background(), []string{path}, "windows-1251", zap.NewNop()))
	assert.Equal(t, []string{"<КИЗ>"}, lines)
}

func TestStreamLines_ReplacesInvalidBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(path, []byte{'o', 'k', 0xFE, '\n'}, 0o644))

	lines := collect(StreamLines(context.Background(), []string{path}, "utf-8", zap.NewNop()))
	assert.Equal(t, []string{"ok�"}, lines)
}

func TestStreamLines_SkipsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.xml")
	require.NoError(t, writeTestFile(good, "line"))
	missing := filepath.Join(dir, "missing.xml")

	core, logs := observer.New(zap.WarnLevel)
	lines := collect(StreamLines(context.Background(), []string{missing, good}, "utf-8", zap.New(core)))

	assert.Equal(t, []string{"line"}, lines)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, missing, entry.ContextMap()["file"])
}

func TestStreamLines_UnknownEncodingSkipsEveryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.xml")
	require.NoError(t, writeTestFile(path, "line"))

	core, logs := observer.New(zap.WarnLevel)
	lines := collect(StreamLines(context.Background(), []string{path, path}, "no-such-charset", zap.New(core)))

	assert.Empty(t, lines)
	assert.Equal(t, 2, logs.Len())
}

func TestStreamLines_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.xml")
	content := make([]byte, 0, 20000)
	for range 10000 {
		content = append(content, 'x', '\n')
	}
	require.NoError(t, os.WriteFile(path, content, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	ch := StreamLines(ctx, []string{path}, "utf-8", zap.NewNop())
	<-ch
	cancel()

	// Drains without blocking forever; fewer than all lines arrive.
	n := 1 + len(collect(ch))
	assert.Less(t, n, 10000)
}

func TestStreamPattern(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(dir, "1.xml"), "one"))
	require.NoError(t, writeTestFile(filepath.Join(dir, "2.xml"), "two"))
	require.NoError(t, writeTestFile(filepath.Join(dir, "3.txt"), "three"))

	ch, err := StreamPattern(context.Background(), filepath.Join(dir, "*.xml"), "utf-8", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, collect(ch))
}

func TestSendLines_ReturnsContextError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.xml")
	require.NoError(t, writeTestFile(path, "one\ntwo"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nobody reads out, so the only way to return is through ctx.
	out := make(chan string)
	err := SendLines(ctx, []string{path}, "utf-8", zap.NewNop(), out)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSendLines_DoesNotCloseOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.xml")
	require.NoError(t, writeTestFile(path, "one\ntwo"))

	out := make(chan string, 4)
	require.NoError(t, SendLines(context.Background(), []string{path}, "utf-8", zap.NewNop(), out))

	out <- "three"
	close(out)
	assert.Equal(t, []string{"one", "two", "three"}, collect(out))
}
