package operation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultDangerousPaths(), DefaultMaxPreviewLength)
}

func TestAnalyzer_Analyze_Validation(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		name   string
		opType Type
		params map[string]any
	}{
		{"empty type", "", map[string]any{"target": "x"}},
		{"unknown type", Type("bogus"), map[string]any{"target": "x"}},
		{"nil params", TypeFileRead, nil},
		{"missing target", TypeFileRead, map[string]any{}},
		{"empty target", TypeFileRead, map[string]any{"target": ""}},
		{"non-string target", TypeFileRead, map[string]any{"target": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := a.Analyze(tt.opType, tt.params)
			require.Error(t, err)
			assert.Nil(t, info)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestAnalyzer_ClassifyRisk(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		name     string
		opType   Type
		target   string
		expected RiskLevel
	}{
		{"read plain file", TypeFileRead, "main.go", RiskLow},
		{"read dangerous path", TypeFileRead, "/etc/hosts", RiskHigh},
		{"create plain file", TypeFileCreate, "app.py", RiskHigh},
		{"create in etc escalates", TypeFileCreate, "/etc/passwd", RiskCritical},
		{"write ssh key escalates", TypeFileWrite, "/home/u/.ssh/id_rsa", RiskCritical},
		{"install already critical", TypePackageInstall, "leftpad", RiskCritical},
		{"install dangerous stays critical", TypePackageInstall, "/usr/lib/thing", RiskCritical},
		{"git config escalates", TypeFileWrite, "repo/.git/config", RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.ClassifyRisk(tt.opType, tt.target))
		})
	}
}

func TestAnalyzer_ClassifyRisk_Deterministic(t *testing.T) {
	a := newTestAnalyzer()

	first := a.ClassifyRisk(TypeFileWrite, "/etc/passwd")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, a.ClassifyRisk(TypeFileWrite, "/etc/passwd"))
	}
}

func TestAnalyzer_Analyze_Description(t *testing.T) {
	a := newTestAnalyzer()

	info, err := a.Analyze(TypeFileCreate, map[string]any{
		"target":  "app.py",
		"content": "print('hello')",
	})
	require.NoError(t, err)

	assert.Contains(t, info.Description, "Create file app.py")
	assert.Contains(t, info.Description, "print('hello')")
}

func TestAnalyzer_Analyze_DescriptionExcerptTruncated(t *testing.T) {
	a := newTestAnalyzer()
	content := strings.Repeat("x", 80)

	info, err := a.Analyze(TypeFileWrite, map[string]any{
		"target":  "big.txt",
		"content": content,
	})
	require.NoError(t, err)

	assert.Contains(t, info.Description, strings.Repeat("x", 50)+"...")
	assert.NotContains(t, info.Description, strings.Repeat("x", 51))
}

func TestAnalyzer_Analyze_ContentPreview(t *testing.T) {
	a := newTestAnalyzer()

	info, err := a.Analyze(TypeFileCreate, map[string]any{
		"target":  "app.py",
		"content": "print('hello')",
	})
	require.NoError(t, err)
	assert.Equal(t, "print('hello')", info.Preview)
}

func TestAnalyzer_Analyze_PreviewTruncated(t *testing.T) {
	a := NewAnalyzer(nil, 10)

	info, err := a.Analyze(TypeFileCreate, map[string]any{
		"target":  "big.txt",
		"content": strings.Repeat("a", 50),
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 10)+"... (truncated)", info.Preview)
}

func TestAnalyzer_Analyze_MultibyteTruncationStaysValidUTF8(t *testing.T) {
	a := newTestAnalyzer()

	// The excerpt cut at 50 bytes and the preview cap both land inside a
	// multibyte rune here; neither output may contain a split rune.
	info, err := a.Analyze(TypeFileWrite, map[string]any{
		"target":  "notes.txt",
		"content": strings.Repeat("a", 49) + strings.Repeat("日本語のテキスト", 40),
	})
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(info.Description))
	assert.NotContains(t, info.Description, string(utf8.RuneError))
	assert.True(t, utf8.ValidString(info.Preview))
	assert.NotContains(t, info.Preview, string(utf8.RuneError))
	assert.Contains(t, info.Preview, "... (truncated)")
}

func TestAnalyzer_Analyze_MultibytePreviewCutOnRuneBoundary(t *testing.T) {
	a := NewAnalyzer(nil, 10)

	info, err := a.Analyze(TypeFileCreate, map[string]any{
		"target":  "notes.txt",
		"content": strings.Repeat("日", 10),
	})
	require.NoError(t, err)

	// 10 bytes falls inside the fourth three-byte rune; the cut backs up to
	// the previous boundary.
	assert.Equal(t, strings.Repeat("日", 3)+"... (truncated)", info.Preview)
}

func TestAnalyzer_Analyze_CommandPreview(t *testing.T) {
	a := newTestAnalyzer()

	info, err := a.Analyze(TypeCommandExec, map[string]any{
		"target":  "rm",
		"command": "rm -rf build/",
	})
	require.NoError(t, err)
	assert.Equal(t, "command: rm -rf build/", info.Preview)

	// Falls back to target when no command is given.
	info, err = a.Analyze(TypeCommandExec, map[string]any{"target": "ls -la"})
	require.NoError(t, err)
	assert.Equal(t, "command: ls -la", info.Preview)
}

func TestAnalyzer_Analyze_NoPreviewForRead(t *testing.T) {
	a := newTestAnalyzer()

	info, err := a.Analyze(TypeFileRead, map[string]any{"target": "main.go"})
	require.NoError(t, err)
	assert.Empty(t, info.Preview)
}

func TestAnalyzer_Analyze_DiffPreview(t *testing.T) {
	a := newTestAnalyzer()

	info, err := a.Analyze(TypeFileWrite, map[string]any{
		"target":      "main.go",
		"content":     "package main\n\nfunc main() {}\n",
		"old_content": "package main\n",
	})
	require.NoError(t, err)

	assert.Contains(t, info.Preview, "main.go (current)")
	assert.Contains(t, info.Preview, "+func main() {}")
}

func TestNewInfo_Validation(t *testing.T) {
	_, err := NewInfo("", "t", "d", RiskLow, nil)
	require.Error(t, err)

	_, err = NewInfo(TypeFileRead, "", "d", RiskLow, nil)
	require.Error(t, err)

	_, err = NewInfo(TypeFileRead, "t", "", RiskLow, nil)
	require.Error(t, err)

	_, err = NewInfo(TypeFileRead, "t", "d", RiskLevel(9), nil)
	require.Error(t, err)

	info, err := NewInfo(TypeFileRead, "t", "d", RiskLow, nil)
	require.NoError(t, err)
	assert.False(t, info.AnalyzedAt.IsZero())
}
