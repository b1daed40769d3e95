package security

import "testing"

// TestSanitize_StripsAllTags は自由記述テキストから全タグが除去されることを検証する。
func TestSanitize_StripsAllTags(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "scriptタグが除去される",
			input: `作業内容<script>alert("xss")</script>まとめ`,
			want:  "作業内容まとめ",
		},
		{
			name:  "imgタグのonerrorが除去される",
			input: `<img src=x onerror=alert(1)>レビュー対応`,
			want:  "レビュー対応",
		},
		{
			name:  "通常のタグもすべて除去される",
			input: "<p>API実装と<strong>テスト</strong></p>",
			want:  "API実装とテスト",
		},
		{
			name:  "aタグはテキストのみ残る",
			input: `<a href="https://example.com">チケット参照</a>`,
			want:  "チケット参照",
		},
		{
			name:  "プレーンテキストはそのまま通過する",
			input: "承認フローの実装とレビュー対応",
			want:  "承認フローの実装とレビュー対応",
		},
		{
			name:  "前後の空白が除去される",
			input: "  API実装  ",
			want:  "API実装",
		},
		{
			name:  "空文字列は空文字列のまま",
			input: "",
			want:  "",
		},
		{
			name:  "タグのみの入力は空文字列になる",
			input: "<script></script>",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_Idempotent は同一入力に対して常に同一出力となることを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	input := `<b>API実装</b>とレビュー対応`
	first := sanitizer.Sanitize(input)
	second := sanitizer.Sanitize(first)

	if first != second {
		t.Errorf("Sanitize is not idempotent: first = %q, second = %q", first, second)
	}
}
