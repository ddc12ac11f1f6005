package utils

import "strings"

// DereferenceSeed は、int64のポインタを安全にデリファレンスします。
// ポインタがnilの場合は0を返します。
func DereferenceSeed(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

// Excerpt は空白を詰めたうえで最大 maxRunes 文字に切り詰めます。
// 切り詰めた場合は末尾に "…" を付けます。マルチバイト文字の途中では切りません。
func Excerpt(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "…"
}
