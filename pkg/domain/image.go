package domain

import "strings"

// ImageSource は参照画像の入力元です。Data と URL のどちらか一方を指定します。
// URL は http(s):// と gs:// に対応します。
type ImageSource struct {
	Data []byte
	URL  string
}

// IsEmpty は画像データも URL も指定されていない場合に true を返します。
func (s *ImageSource) IsEmpty() bool {
	return s == nil || (len(s.Data) == 0 && strings.TrimSpace(s.URL) == "")
}

// ImageResponse は生成された証明写真とそのメタデータです。
// Data の所有権は呼び出し元に移ります。
type ImageResponse struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
	UsedSeed int64 // 戻り値は情報欠落を防ぐため int64
	Attempts int   // API 呼び出し回数（1 ならリトライなし）
	Mode     CredentialMode
}

// Retries は実行されたリトライ回数を返します。
func (r *ImageResponse) Retries() int {
	if r == nil || r.Attempts <= 1 {
		return 0
	}
	return r.Attempts - 1
}
