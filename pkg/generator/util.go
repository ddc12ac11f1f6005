package generator

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/url"
)

// seedInRange は int32 に収まらないシード値を警告付きで nil (ランダム) にします。
func seedInRange(s *int64) *int64 {
	if s == nil {
		return nil
	}
	if *s < math.MinInt32 || *s > math.MaxInt32 {
		slog.Warn("シード値が int32 の範囲外のため無視します", "seed", *s)
		return nil
	}
	return s
}

// seedToPtrInt32 は *int64 を SDK 用の *int32 に変換します。範囲外の値は nil になります。
func seedToPtrInt32(s *int64) *int32 {
	s = seedInRange(s)
	if s == nil {
		return nil
	}
	v := int32(*s)
	return &v
}

// IsSafeURL は、SSRF (Server-Side Request Forgery) 対策として URL を検証します。
// gs:// はストレージ読み込みなのでそのまま許可します。
// http(s) はプライベートIPやループバックアドレスをターゲットにしていないことを確認します。
func IsSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	switch parsedURL.Scheme {
	case "gs":
		if parsedURL.Host == "" {
			return false, fmt.Errorf("バケット名がありません: %s", rawURL)
		}
		return true, nil
	case "http", "https":
	default:
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	if host == "" {
		return false, fmt.Errorf("ホスト名がありません: %s", rawURL)
	}

	ips := []net.IP{net.ParseIP(host)}
	if ips[0] == nil {
		ips, err = net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("ホスト '%s' の名前解決に失敗しました: %w", host, err)
		}
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
