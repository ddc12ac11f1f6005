package generator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shouni/gemini-idphoto-kit/pkg/utils"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

func (c *ImageAssetCore) fetchImageData(ctx context.Context, rawURL string) ([]byte, error) {
	if safe, err := IsSafeURL(rawURL); err != nil || !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}

	if strings.HasPrefix(rawURL, "gs://") {
		if c.reader == nil {
			return nil, fmt.Errorf("gs:// reader: %w", errSourceNotConfigured)
		}
		rc, err := c.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	if c.httpClient == nil {
		return nil, fmt.Errorf("http client: %w", errSourceNotConfigured)
	}
	return c.httpClient.FetchBytes(ctx, rawURL)
}

// parseToResponse はレスポンスから最初の画像パーツを取り出します。
// 画像がない場合は理由に応じて分類済みの responseError を返します。
func parseToResponse(resp *gemini.Response, seed int64) (*ImageOutput, error) {
	if resp == nil || resp.RawResponse == nil {
		return nil, &responseError{kind: KindEmptyResponse}
	}
	raw := resp.RawResponse

	if len(raw.Candidates) == 0 {
		if fb := raw.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return nil, &responseError{kind: KindSafetyBlocked, reason: string(fb.BlockReason)}
		}
		return nil, &responseError{kind: KindEmptyResponse}
	}

	var texts []string
	for _, candidate := range raw.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageOutput{Data: part.InlineData.Data, MimeType: part.InlineData.MIMEType, UsedSeed: seed}, nil
			}
			if part.Text != "" && !part.Thought {
				texts = append(texts, part.Text)
			}
		}
	}

	if reason := blockedFinishReason(raw.Candidates); reason != "" {
		return nil, &responseError{kind: KindSafetyBlocked, reason: reason}
	}
	if len(texts) > 0 {
		return nil, &responseError{kind: KindRefused, text: utils.Excerpt(strings.Join(texts, " "), refusalExcerptRunes)}
	}
	return nil, &responseError{kind: KindEmptyResponse}
}

func blockedFinishReason(candidates []*genai.Candidate) string {
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		reason := strings.ToLower(string(candidate.FinishReason))
		if containsAny(reason, []string{"safety", "prohibited", "blocklist", "spii", "image_safety"}) {
			return string(candidate.FinishReason)
		}
	}
	return ""
}
