package generator

import (
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shouni/gemini-idphoto-kit/pkg/domain"
)

// RetryPolicy は認証モードごとの前処理サイズとリトライ設定です。
type RetryPolicy struct {
	MainMaxDimension      int
	MainQuality           int
	ReferenceMaxDimension int
	ReferenceQuality      int

	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxJitter  time.Duration
}

// MaxAttempts は初回を含めた API 呼び出しの上限回数です。
func (p RetryPolicy) MaxAttempts() int {
	return p.MaxRetries + 1
}

// Policies は共有キー用とユーザーキー用のポリシーの組です。
type Policies struct {
	Shared RetryPolicy
	User   RetryPolicy
}

// DefaultPolicies は製品の既定値を返します。
// 共有キーは混雑しやすいため画像を小さくし、長めに待って多めに再試行します。
func DefaultPolicies() Policies {
	return Policies{
		Shared: RetryPolicy{
			MainMaxDimension:      1024,
			MainQuality:           85,
			ReferenceMaxDimension: 300,
			ReferenceQuality:      80,
			MaxRetries:            3,
			BaseDelay:             3 * time.Second,
			MaxDelay:              12 * time.Second,
			MaxJitter:             time.Second,
		},
		User: RetryPolicy{
			MainMaxDimension:      1536,
			MainQuality:           90,
			ReferenceMaxDimension: 300,
			ReferenceQuality:      80,
			MaxRetries:            1,
			BaseDelay:             time.Second,
			MaxDelay:              2 * time.Second,
			MaxJitter:             250 * time.Millisecond,
		},
	}
}

// For はモードに対応するポリシーを返します。
func (p Policies) For(mode domain.CredentialMode) RetryPolicy {
	if mode == domain.CredentialUser {
		return p.User
	}
	return p.Shared
}

// JitterFunc は [0, max) の揺らぎを返します。
type JitterFunc func(max time.Duration) time.Duration

func defaultJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return rand.N(max)
}

// jitteredBackOff は base·2^n に揺らぎを足し、MaxDelay で頭打ちにします。
// 揺らぎは BaseDelay 未満に抑えるため、待ち時間は単調に増加（または上限で横ばい）します。
type jitteredBackOff struct {
	exp       *backoff.ExponentialBackOff
	maxDelay  time.Duration
	maxJitter time.Duration
	jitter    JitterFunc
}

// NewBackOff はポリシーから backoff.BackOff を作ります。回数の上限は呼び出し側で WithMaxRetries を使って掛けます。
func NewBackOff(p RetryPolicy, jitter JitterFunc) backoff.BackOff {
	if jitter == nil {
		jitter = defaultJitter
	}
	maxDelay := p.MaxDelay
	if maxDelay < p.BaseDelay {
		maxDelay = p.BaseDelay
	}
	maxJitter := p.MaxJitter
	if maxJitter > p.BaseDelay {
		maxJitter = p.BaseDelay
	}
	if maxJitter < 0 {
		maxJitter = 0
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.RandomizationFactor = 0
	exp.Multiplier = 2
	exp.MaxInterval = maxDelay
	exp.MaxElapsedTime = 0
	exp.Reset()

	return &jitteredBackOff{
		exp:       exp,
		maxDelay:  maxDelay,
		maxJitter: maxJitter,
		jitter:    jitter,
	}
}

func (b *jitteredBackOff) NextBackOff() time.Duration {
	d := b.exp.NextBackOff()
	if d == backoff.Stop {
		return backoff.Stop
	}
	if b.maxJitter > 0 {
		j := b.jitter(b.maxJitter)
		if j >= b.maxJitter {
			j = b.maxJitter - 1
		}
		if j > 0 {
			d += j
		}
	}
	if d > b.maxDelay {
		d = b.maxDelay
	}
	return d
}

func (b *jitteredBackOff) Reset() {
	b.exp.Reset()
}
