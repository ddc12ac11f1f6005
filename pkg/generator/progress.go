package generator

import "time"

// ProgressEvent はリトライ待ちに入るときに通知される状態です。
type ProgressEvent struct {
	Retry       int // 何回目のリトライか (1 始まり)
	Attempt     int // 次に行う API 呼び出しの番号
	MaxAttempts int
	Wait        time.Duration
	// QueuePosition は共有キー利用時の疑似的な待ち順です。ユーザーキーでは 0。
	QueuePosition int
	Kind          ErrorKind
	Message       string
}

// ProgressFunc は進捗の受け取り口です。nil を渡すと通知しません。
type ProgressFunc func(ProgressEvent)

// ChannelProgress はチャネルへ送る ProgressFunc を返します。
// 受信側が詰まっていてもイベントを捨てて先へ進むため、生成処理は止まりません。
func ChannelProgress(ch chan<- ProgressEvent) ProgressFunc {
	return func(ev ProgressEvent) {
		select {
		case ch <- ev:
		default:
		}
	}
}
