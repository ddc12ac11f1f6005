package generator

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Messages は利用者向けメッセージのカタログです。
type Messages struct {
	Tag             language.Tag
	kinds           map[ErrorKind]string
	exhausted       map[ErrorKind]string
	missingKey      string
	invalidUserKey  string
	refusedWithText string
	retry           string
	retryQueued     string
}

// 先頭がデフォルト（アラビア語）
var messageMatcher = language.NewMatcher([]language.Tag{language.Arabic, language.English})

var arabicMessages = &Messages{
	Tag: language.Arabic,
	kinds: map[ErrorKind]string{
		KindBadInput:       "الصورة المرسلة غير صالحة أو التنسيق غير مدعوم. حاول استخدام صورة أخرى.",
		KindAuthFailure:    "مفتاح API غير صالح أو انتهت صلاحيته. يرجى التحقق من الإعدادات.",
		KindSafetyBlocked:  "لم تتم معالجة الصورة لأنها قد تخالف سياسات الأمان (محتوى غير لائق أو وجوه غير واضحة).",
		KindNotFound:       "النموذج المطلوب غير متاح حالياً. يرجى المحاولة لاحقاً.",
		KindOverloaded:     "الخادم مشغول جداً حالياً (429). يرجى المحاولة بعد قليل أو استخدام مفتاح خاص.",
		KindNetworkFailure: "مشكلة في الاتصال بالإنترنت. يرجى التحقق من الشبكة.",
		KindEmptyResponse:  "لم يتم استلام صورة من الخادم.",
		KindRefused:        "رفض النموذج معالجة الصورة.",
		KindUnknown:        "حدث خطأ غير معروف. يرجى المحاولة لاحقاً.",
	},
	exhausted: map[ErrorKind]string{
		KindOverloaded:     "الخادم ما زال مشغولاً بعد عدة محاولات تلقائية. يرجى المحاولة لاحقاً أو استخدام مفتاح خاص.",
		KindNetworkFailure: "تعذر الاتصال بالخادم بعد عدة محاولات. تحقق من الشبكة ومن أن مانع الإعلانات أو الجدار الناري لا يحظر الاتصال بخادم Google.",
		KindEmptyResponse:  "لم يتم استلام صورة من الخادم بعد إعادة المحاولة. جرّب صورة أخرى أو أعد المحاولة لاحقاً.",
	},
	missingKey:      "مفتاح النظام مفقود. يرجى إدخال مفتاح خاص من الإعدادات.",
	invalidUserKey:  "المفتاح المدخل غير صالح.",
	refusedWithText: "رفض النموذج معالجة الصورة: %s",
	retry:           "الخادم مشغول، محاولة %d/%d...",
	retryQueued:     "الخادم مشغول، أنت في قائمة الانتظار (الترتيب %d)، محاولة %d/%d...",
}

var englishMessages = &Messages{
	Tag: language.English,
	kinds: map[ErrorKind]string{
		KindBadInput:       "The photo is invalid or its format is not supported. Please try another photo.",
		KindAuthFailure:    "The API key is invalid or has expired. Please check your settings.",
		KindSafetyBlocked:  "The photo was not processed because it may violate safety policies (inappropriate content or unclear faces).",
		KindNotFound:       "The requested model is currently unavailable. Please try again later.",
		KindOverloaded:     "The server is very busy right now (429). Please try again shortly or use your own API key.",
		KindNetworkFailure: "Network problem. Please check your internet connection.",
		KindEmptyResponse:  "No image was received from the server.",
		KindRefused:        "The model refused to process the photo.",
		KindUnknown:        "An unknown error occurred. Please try again later.",
	},
	exhausted: map[ErrorKind]string{
		KindOverloaded:     "The server is still busy after several automatic retries. Please try again later or use your own API key.",
		KindNetworkFailure: "Could not reach the server after several attempts. Check your network and make sure no ad-blocker or firewall is blocking Google's API host.",
		KindEmptyResponse:  "No image was received even after retrying. Try another photo or try again later.",
	},
	missingKey:      "The system API key is missing. Please enter your own key in the settings.",
	invalidUserKey:  "The API key you entered is invalid.",
	refusedWithText: "The model refused to process the photo: %s",
	retry:           "Server busy, retry %d/%d...",
	retryQueued:     "Server busy, you are in the queue (position %d), retry %d/%d...",
}

// MessagesFor はロケール文字列（"ar", "en-US", Accept-Language 形式など）に最も近いカタログを返します。
func MessagesFor(locale string) *Messages {
	_, index := language.MatchStrings(messageMatcher, locale)
	if index == 1 {
		return englishMessages
	}
	return arabicMessages
}

// Error は分類に応じたメッセージを返します。detail は拒否理由の抜粋にだけ使います。
func (m *Messages) Error(kind ErrorKind, exhausted bool, detail string) string {
	if exhausted {
		if msg, ok := m.exhausted[kind]; ok {
			return msg
		}
	}
	if kind == KindRefused && detail != "" {
		return fmt.Sprintf(m.refusedWithText, detail)
	}
	if msg, ok := m.kinds[kind]; ok {
		return msg
	}
	return m.kinds[KindUnknown]
}

// Credential は認証キーが解決できなかったときのメッセージです。
func (m *Messages) Credential(err error) string {
	if errors.Is(err, ErrInvalidCredential) {
		return m.invalidUserKey
	}
	return m.missingKey
}

// Retry はリトライ待ちの進捗メッセージです。queuePosition が 0 のときは順番を表示しません。
func (m *Messages) Retry(retry, maxRetries, queuePosition int) string {
	if queuePosition > 0 {
		return fmt.Sprintf(m.retryQueued, queuePosition, retry, maxRetries)
	}
	return fmt.Sprintf(m.retry, retry, maxRetries)
}
