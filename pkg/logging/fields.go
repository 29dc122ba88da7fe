package logging

import "log/slog"

// ログフィールド名の定数
const (
	FieldEventID           = "event_id"
	FieldError             = "error"
	FieldLatencyMs         = "latency_ms"
	FieldHTTPStatus        = "http_status"
	FieldFake              = "fake"
	FieldTestID            = "test_id"
	FieldRegistrationToken = "registration_token"
	FieldFetchIndex        = "fetch_index"
	FieldFetchTotal        = "fetch_total"
)

// WithEventID はイベントIDのslog.Attrを返す。
func WithEventID(eventID string) slog.Attr {
	return slog.String(FieldEventID, eventID)
}

// WithError はエラーのslog.Attrを返す。
func WithError(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// WithLatency はレイテンシ（ミリ秒）のslog.Attrを返す。
func WithLatency(ms int64) slog.Attr {
	return slog.Int64(FieldLatencyMs, ms)
}

// WithHTTPStatus はHTTPステータスコードのslog.Attrを返す。
func WithHTTPStatus(status int) slog.Attr {
	return slog.Int(FieldHTTPStatus, status)
}

// WithFake はダミー通信かどうかのslog.Attrを返す。
func WithFake(fake bool) slog.Attr {
	return slog.Bool(FieldFake, fake)
}

// WithFetchProgress はダミーシーケンスの進捗のslog.Attrを返す。
func WithFetchProgress(index, total int) []any {
	return []any{
		slog.Int(FieldFetchIndex, index),
		slog.Int(FieldFetchTotal, total),
	}
}

// CommonFields はマスキング設定を保持するログフィールド生成器。
type CommonFields struct {
	masker *Masker
}

// NewCommonFields は新しいCommonFieldsを生成する。
func NewCommonFields(masker *Masker) *CommonFields {
	if masker == nil {
		masker = NewMasker(true)
	}
	return &CommonFields{masker: masker}
}

// WithTestID はマスキングされたMobileTestIdのslog.Attrを返す。
func (cf *CommonFields) WithTestID(testID string) slog.Attr {
	return slog.String(FieldTestID, cf.masker.TestID(testID))
}

// WithRegistrationToken はマスキングされたRegistration Tokenのslog.Attrを返す。
func (cf *CommonFields) WithRegistrationToken(token string) slog.Attr {
	return slog.String(FieldRegistrationToken, cf.masker.RegistrationToken(token))
}

// RegistrationLogFields は登録フロー用の共通フィールドを返す。
func (cf *CommonFields) RegistrationLogFields(eventID, token string) []any {
	return []any{
		WithEventID(eventID),
		cf.WithRegistrationToken(token),
	}
}
