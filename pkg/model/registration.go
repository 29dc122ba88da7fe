package model

// Registration は端末に保存されたMobileTestIdの登録情報を表す。
// Valkeyキー: cwa:{DeviceID}:registration
type Registration struct {
	RegistrationToken     string `json:"registration_token" redis:"registration_token"`           // "{id}|{date}"
	TestID                string `json:"test_id" redis:"test_id"`                                 // 15桁コード
	DatePatientInfectious string `json:"date_patient_infectious" redis:"date_patient_infectious"` // 感染可能開始日
	RegisteredAt          int64  `json:"registered_at" redis:"registered_at"`                     // 登録時刻（Unix秒）
}

// HasToken は有効なRegistration Tokenを保持しているかどうかを返す。
func (r *Registration) HasToken() bool {
	return r != nil && r.RegistrationToken != ""
}

// SubmissionRecord は直近の提出結果を表す。
// Valkeyキー: cwa:{DeviceID}:submission
type SubmissionRecord struct {
	SubmittedAt int64 `json:"submitted_at" redis:"submitted_at"` // 提出完了時刻（Unix秒）
	KeyCount    int   `json:"key_count" redis:"key_count"`       // 提出したキー数
	NoKeys      bool  `json:"no_keys" redis:"no_keys"`           // キーなしで終了した場合true
	CoviCode    bool  `json:"covi_code" redis:"covi_code"`       // covi-code経由の提出
}
