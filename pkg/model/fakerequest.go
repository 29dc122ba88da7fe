package model

// FakeRequestState はダミー通信シーケンスの進行状態を表す。
// Valkeyキー: cwa:{DeviceID}:fakerequest
type FakeRequestState struct {
	Allowed         bool  `json:"allowed" redis:"allowed"`                     // バックグラウンド実行許可
	Doing           bool  `json:"doing" redis:"doing"`                         // シーケンス実行中
	AmountOfFetches int   `json:"amount_of_fetches" redis:"amount_of_fetches"` // 今回の検査結果取得回数
	FetchIndex      int   `json:"fetch_index" redis:"fetch_index"`             // 実行済み取得回数
	OnboardedAt     int64 `json:"onboarded_at" redis:"onboarded_at"`           // オンボーディング完了時刻（Unix秒）
}

// FetchesRemaining は未実行の取得が残っているかどうかを返す。
func (s *FakeRequestState) FetchesRemaining() bool {
	return s.FetchIndex < s.AmountOfFetches
}

// Reset はシーケンスを終了し、待機状態に戻す。
func (s *FakeRequestState) Reset() {
	s.Doing = false
	s.AmountOfFetches = 0
	s.FetchIndex = 0
}
