// Package model は端末に永続化される提出フロー関連のデータ型を定義する。
package model

// Result は検査結果の状態を表す。
type Result string

const (
	// ResultPending は検査結果待ち
	ResultPending Result = "pending"
	// ResultNegative は陰性
	ResultNegative Result = "negative"
	// ResultPositive は陽性
	ResultPositive Result = "positive"
	// ResultInvalid は検査無効
	ResultInvalid Result = "invalid"
)

// IsTerminal はpending以外の確定状態かどうかを判定する。
func (r Result) IsTerminal() bool {
	return r == ResultNegative || r == ResultPositive || r == ResultInvalid
}

// IsValid は定義済みの状態かどうかを判定する。
func (r Result) IsValid() bool {
	return r == ResultPending || r.IsTerminal()
}

// TestResult は検査結果を表す。
// Valkeyキー: cwa:{DeviceID}:testresult
type TestResult struct {
	Result               Result `json:"result" redis:"result"`                                 // 検査結果
	DateTestCommunicated string `json:"date_test_communicated" redis:"date_test_communicated"` // 結果通知日（確定時のみ）
	ReceivedAt           int64  `json:"received_at" redis:"received_at"`                       // 確定結果の受信時刻（Unix秒）
	Acknowledged         bool   `json:"acknowledged" redis:"acknowledged"`                     // 受領確認送信済み
}

// NewPendingTestResult は登録直後のpending状態のTestResultを生成する。
func NewPendingTestResult() *TestResult {
	return &TestResult{Result: ResultPending}
}
