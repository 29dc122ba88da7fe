package model

// TemporaryExposureKey は端末から取得した診断キーを表す。
type TemporaryExposureKey struct {
	KeyData                    []byte `json:"keyData"`                    // 16バイト
	TransmissionRiskLevel      int32  `json:"transmissionRiskLevel"`      // 1-8
	RollingStartIntervalNumber int32  `json:"rollingStartIntervalNumber"` // 10分単位のUnix時刻
	RollingPeriod              int32  `json:"rollingPeriod"`              // 通常144
}
