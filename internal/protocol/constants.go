package protocol

// HTTPヘッダ名
const (
	HeaderContentType           = "Content-Type"
	HeaderSecretKey             = "Secret-Key"
	HeaderCoviCode              = "Covi-Code"
	HeaderRandomString          = "Random-String"
	HeaderDatePatientInfectious = "Date-Patient-Infectious"
	HeaderDateTestCommunicated  = "Date-Test-Communicated"
	HeaderFake                  = "cwa-fake"
	HeaderPadding               = "cwa-header-padding"
)

// Content-Type
const (
	ContentTypeProtobuf = "application/x-protobuf"
	ContentTypeJSON     = "application/json"
)

// cwa-fakeヘッダ値
const (
	FakeHeaderReal  = "0"
	FakeHeaderDecoy = "1"
)

// APIパス
const (
	PathDiagnosisKeys = "/version/v1/diagnosis-keys"
	PathTestResult    = "/version/v1/testresult/"
	PathAckSuffix     = "/ack"
)

// パディング設定
const (
	// KeySlotBytes はキー1件の最大エンコード長（外側のタグと長さを含む）
	// key_data 18 + リスクレベル 2 + 非負int32 6 × 2 + タグ・長さ 2
	KeySlotBytes = 34
	// MinRequestPadding はrequestPaddingの最小長。長さプレフィクスは常に2バイトになる
	MinRequestPadding = 128
	// HeaderSizeTarget は全ヘッダの名前と値の合計長の目標値
	HeaderSizeTarget = 256
	// CoviCodeLength はcovi-codeの文字数
	CoviCodeLength = 12
	// KeyDataLength はTemporaryExposureKeyの鍵長
	KeyDataLength = 16
)
