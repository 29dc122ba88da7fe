package protocol

import "github.com/oyaguma3/cwa-submission-client/pkg/model"

// CredentialKind は提出に使用する認証情報の種類
type CredentialKind int

const (
	// CredentialMobileTestID はMobileTestIdによる提出
	CredentialMobileTestID CredentialKind = iota
	// CredentialCoviCode はcovi-codeによる提出
	CredentialCoviCode
)

func (k CredentialKind) String() string {
	if k == CredentialCoviCode {
		return "covi-code"
	}
	return "mobile-test-id"
}

// SubmissionPayload は提出ボディのprotobufメッセージを表す
type SubmissionPayload struct {
	Keys                []model.TemporaryExposureKey
	RequestPadding      []byte
	VisitedCountries    []string
	Origin              string
	ConsentToFederation bool
}

// SubmissionRequest はMobileTestIdによる診断キー提出を表す
type SubmissionRequest struct {
	Keys                  []model.TemporaryExposureKey
	VisitedCountries      []string
	Origin                string
	SecretKey             string // MobileTestIdの15桁コード
	DatePatientInfectious string
	DateTestCommunicated  string
	Fake                  bool
}

// CoviCodeSubmissionRequest はcovi-codeによる診断キー提出を表す
type CoviCodeSubmissionRequest struct {
	Keys                  []model.TemporaryExposureKey
	VisitedCountries      []string
	Origin                string
	CoviCode              string
	DatePatientInfectious string
	DateTestCommunicated  string // 提出日
	Fake                  bool
}

// Request は組み立て済みの提出リクエスト
type Request struct {
	Kind    CredentialKind
	Headers map[string]string
	Body    []byte
}

// TestResultResponse は検査結果取得APIのレスポンスを表す
type TestResultResponse struct {
	Result               model.Result
	DateTestCommunicated string
}

// testResultJSON はJSONパース用の内部構造体
type testResultJSON struct {
	TestResult           *int   `json:"testResult"`
	DateTestCommunicated string `json:"dateTestCommunicated"`
}
