package protocol

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/oyaguma3/cwa-submission-client/internal/config"
	"github.com/oyaguma3/cwa-submission-client/internal/testid"
	"github.com/oyaguma3/cwa-submission-client/pkg/model"
	"google.golang.org/protobuf/encoding/protowire"
)

// SubmissionPayloadのフィールド番号
const (
	fieldPayloadKeys             protowire.Number = 1
	fieldPayloadRequestPadding   protowire.Number = 2
	fieldPayloadVisitedCountries protowire.Number = 3
	fieldPayloadOrigin           protowire.Number = 4
	fieldPayloadConsent          protowire.Number = 5
)

// TemporaryExposureKeyのフィールド番号
const (
	fieldKeyData                    protowire.Number = 1
	fieldKeyTransmissionRiskLevel   protowire.Number = 2
	fieldKeyRollingStartIntervalNum protowire.Number = 3
	fieldKeyRollingPeriod           protowire.Number = 4
)

// MarshalPayload はSubmissionPayloadをprotobufワイヤ形式にエンコードする。
func MarshalPayload(p *SubmissionPayload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", ErrRequestCouldNotBeBuilt)
	}

	var b []byte
	for i, k := range p.Keys {
		if len(k.KeyData) != KeyDataLength {
			return nil, fmt.Errorf("%w: key %d has %d bytes", ErrRequestCouldNotBeBuilt, i, len(k.KeyData))
		}
		b = protowire.AppendTag(b, fieldPayloadKeys, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalKey(k))
	}
	if len(p.RequestPadding) > 0 {
		b = protowire.AppendTag(b, fieldPayloadRequestPadding, protowire.BytesType)
		b = protowire.AppendBytes(b, p.RequestPadding)
	}
	for _, c := range p.VisitedCountries {
		b = protowire.AppendTag(b, fieldPayloadVisitedCountries, protowire.BytesType)
		b = protowire.AppendString(b, c)
	}
	if p.Origin != "" {
		b = protowire.AppendTag(b, fieldPayloadOrigin, protowire.BytesType)
		b = protowire.AppendString(b, p.Origin)
	}
	if p.ConsentToFederation {
		b = protowire.AppendTag(b, fieldPayloadConsent, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	return b, nil
}

func marshalKey(k model.TemporaryExposureKey) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldKeyData, protowire.BytesType)
	b = protowire.AppendBytes(b, k.KeyData)
	b = appendInt32(b, fieldKeyTransmissionRiskLevel, k.TransmissionRiskLevel)
	b = appendInt32(b, fieldKeyRollingStartIntervalNum, k.RollingStartIntervalNumber)
	b = appendInt32(b, fieldKeyRollingPeriod, k.RollingPeriod)
	return b
}

// appendInt32 はproto3の既定値（0）を省略してint32フィールドを追加する。
func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

// UnmarshalPayload はprotobufワイヤ形式をSubmissionPayloadにデコードする。
// 未知のフィールドは読み飛ばす。
func UnmarshalPayload(b []byte) (*SubmissionPayload, error) {
	p := &SubmissionPayload{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldPayloadKeys && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: keys: %v", ErrMalformedPayload, protowire.ParseError(m))
			}
			k, err := unmarshalKey(v)
			if err != nil {
				return nil, err
			}
			p.Keys = append(p.Keys, k)
			n = m
		case num == fieldPayloadRequestPadding && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: padding: %v", ErrMalformedPayload, protowire.ParseError(m))
			}
			p.RequestPadding = append([]byte(nil), v...)
			n = m
		case num == fieldPayloadVisitedCountries && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: visited countries: %v", ErrMalformedPayload, protowire.ParseError(m))
			}
			p.VisitedCountries = append(p.VisitedCountries, v)
			n = m
		case num == fieldPayloadOrigin && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: origin: %v", ErrMalformedPayload, protowire.ParseError(m))
			}
			p.Origin = v
			n = m
		case num == fieldPayloadConsent && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: consent: %v", ErrMalformedPayload, protowire.ParseError(m))
			}
			p.ConsentToFederation = protowire.DecodeBool(v)
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", ErrMalformedPayload, num, protowire.ParseError(n))
			}
		}
		b = b[n:]
	}
	return p, nil
}

func unmarshalKey(b []byte) (model.TemporaryExposureKey, error) {
	var k model.TemporaryExposureKey
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return k, fmt.Errorf("%w: key: %v", ErrMalformedPayload, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldKeyData && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return k, fmt.Errorf("%w: key_data: %v", ErrMalformedPayload, protowire.ParseError(m))
			}
			k.KeyData = append([]byte(nil), v...)
			n = m
		case typ == protowire.VarintType &&
			(num == fieldKeyTransmissionRiskLevel || num == fieldKeyRollingStartIntervalNum || num == fieldKeyRollingPeriod):
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return k, fmt.Errorf("%w: key field %d: %v", ErrMalformedPayload, num, protowire.ParseError(m))
			}
			switch num {
			case fieldKeyTransmissionRiskLevel:
				k.TransmissionRiskLevel = int32(v)
			case fieldKeyRollingStartIntervalNum:
				k.RollingStartIntervalNumber = int32(v)
			case fieldKeyRollingPeriod:
				k.RollingPeriod = int32(v)
			}
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return k, fmt.Errorf("%w: key field %d: %v", ErrMalformedPayload, num, protowire.ParseError(n))
			}
		}
		b = b[n:]
	}
	return k, nil
}

// BuildSubmission はMobileTestIdによる提出リクエストを組み立てる。
func BuildSubmission(req *SubmissionRequest) (*Request, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrRequestCouldNotBeBuilt)
	}
	if _, err := testid.Validate(req.SecretKey); err != nil {
		return nil, fmt.Errorf("%w: secret key: %v", ErrRequestCouldNotBeBuilt, err)
	}
	if err := validateDate(req.DatePatientInfectious); err != nil {
		return nil, fmt.Errorf("%w: date patient infectious: %v", ErrRequestCouldNotBeBuilt, err)
	}
	if err := validateDate(req.DateTestCommunicated); err != nil {
		return nil, fmt.Errorf("%w: date test communicated: %v", ErrRequestCouldNotBeBuilt, err)
	}

	body, err := buildBody(req.Keys, req.VisitedCountries, req.Origin)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		HeaderContentType:           ContentTypeProtobuf,
		HeaderSecretKey:             req.SecretKey,
		HeaderRandomString:          uuid.NewString(),
		HeaderDatePatientInfectious: req.DatePatientInfectious,
		HeaderDateTestCommunicated:  req.DateTestCommunicated,
		HeaderFake:                  fakeHeaderValue(req.Fake),
	}
	if err := padHeaders(headers); err != nil {
		return nil, err
	}

	return &Request{Kind: CredentialMobileTestID, Headers: headers, Body: body}, nil
}

// BuildCoviCodeSubmission はcovi-codeによる提出リクエストを組み立てる。
func BuildCoviCodeSubmission(req *CoviCodeSubmissionRequest) (*Request, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrRequestCouldNotBeBuilt)
	}
	if len(req.CoviCode) != CoviCodeLength {
		return nil, fmt.Errorf("%w: covi-code must be %d characters", ErrRequestCouldNotBeBuilt, CoviCodeLength)
	}
	if err := validateDate(req.DatePatientInfectious); err != nil {
		return nil, fmt.Errorf("%w: date patient infectious: %v", ErrRequestCouldNotBeBuilt, err)
	}
	if err := validateDate(req.DateTestCommunicated); err != nil {
		return nil, fmt.Errorf("%w: date test communicated: %v", ErrRequestCouldNotBeBuilt, err)
	}

	body, err := buildBody(req.Keys, req.VisitedCountries, req.Origin)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		HeaderContentType:           ContentTypeProtobuf,
		HeaderCoviCode:              req.CoviCode,
		HeaderRandomString:          uuid.NewString(),
		HeaderDatePatientInfectious: req.DatePatientInfectious,
		HeaderDateTestCommunicated:  req.DateTestCommunicated,
		HeaderFake:                  fakeHeaderValue(req.Fake),
	}
	if err := padHeaders(headers); err != nil {
		return nil, err
	}

	return &Request{Kind: CredentialCoviCode, Headers: headers, Body: body}, nil
}

// buildBody はキー件数や値の桁数によらずボディ長が一定になるようパディングを付与してエンコードする。
// 目標長はキーを除いた部分の長さ + 最大キー数分の最大スロット長 + パディングフィールドの最小長。
func buildBody(keys []model.TemporaryExposureKey, countries []string, origin string) ([]byte, error) {
	if len(keys) > config.MaxKeysPerSubmission {
		return nil, fmt.Errorf("%w: %d keys exceeds limit %d", ErrRequestCouldNotBeBuilt, len(keys), config.MaxKeysPerSubmission)
	}
	for i, k := range keys {
		if k.TransmissionRiskLevel < 1 || k.TransmissionRiskLevel > 8 {
			return nil, fmt.Errorf("%w: key %d transmission risk level %d", ErrRequestCouldNotBeBuilt, i, k.TransmissionRiskLevel)
		}
		if k.RollingStartIntervalNumber < 0 || k.RollingPeriod < 0 {
			return nil, fmt.Errorf("%w: key %d has negative rolling values", ErrRequestCouldNotBeBuilt, i)
		}
	}
	for _, c := range countries {
		if len(c) != 2 {
			return nil, fmt.Errorf("%w: invalid country %q", ErrRequestCouldNotBeBuilt, c)
		}
	}

	payload := &SubmissionPayload{
		VisitedCountries:    countries,
		Origin:              origin,
		ConsentToFederation: len(countries) > 0,
	}
	envelope, err := MarshalPayload(payload)
	if err != nil {
		return nil, err
	}
	payload.Keys = keys
	unpadded, err := MarshalPayload(payload)
	if err != nil {
		return nil, err
	}

	target := bodySize(len(envelope))
	// タグ1バイト + 長さ2バイト
	padding := make([]byte, target-len(unpadded)-3)
	if _, err := rand.Read(padding); err != nil {
		return nil, fmt.Errorf("%w: padding: %v", ErrRequestCouldNotBeBuilt, err)
	}
	payload.RequestPadding = padding

	body, err := MarshalPayload(payload)
	if err != nil {
		return nil, err
	}
	if len(body) != target {
		return nil, fmt.Errorf("%w: body length %d, want %d", ErrRequestCouldNotBeBuilt, len(body), target)
	}
	return body, nil
}

// bodySize はキーとパディングを除いた部分の長さから提出ボディの長さを返す。
func bodySize(envelopeLen int) int {
	return envelopeLen + config.MaxKeysPerSubmission*KeySlotBytes + 3 + MinRequestPadding
}

// padHeaders はヘッダの名前と値の合計長がHeaderSizeTargetになるようパディングヘッダを追加する。
func padHeaders(headers map[string]string) error {
	size := len(HeaderPadding)
	for name, value := range headers {
		size += len(name) + len(value)
	}
	n := HeaderSizeTarget - size
	if n < 0 {
		n = 0
	}
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("%w: header padding: %v", ErrRequestCouldNotBeBuilt, err)
	}
	headers[HeaderPadding] = hex.EncodeToString(buf)[:n]
	return nil
}

func fakeHeaderValue(fake bool) string {
	if fake {
		return FakeHeaderDecoy
	}
	return FakeHeaderReal
}

func validateDate(s string) error {
	_, err := time.Parse(testid.DateLayout, s)
	return err
}

// ClassifySubmissionStatus は提出APIのHTTPステータスをエラーに分類する。
func ClassifySubmissionStatus(status int, kind CredentialKind) error {
	switch status {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusBadRequest:
		return ErrInvalidPayloadOrHeaders
	case http.StatusForbidden:
		if kind == CredentialCoviCode {
			return ErrInvalidCoviCode
		}
		return ErrInvalidTAN
	default:
		return &ServerError{StatusCode: status}
	}
}

// DecodeTestResult は検査結果取得APIのJSONレスポンスをデコードする。
// testResult: 0=pending, 1=negative, 2=positive, 3=invalid
func DecodeTestResult(body []byte) (*TestResultResponse, error) {
	var raw testResultJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal: %v", ErrInvalidResponse, err)
	}
	if raw.TestResult == nil {
		return nil, fmt.Errorf("%w: testResult missing", ErrInvalidResponse)
	}

	var result model.Result
	switch *raw.TestResult {
	case 0:
		result = model.ResultPending
	case 1:
		result = model.ResultNegative
	case 2:
		result = model.ResultPositive
	case 3:
		result = model.ResultInvalid
	default:
		return nil, fmt.Errorf("%w: unknown testResult %d", ErrInvalidResponse, *raw.TestResult)
	}

	if raw.DateTestCommunicated != "" {
		if err := validateDate(raw.DateTestCommunicated); err != nil {
			return nil, fmt.Errorf("%w: dateTestCommunicated: %v", ErrInvalidResponse, err)
		}
	}

	return &TestResultResponse{Result: result, DateTestCommunicated: raw.DateTestCommunicated}, nil
}
