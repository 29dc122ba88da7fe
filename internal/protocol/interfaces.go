package protocol

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_protocol.go -package=mocks

// Client は提出サーバー・検証サーバーとの通信インターフェースを定義する
type Client interface {
	// SubmitKeys はMobileTestIdで診断キーを提出する
	SubmitKeys(ctx context.Context, req *SubmissionRequest) error
	// SubmitWithCoviCode はcovi-codeで診断キーを提出する
	SubmitWithCoviCode(ctx context.Context, req *CoviCodeSubmissionRequest) error
	// FetchTestResult は登録トークンに対応する検査結果を取得する
	FetchTestResult(ctx context.Context, token string, fake bool) (*TestResultResponse, error)
	// AckTestDownload は検査結果の受領確認を送信する
	AckTestDownload(ctx context.Context, token string, fake bool) error
}
