package fakerequest

import (
	"time"

	"github.com/oyaguma3/cwa-submission-client/internal/config"
)

// Options はSchedulerの動作パラメータ。
type Options struct {
	Probability      int           // 開始判定の分母
	MinFetches       int           // 取得回数の下限
	MaxFetches       int           // 取得回数の上限（両端を含む）
	FixedFetchCount  int           // 0より大きい場合は取得回数を固定する
	InitialDelay     time.Duration // オンボーディングから実行許可までの待機時間
	MinUploadDelay   time.Duration
	MaxUploadDelay   time.Duration
	VisitedCountries []string
}

// DefaultOptions は本番用のOptionsを返す。
func DefaultOptions() Options {
	return Options{
		Probability:    config.FakeRequestProbability,
		MinFetches:     config.FakeRequestMinFetches,
		MaxFetches:     config.FakeRequestMaxFetches,
		InitialDelay:   24 * time.Hour,
		MinUploadDelay: config.FakeRequestMinUploadDelay,
		MaxUploadDelay: config.FakeRequestMaxUploadDelay,
	}
}

// OptionsFromConfig は設定からOptionsを組み立てる。
// テストモードでは開始判定が必ず成立し、取得回数は固定値になる。
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.InitialDelay = cfg.FakeRequestInitialDelay
	opts.VisitedCountries = cfg.SupportedCountries
	if cfg.FakeRequestTestMode {
		opts.Probability = 1
		opts.FixedFetchCount = cfg.FakeRequestTestFetches
	}
	return opts
}
