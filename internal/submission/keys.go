package submission

import (
	"cmp"
	"slices"

	"github.com/oyaguma3/cwa-submission-client/internal/config"
	"github.com/oyaguma3/cwa-submission-client/pkg/model"
)

// transmissionRiskLevels は新しい順に並べたキーへ割り当てる感染リスクレベル。
// 範囲外のキーにはdefaultTransmissionRiskLevelを割り当てる。
var transmissionRiskLevels = []int32{5, 6, 8, 8, 8, 5, 3}

const defaultTransmissionRiskLevel int32 = 1

// ProcessKeys は提出用にキーを新しい順に並べ、件数を制限し、感染リスクレベルを設定する。
// 入力スライスは変更しない。
func ProcessKeys(keys []model.TemporaryExposureKey) []model.TemporaryExposureKey {
	out := slices.Clone(keys)
	slices.SortStableFunc(out, func(a, b model.TemporaryExposureKey) int {
		return cmp.Compare(b.RollingStartIntervalNumber, a.RollingStartIntervalNumber)
	})
	if len(out) > config.MaxKeysPerSubmission {
		out = out[:config.MaxKeysPerSubmission]
	}
	for i := range out {
		if i < len(transmissionRiskLevels) {
			out[i].TransmissionRiskLevel = transmissionRiskLevels[i]
		} else {
			out[i].TransmissionRiskLevel = defaultTransmissionRiskLevel
		}
	}
	return out
}
