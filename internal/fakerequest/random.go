package fakerequest

import "math/rand"

// RandomSource は乱数の供給元を定義する。
// テストでは固定列を返す実装を注入する。
type RandomSource interface {
	// NextInRange は[min, max)の一様乱数を返す。max <= minの場合はminを返す
	NextInRange(min, max int) int
}

type mathSource struct{}

// NewMathSource はmath/randによるRandomSourceを返す。
func NewMathSource() RandomSource {
	return mathSource{}
}

func (mathSource) NextInRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min)
}
