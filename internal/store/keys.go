package store

// Valkeyキー構成: cwa:{DeviceID}:{suffix}
const (
	KeyPrefix = "cwa:"

	KeySuffixRegistration = ":registration" // MobileTestId登録情報
	KeySuffixTestResult   = ":testresult"   // 検査結果
	KeySuffixFakeRequest  = ":fakerequest"  // ダミー通信状態
	KeySuffixSubmission   = ":submission"   // 直近の提出記録
)

func deviceKey(deviceID, suffix string) string {
	return KeyPrefix + deviceID + suffix
}
