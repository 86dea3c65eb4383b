package agreement

import "fmt"

// Normalization 决定 k_A ≠ k_B 时 ATS 的分母。
type Normalization string

const (
	// NormalizeMatched 只对 min(k_A,k_B) 个匹配对取平均，未匹配的 topic 不计入（原始行为）。
	NormalizeMatched Normalization = "matched"
	// NormalizeLarger 用 max(k_A,k_B) 作分母，未匹配的 topic 视为 0 分。
	NormalizeLarger Normalization = "larger"
)

// ParseNormalization 解析配置中的 ATS 归一化策略，空字符串为默认值。
func ParseNormalization(s string) (Normalization, error) {
	switch Normalization(s) {
	case "", NormalizeMatched:
		return NormalizeMatched, nil
	case NormalizeLarger:
		return NormalizeLarger, nil
	}
	return "", fmt.Errorf("unknown ats normalization %q (supported: matched, larger)", s)
}

// Base 决定 ADSD 的归一化基数 k。
type Base string

const (
	// BaseFirst 使用第一个操作数的 k（原始行为，不对称）。
	BaseFirst Base = "first"
	// BaseLarger 使用 max(k_A,k_B)，结果对称。
	BaseLarger Base = "larger"
	// BaseMean 使用 (k_A+k_B)/2，结果对称。
	BaseMean Base = "mean"
)

// ParseBase 解析配置中的 ADSD 基数策略，空字符串为默认值。
func ParseBase(s string) (Base, error) {
	switch Base(s) {
	case "", BaseFirst:
		return BaseFirst, nil
	case BaseLarger:
		return BaseLarger, nil
	case BaseMean:
		return BaseMean, nil
	}
	return "", fmt.Errorf("unknown adsd base %q (supported: first, larger, mean)", s)
}

func (b Base) k(ka, kb int) float64 {
	switch b {
	case BaseLarger:
		return float64(max(ka, kb))
	case BaseMean:
		return float64(ka+kb) / 2
	default:
		return float64(ka)
	}
}
