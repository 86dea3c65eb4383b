package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持 errors.Is：同 Code 的 DomainError 视为相等，可直接与 ErrXXX 哨兵比较
//   - 支持 errors.Unwrap：Cause 保留底层错误
//
// 使用场景：
//   - 输入错误：INVALID_INPUT（空 RankingSet、非法 Partition）
//   - 批次错误：INSUFFICIENT_INPUT（少于 2 个 artifact）
//   - 配对错误：INCOMPATIBLE_ARTIFACTS、METRIC_COMPUTATION（只影响单个 pair）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "agreement", "harness", "store"）
	Cause   error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Cause }

// Is 按 Code 比较，使 errors.Is(err, ErrInvalidInput) 对任意模块产生的同类错误成立。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的第一个 DomainError，如果没有则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带底层错误的领域错误
func WrapDomainError(module, code string, cause error, format string, args ...any) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound              = "NOT_FOUND"              // 资源不存在
	ErrorCodeNotSupported          = "NOT_SUPPORTED"          // 操作不支持
	ErrorCodeInvalidInput          = "INVALID_INPUT"          // 输入无效
	ErrorCodeInsufficientInput     = "INSUFFICIENT_INPUT"     // 批次输入不足
	ErrorCodeIncompatibleArtifacts = "INCOMPATIBLE_ARTIFACTS" // 两个 artifact 无法比较
	ErrorCodeMetricComputation     = "METRIC_COMPUTATION"     // 指标计算失败
)

// 模块名称常量
const (
	ModuleCore       = "core"
	ModuleSimilarity = "similarity"
	ModuleAssignment = "assignment"
	ModuleAgreement  = "agreement"
	ModuleHarness    = "harness"
	ModuleClustering = "clustering"
	ModuleArtifact   = "artifact"
	ModuleStore      = "store"
	ModuleConfig     = "config"
)

// 哨兵错误：只用于 errors.Is 比较，不要直接返回（缺少模块与上下文）。
var (
	ErrInvalidInput          = NewDomainError(ModuleCore, ErrorCodeInvalidInput, "invalid input")
	ErrInsufficientInput     = NewDomainError(ModuleCore, ErrorCodeInsufficientInput, "insufficient input")
	ErrIncompatibleArtifacts = NewDomainError(ModuleCore, ErrorCodeIncompatibleArtifacts, "incompatible artifacts")
	ErrMetricComputation     = NewDomainError(ModuleCore, ErrorCodeMetricComputation, "metric computation failed")
)

// InvalidInputf 构造 INVALID_INPUT 错误
func InvalidInputf(module, format string, args ...any) error {
	return NewDomainError(module, ErrorCodeInvalidInput, module+": "+fmt.Sprintf(format, args...))
}

// InsufficientInputf 构造 INSUFFICIENT_INPUT 错误
func InsufficientInputf(module, format string, args ...any) error {
	return NewDomainError(module, ErrorCodeInsufficientInput, module+": "+fmt.Sprintf(format, args...))
}

// Incompatiblef 构造 INCOMPATIBLE_ARTIFACTS 错误
func Incompatiblef(module, format string, args ...any) error {
	return NewDomainError(module, ErrorCodeIncompatibleArtifacts, module+": "+fmt.Sprintf(format, args...))
}

// MetricFailure 把指标内部错误包装为 METRIC_COMPUTATION
func MetricFailure(module string, cause error, format string, args ...any) error {
	return WrapDomainError(module, ErrorCodeMetricComputation, cause, module+": "+format, args...)
}

// 通用错误检查函数

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsInsufficientInput 检查错误是否为 INSUFFICIENT_INPUT
func IsInsufficientInput(err error) bool { return hasCode(err, ErrorCodeInsufficientInput) }

// IsIncompatible 检查错误是否为 INCOMPATIBLE_ARTIFACTS
func IsIncompatible(err error) bool { return hasCode(err, ErrorCodeIncompatibleArtifacts) }

// IsMetricComputation 检查错误是否为 METRIC_COMPUTATION
func IsMetricComputation(err error) bool { return hasCode(err, ErrorCodeMetricComputation) }
