package helib

import (
	"github.com/klauspost/cpuid/v2"
	"go.uber.org/zap"
)

// CPUInfo summarizes the processor features relevant to the ring arithmetic.
type CPUInfo struct {
	Brand         string
	PhysicalCores int
	AVX2          bool
	BMI2          bool
}

// ProbeCPU reads the features of the host processor.
func ProbeCPU() CPUInfo {
	return CPUInfo{
		Brand:         cpuid.CPU.BrandName,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		AVX2:          cpuid.CPU.Supports(cpuid.AVX2),
		BMI2:          cpuid.CPU.Supports(cpuid.BMI2),
	}
}

// Fields returns the features as structured log fields.
func (c CPUInfo) Fields() []zap.Field {
	return []zap.Field{
		zap.String("cpu", c.Brand),
		zap.Int("cores", c.PhysicalCores),
		zap.Bool("avx2", c.AVX2),
		zap.Bool("bmi2", c.BMI2),
	}
}
