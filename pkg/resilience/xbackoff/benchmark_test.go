package xbackoff

import (
	"testing"
	"time"
)

func BenchmarkExponentialBackOff_NextBackOff(b *testing.B) {
	backoff := NewExponentialBackOff(
		WithMaxElapsedTime(0),
	)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = backoff.NextBackOff()
	}
}

func BenchmarkExponentialBackOff_NoJitter(b *testing.B) {
	backoff := NewExponentialBackOff(
		WithRandomizationFactor(0),
		WithMaxElapsedTime(0),
	)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = backoff.NextBackOff()
	}
}

func BenchmarkConstantBackOff_NextBackOff(b *testing.B) {
	backoff := NewConstantBackOff(100 * time.Millisecond)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = backoff.NextBackOff()
	}
}
