package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// generateHouseholdJSON builds a household with pets pets, each fed daily for a month.
func generateHouseholdJSON(pets int) []byte {
	var sb strings.Builder
	sb.WriteString(`{"version":"1.0.0","foods":[{"id":"kibble","calories_per_100g":350,` +
		`"protein":25,"fat":10,"fiber":4}],"pets":[`)
	for i := range pets {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"name":"pet-%d","species":"dog","weight":%d}`, i, 5+i%40)
	}
	sb.WriteString(`],"feedings":[`)
	first := true
	for i := range pets {
		for day := 1; day <= 28; day++ {
			if !first {
				sb.WriteString(",")
			}
			first = false
			fmt.Fprintf(&sb, `{"pet":"pet-%d","food":"kibble","fed_at":"2026-02-%02dT08:00:00Z","amount":"120"}`, i, day)
		}
	}
	sb.WriteString("]}")
	return []byte(sb.String())
}

// BenchmarkParse_Household benchmarks a typical household document.
func BenchmarkParse_Household(b *testing.B) {
	b.ReportAllocs()
	data := generateHouseholdJSON(3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(context.Background(), data, FormatJSON); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParse_LargeHousehold benchmarks a shelter-sized document (200 pets, 5,600 feedings).
func BenchmarkParse_LargeHousehold(b *testing.B) {
	b.ReportAllocs()
	data := generateHouseholdJSON(200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(context.Background(), data, FormatJSON); err != nil {
			b.Fatal(err)
		}
	}
}
