// Package main - test_runner.go
// Executable to run ledger stress scenarios without a server.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/davortega/CargoRutas/server/test"
)

func main() {
	fmt.Println("🚚 CARGORUTAS - LEDGER SCENARIO SUITE")
	fmt.Println("================================================")

	ctx := context.Background()

	fmt.Println("\n🧪 Running scenario: Rush Hour Ledger Storm...")
	rushHour := test.NewRushHourTest()
	rushHour.RunTest(ctx)

	results := rushHour.GetResults()
	passed := 0
	failed := 0

	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📊 SCENARIO SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("   ✅ Passed: %d\n", passed)
	fmt.Printf("   ❌ Failed: %d\n", failed)

	if failed > 0 {
		fmt.Println("\n⚠️  Ledger invariants need attention")
		os.Exit(1)
	}
	fmt.Println("\n✅ Ledgers are ready for deployment")
}
