package commands

import (
	"fmt"

	"github.com/poxaedu/credtech/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// Todos os comandos usam o mesmo formato de saída
// ═══════════════════════════════════════════════════════════

// PrintRunSummary prints the outcome of a multi-month pipeline run.
func PrintRunSummary(summary *contracts.RunSummary) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Resumo da execução")
	fmt.Println("───────────────────────────────────────────────────────────")

	for _, m := range summary.Months {
		if m.Skipped {
			fmt.Printf("  %s  PULADO   %s\n", m.Month.Format("2006-01"), m.Error)
			continue
		}
		fmt.Printf("  %s  OK       %d linhas -> %d segmentos (%.2fs)\n",
			m.Month.Format("2006-01"), m.Rows, m.Segments, m.Duration.Seconds())
	}

	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Meses: %d  Pulados: %d\n", len(summary.Months), summary.SkippedCount())
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintSection prints a section header for command output.
func PrintSection(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("───────────────────────────────────────────────────────────")
}
