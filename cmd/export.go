package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/crisdel29/siscontevolucion/internal/report"

	"github.com/spf13/cobra"
)

var (
	exportKind   string
	exportPeriod string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a report as an XLSX workbook",
	Long: `Build a report and write it to disk.

Kinds:
  formato71    full SUNAT Formato 7.1 register
  resumen      per-asset value summary
  movimientos  yearly balance movements`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportKind, "tipo", "t", string(report.KindFormato71), "report kind")
	exportCmd.Flags().StringVarP(&exportPeriod, "anio", "a", strconv.Itoa(time.Now().Year()), `year or "todos"`)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default reporte-<tipo>-<anio>.xlsx)")
}

func runExport(cmd *cobra.Command, args []string) error {
	k, err := report.ParseKind(exportKind)
	if err != nil {
		return err
	}
	p, err := report.ParsePeriod(exportPeriod)
	if err != nil {
		return err
	}

	s, err := report.NewEngine(appDB, appConfig.Report.DateLayout).Build(getContext(), k, p)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = report.FileName(exportKind, p)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := report.Render(f, s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}

	fmt.Println(formatSuccess("Reporte generado"))
	fmt.Println(formatPair("Archivo", out))
	fmt.Println(formatPair("Filas", len(s.Rows)))
	return nil
}
