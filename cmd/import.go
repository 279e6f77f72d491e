package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/crisdel29/siscontevolucion/internal/importer"

	"github.com/spf13/cobra"
)

var importAtomic bool

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Upload and distribute a workbook into the register",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importAtomic, "atomic", false, "roll back the whole batch when a row fails")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	imp := importer.New(appDB, importer.Options{
		Dir:      appConfig.Import.Dir,
		Atomic:   importAtomic || appConfig.Import.Atomic,
		MaxBytes: appConfig.Import.MaxUploadMB << 20,
	})
	ctx := getContext()

	preview, err := imp.Upload(ctx, args[0], f, nil)
	if err != nil {
		return err
	}
	fmt.Println(formatInfo(fmt.Sprintf("%d filas leídas de %s", len(preview.Rows), preview.FileName)))

	res, err := imp.Distribute(ctx, preview.ImportID)
	if err != nil {
		var rerr *importer.ReconciliationError
		if errors.As(err, &rerr) {
			fmt.Println(formatPair("Procesados", rerr.Processed))
			if rerr.RolledBack {
				fmt.Println(formatWarning("Lote revertido"))
			}
		}
		return err
	}

	fmt.Println(formatSuccess("Datos importados correctamente"))
	fmt.Println(formatPair("Importación", res.ImportID))
	fmt.Println(formatPair("Modo", res.Mode))
	fmt.Println(formatPair("Año", res.Year))
	fmt.Println(formatPair("Procesados", res.Processed))
	fmt.Println(formatPair("Creados", res.Created))
	fmt.Println(formatPair("Actualizados", res.Updated))
	fmt.Println(formatPair("Omitidos", res.Skipped))
	fmt.Println(formatPair("Depreciaciones creadas", res.DepreciationsCreated))
	fmt.Println(formatPair("Valoraciones creadas", res.ValuationsCreated))
	if res.PlaceholderDates > 0 {
		fmt.Println(formatWarning(fmt.Sprintf("%d activos creados con la fecha de hoy como fecha de adquisición y de uso", res.PlaceholderDates)))
	}
	return nil
}
