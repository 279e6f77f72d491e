package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/crisdel29/siscontevolucion/internal/config"
	"github.com/crisdel29/siscontevolucion/internal/database"
	"github.com/crisdel29/siscontevolucion/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	configPath string

	appConfig *config.Config
	appDB     *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:   "siscontevolucion",
	Short: "Registro de activos fijos (Formato 7.1)",
	Long: styleTitle.Render("SISCONT Evolución") + "\n\n" +
		"Fixed-asset register with spreadsheet import and SUNAT Formato 7.1 reports.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := runRoot(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err.Error()))
		os.Exit(1)
	}
}

// runRoot executes the command and releases the database and the logger
// whether or not it failed.
func runRoot() error {
	err := rootCmd.Execute()
	if cerr := shutdownApp(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(setupAdminCmd)
}

// initializeApp loads config, the logger and the database for every command.
func initializeApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	appConfig = cfg

	if err := logger.Initialize(logger.Config{
		Debug:     cfg.Log.Debug,
		Level:     cfg.Log.Level,
		SentryDSN: cfg.Log.SentryDSN,
		Tags:      map[string]string{"command": cmd.Name()},
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return fmt.Errorf("migrate database: %w", err)
	}
	appDB = db
	return nil
}

func shutdownApp() error {
	defer logger.Flush(2 * time.Second)
	if appDB == nil {
		return nil
	}
	db := appDB
	appDB = nil
	return database.Close(db)
}

func getContext() context.Context {
	if ctx := rootCmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func toString(v interface{}) string {
	return fmt.Sprint(v)
}
