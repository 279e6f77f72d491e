package cmd

import (
	"fmt"

	"github.com/crisdel29/siscontevolucion/internal/handler"

	"github.com/spf13/cobra"
)

var setupAdminCmd = &cobra.Command{
	Use:   "setup-admin",
	Short: "Create the admin user if it does not exist",
	RunE:  runSetupAdmin,
}

func runSetupAdmin(cmd *cobra.Command, args []string) error {
	password, created, err := handler.EnsureAdmin(appDB.WithContext(getContext()), appConfig.Security.BcryptCost)
	if err != nil {
		return err
	}
	if !created {
		fmt.Println(formatInfo("Usuario administrador ya existe"))
		return nil
	}
	fmt.Println(formatSuccess("Usuario administrador creado con éxito"))
	fmt.Println(formatPair("Usuario", handler.AdminUsername))
	fmt.Println(formatPair("Contraseña", password))
	fmt.Println(formatWarning("Guarde esta contraseña ahora; no se volverá a mostrar"))
	return nil
}
