package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/people-console/internal/permission"
	"github.com/frahmantamala/people-console/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	seedEmail string
	seedName  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the first administrator",
	Long:  `Create the first console administrator with every capability granted. The generated password is printed once.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		app, err := newApplication(ctx, cfg, logger.LoggerWrapper())
		if err != nil {
			log.Fatalf("failed to init application: %v", err)
		}
		defer app.Close()

		existing, err := app.Permission.Get(ctx, seedEmail)
		switch {
		case err == nil:
			if !existing.IsAdmin() {
				log.Fatalf("%s already exists and is not an administrator; grant it from the permissions page", seedEmail)
			}
			fmt.Println("admin account already exists:", seedEmail)
			return
		case !errors.Is(err, permission.ErrPermissionNotFound):
			log.Fatalf("failed to look up %s: %v", seedEmail, err)
		}

		created, err := app.Permission.CreateAccount(ctx, permission.CreateAccountRequest{
			Email: seedEmail,
			Name:  seedName,
			Type:  permission.AccountAdmin,
		})
		if err != nil {
			log.Fatalf("failed to create admin account: %v", err)
		}

		fmt.Println("Seeded admin account:", created.Entry.Email)
		fmt.Println(created.Credentials)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@fmxconsulting.com", "administrator email")
	seedCmd.Flags().StringVar(&seedName, "name", "Administrator", "administrator display name")
}
