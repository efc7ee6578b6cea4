package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/todo-tracker/todo-api/internal/database"
	"github.com/todo-tracker/todo-api/internal/repository"
	"github.com/todo-tracker/todo-api/internal/services"
)

var (
	superuserEmail    string
	superuserUsername string
	superuserPassword string
)

var superuserCmd = &cobra.Command{
	Use:   "create-superuser",
	Short: "Create an administrator account",
	Long:  `Create an active superuser. The username defaults to the part of the email before the @.`,
	RunE:  runCreateSuperuser,
}

func init() {
	superuserCmd.Flags().StringVar(&superuserEmail, "email", "", "Email address (required)")
	superuserCmd.Flags().StringVar(&superuserUsername, "username", "", "Username (optional)")
	superuserCmd.Flags().StringVar(&superuserPassword, "password", "", "Password (required)")
	_ = superuserCmd.MarkFlagRequired("email")
	_ = superuserCmd.MarkFlagRequired("password")
}

func runCreateSuperuser(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	authService := services.NewAuthService(repository.NewUserRepository(db))
	user, err := authService.CreateSuperuser(services.SuperuserInput{
		Email:    superuserEmail,
		Username: superuserUsername,
		Password: superuserPassword,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s <%s> created\n", user.Username, user.Email)
	return nil
}
