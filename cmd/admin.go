package main

import (
	"fmt"

	"waste-service/internal/model"
	"waste-service/internal/repository"
	"waste-service/internal/service"
	"waste-service/pkg/database"
	"waste-service/pkg/jwtutil"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db) //nolint:errcheck

			if err := database.MigrateModels(db, model.All()...); err != nil {
				return err
			}
			log.Info("Database migrations applied")
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db) //nolint:errcheck

			if err := database.MigrateModels(db, model.All()...); err != nil {
				return err
			}

			tokens := jwtutil.NewJWTUtil(cfg.JWT.SigningKey, cfg.JWT.Expiration())
			users := service.NewUserService(repository.NewUserRepository(db), tokens, nil)

			admin, err := users.CreateAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			log.Info("Administrator ready", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password (min 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
