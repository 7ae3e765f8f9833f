package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civicdesk/grievance-service/internal/service"
)

func runSeed(ctx context.Context, cmd *cobra.Command) error {
	app, err := bootstrap(ctx, false)
	if err != nil {
		return err
	}
	defer app.close()

	authService := service.NewAuthService(app.cfg.Auth, service.AuthDependencies{
		UserRepo: app.users,
		Logger:   app.logger,
	})
	seedService := service.NewSeedService(app.users, authService.HashPassword, app.logger)

	users, err := seedService.CreateTestUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", user.Username)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Test user and admins created!")
	return nil
}
