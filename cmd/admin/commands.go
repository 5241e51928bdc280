package main

import (
	"fmt"
	"text/tabwriter"

	"dealboard/internal/models"
	"dealboard/internal/repository"

	"github.com/spf13/cobra"
)

type connectFunc func() (repository.UserRepository, error)

func newRootCmd(connect connectFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "admin",
		Short: "Manage dealboard administrators",
		Long: `Promote or demote users by the email they signed in with.

A user exists only after a first login, so ask them to sign in before
promoting them. Role changes apply to their next request once the cached
profile expires.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		roleCmd("promote", "Grant the admin role", models.RoleAdmin, connect),
		roleCmd("demote", "Revoke the admin role", models.RoleUser, connect),
		listAdminsCmd(connect),
	)
	return root
}

func roleCmd(use, short string, role models.Role, connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			user, err := users.GetByEmail(ctx, args[0])
			if err != nil {
				return err
			}
			if user.Role == role {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (ID %d) already has role %s\n", user.Email, user.ID, role)
				return nil
			}
			if err := users.SetRole(ctx, user.ID, role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (ID %d): %s -> %s\n", user.Email, user.ID, user.Role, role)
			return nil
		},
	}
}

func listAdminsCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list-admins",
		Short: "List every administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := connect()
			if err != nil {
				return err
			}
			admins, err := users.ListByRole(cmd.Context(), models.RoleAdmin)
			if err != nil {
				return err
			}
			if len(admins) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No admins")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME")
			for _, u := range admins {
				fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Email, u.Name)
			}
			return w.Flush()
		},
	}
}
