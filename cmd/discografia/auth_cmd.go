package main

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/five82/discografia/internal/app"
	"github.com/five82/discografia/internal/session"
)

func newLoginCmd(flags *rootFlags) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(flags, func(env *app.Env) error {
				if email == "" {
					var err error
					if email, err = ask("Email", "", false); err != nil {
						return err
					}
				}
				password, err := ask("Contraseña", "", true)
				if err != nil {
					return err
				}
				if err := env.Session.Login(cmd.Context(), email, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s\n", env.Session.User().DisplayName())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	return cmd
}

func newRegisterCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(flags, func(env *app.Env) error {
				var in session.RegisterInput
				steps := []struct {
					label  string
					secret bool
					dest   *string
				}{
					{"Nombre", false, &in.Name},
					{"Apellido", false, &in.Lastname},
					{"Email", false, &in.Email},
					{"Contraseña", true, &in.Password},
					{"Confirmar contraseña", true, &in.ConfirmPassword},
				}
				for _, s := range steps {
					v, err := ask(s.label, "", s.secret)
					if err != nil {
						return err
					}
					*s.dest = v
				}

				signedIn, err := env.Session.Register(cmd.Context(), in)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if signedIn {
					fmt.Fprintf(out, "Cuenta creada. Sesión iniciada como %s\n", env.Session.User().DisplayName())
					return nil
				}
				fmt.Fprintln(out, "Cuenta creada. Iniciá sesión para continuar.")
				return nil
			})
		},
	}
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(flags, func(env *app.Env) error {
				if err := env.Session.Logout(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada.")
				return nil
			})
		},
	}
}

func ask(label, def string, secret bool) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: def,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s es requerido", strings.ToLower(label))
			}
			return nil
		},
	}
	if secret {
		prompt.Mask = '•'
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return value, nil
}
