package cli

import (
	"fmt"

	"kanbanBoard/internal/dto"

	"github.com/spf13/cobra"
)

func (c *CLI) signupCmd() *cobra.Command {
	var req dto.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Регистрация нового пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.gw.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s (%s)\n", resp.Message, resp.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "логин")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "пароль")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "имя")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "фамилия")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *CLI) loginCmd() *cobra.Command {
	var req dto.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Вход и сохранение токена",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.gw.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			if resp.Token == "" {
				return errEmptyToken
			}

			username := resp.Username
			if username == "" {
				username = req.Username
			}
			if err := c.store.Login(cmd.Context(), resp.Token, username); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Вход выполнен: %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "логин")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "пароль")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *CLI) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Выход и удаление сохранённой сессии",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.store.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Сессия завершена")
			return nil
		},
	}
}

func (c *CLI) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Текущий пользователь",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, c.store.Username())
			return nil
		},
	}
}

func (c *CLI) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Справочник пользователей для назначения задач",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			users, err := c.gw.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range users {
				if name := u.DisplayName(); name != u.Username {
					fmt.Fprintf(c.out, "%-20s %s\n", u.Username, name)
					continue
				}
				fmt.Fprintln(c.out, u.Username)
			}
			return nil
		},
	}
}
