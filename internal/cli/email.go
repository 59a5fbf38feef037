package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewEmailCmd создаёт группу команд для управления фиксированными получателями.
func NewEmailCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Manage fixed report recipients",
	}

	cmd.AddCommand(
		newEmailListCmd(clientFn, outputFn),
		newEmailAddCmd(clientFn, outputFn),
		newEmailUpdateCmd(clientFn, outputFn),
		newEmailRemoveCmd(clientFn, outputFn),
		newEmailEnableCmd(clientFn, outputFn),
		newEmailDisableCmd(clientFn, outputFn),
	)

	return cmd
}

var emailHeaders = []string{"ID", "EMAIL", "NAME", "REPORT_TYPE", "ACTIVE"}

func emailRow(e *EmailResponse) []string {
	return []string{e.ID, e.Email, e.Name, e.ReportType, strconv.FormatBool(e.IsActive)}
}

func newEmailListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fixed recipients",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			emails, err := client.ListEmails(activeOnly)
			if err != nil {
				return err
			}

			rows := make([][]string, len(emails))
			for i := range emails {
				rows[i] = emailRow(&emails[i])
			}

			out.Print(emailHeaders, rows, emails)
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active recipients")

	return cmd
}

func newEmailAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add ADDRESS",
		Short: "Add a fixed recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			email, err := client.CreateEmail(CreateEmailRequest{
				Email: args[0],
				Name:  name,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Recipient added: %s", email.ID))
			out.Print(emailHeaders, [][]string{emailRow(email)}, email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Recipient display name")

	return cmd
}

func newEmailUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var address string
	var name string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a recipient's address or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var req UpdateEmailRequest
			if cmd.Flags().Changed("address") {
				req.Email = &address
			}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}

			email, err := client.UpdateEmail(args[0], req)
			if err != nil {
				return err
			}

			out.Success("Recipient updated")
			out.Print(emailHeaders, [][]string{emailRow(email)}, email)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "New email address")
	cmd.Flags().StringVar(&name, "name", "", "New display name")

	return cmd
}

func newEmailRemoveCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteEmail(args[0]); err != nil {
				return err
			}

			out.Success("Recipient removed")
			return nil
		},
	}
}

func newEmailEnableCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "enable ID",
		Short: "Enable a recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			email, err := client.SetEmailActive(args[0], true)
			if err != nil {
				return err
			}

			out.Success("Recipient enabled")
			out.Print(emailHeaders, [][]string{emailRow(email)}, email)
			return nil
		},
	}
}

func newEmailDisableCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "disable ID",
		Short: "Disable a recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			email, err := client.SetEmailActive(args[0], false)
			if err != nil {
				return err
			}

			out.Success("Recipient disabled")
			out.Print(emailHeaders, [][]string{emailRow(email)}, email)
			return nil
		},
	}
}
