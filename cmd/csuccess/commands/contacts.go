package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

// NewContactsCommand creates the contacts command group.
func NewContactsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Manage contacts",
		Long:    "Get, create, update, upsert, and delete contacts within a client",
	}

	cmd.AddCommand(newContactsGetCommand())
	cmd.AddCommand(newContactsCreateCommand())
	cmd.AddCommand(newContactsUpdateCommand())
	cmd.AddCommand(newContactsUpsertCommand())
	cmd.AddCommand(newContactsDeleteCommand())

	return cmd
}

type contactFlags struct {
	FirstName string
	LastName  string
	Email     string
	Title     string
	Phone     string
	Note      string
	Fields    []string
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.FirstName, "first-name", "", "contact first name")
	cmd.Flags().StringVar(&f.LastName, "last-name", "", "contact last name")
	cmd.Flags().StringVar(&f.Email, "email", "", "contact email address")
	cmd.Flags().StringVar(&f.Title, "title", "", "contact job title")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "contact phone number")
	cmd.Flags().StringVar(&f.Note, "note", "", "free-form note")
	cmd.Flags().StringArrayVar(&f.Fields, "field", nil, "custom field as Label=Value (repeatable)")
}

func (f *contactFlags) request(cmd *cobra.Command) (*clientsuccess.ContactRequest, error) {
	fields, err := parseFieldFlags(f.Fields)
	if err != nil {
		return nil, err
	}

	return &clientsuccess.ContactRequest{
		FirstName:    stringFlag(f.FirstName, cmd.Flags().Changed("first-name")),
		LastName:     stringFlag(f.LastName, cmd.Flags().Changed("last-name")),
		Email:        stringFlag(f.Email, cmd.Flags().Changed("email")),
		Title:        stringFlag(f.Title, cmd.Flags().Changed("title")),
		Phone:        stringFlag(f.Phone, cmd.Flags().Changed("phone")),
		Note:         stringFlag(f.Note, cmd.Flags().Changed("note")),
		CustomFields: fields,
	}, nil
}

func newContactsGetCommand() *cobra.Command {
	var (
		clientExternalID string
		email            string
	)

	cmd := &cobra.Command{
		Use:   "get [CLIENT_ID CONTACT_ID]",
		Short: "Get a contact",
		Long:  "Get a contact by client and contact ID, or by --client-external-id and --email",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var record *clientsuccess.Contact

			if email != "" {
				record, err = api.Contacts().GetByEmail(ctx, clientExternalID, email)
			} else {
				if len(args) != 2 {
					return ErrContactIDsRequired
				}

				record, err = api.Contacts().Get(ctx, args[0], args[1])
			}

			if err != nil {
				return err
			}

			return outputContact(record)
		},
	}

	cmd.Flags().StringVar(&clientExternalID, "client-external-id", "", "owning client's external identifier")
	cmd.Flags().StringVar(&email, "email", "", "look up by email within the client")

	return cmd
}

func newContactsCreateCommand() *cobra.Command {
	var flags contactFlags

	cmd := &cobra.Command{
		Use:   "create CLIENT_ID",
		Short: "Create a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			request, err := flags.request(cmd)
			if err != nil {
				return err
			}

			record, err := api.Contacts().Create(context.Background(), args[0], request)
			if err != nil {
				return err
			}

			return outputContact(record)
		},
	}

	flags.register(cmd)

	return cmd
}

func newContactsUpdateCommand() *cobra.Command {
	var flags contactFlags

	cmd := &cobra.Command{
		Use:   "update CLIENT_ID CONTACT_ID",
		Short: "Update a contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			request, err := flags.request(cmd)
			if err != nil {
				return err
			}

			record, err := api.Contacts().Update(context.Background(), args[0], args[1], request)
			if err != nil {
				return err
			}

			return outputContact(record)
		},
	}

	flags.register(cmd)

	return cmd
}

func newContactsUpsertCommand() *cobra.Command {
	var (
		flags     contactFlags
		contactID string
	)

	cmd := &cobra.Command{
		Use:   "upsert CLIENT_ID",
		Short: "Create or update a contact",
		Long:  "Update the contact identified by --id or by --email within the client, creating it when no match exists. Writes that would not change the record are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			request, err := flags.request(cmd)
			if err != nil {
				return err
			}

			record, err := api.Contacts().Upsert(context.Background(), &clientsuccess.ContactUpsertRequest{
				ClientID:       args[0],
				ContactID:      contactID,
				ContactRequest: *request,
			})
			if err != nil {
				return err
			}

			return outputContact(record)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&contactID, "id", "", "contact ID (omit to match by --email)")

	return cmd
}

func newContactsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete CLIENT_ID CONTACT_ID",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			if err := api.Contacts().Delete(context.Background(), args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("Contact %s deleted\n", args[1])

			return nil
		},
	}
}

func outputContact(record *clientsuccess.Contact) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return renderJSON(record)
	case OutputFormatYAML:
		return renderYAML(record)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")
		_ = table.Append("ID", clientsuccess.FormatID(record.ID))
		_ = table.Append("Client ID", clientsuccess.FormatID(record.ClientID))
		_ = table.Append("Name", record.FirstName+" "+record.LastName)
		_ = table.Append("Email", record.Email)
		_ = table.Append("Title", record.Title)
		_ = table.Append("Phone", record.Phone)

		for _, field := range record.CustomFields {
			_ = table.Append(field.Label, fmt.Sprintf("%v", field.Value))
		}

		_ = table.Render()

		return nil
	}
}
