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

// NewClientsCommand creates the clients command group.
func NewClientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client"},
		Short:   "Manage clients",
		Long:    "Get, create, update, upsert, close, and delete ClientSuccess clients",
	}

	cmd.AddCommand(newClientsGetCommand())
	cmd.AddCommand(newClientsCreateCommand())
	cmd.AddCommand(newClientsUpdateCommand())
	cmd.AddCommand(newClientsUpsertCommand())
	cmd.AddCommand(newClientsCloseCommand())
	cmd.AddCommand(newClientsDeleteCommand())
	cmd.AddCommand(newClientsTypesCommand())

	return cmd
}

// clientFlags holds the attribute flags shared by the write subcommands.
type clientFlags struct {
	Name            string
	ExternalID      string
	StatusID        string
	SiteURL         string
	TenureStartDate string
	Fields          []string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Name, "name", "", "client name")
	cmd.Flags().StringVar(&f.ExternalID, "external-id", "", "external system identifier")
	cmd.Flags().StringVar(&f.StatusID, "status-id", "", "client status ID")
	cmd.Flags().StringVar(&f.SiteURL, "site-url", "", "client website URL")
	cmd.Flags().StringVar(&f.TenureStartDate, "tenure-start", "", "tenure start date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&f.Fields, "field", nil, "custom field as Label=Value (repeatable)")
}

func (f *clientFlags) request(cmd *cobra.Command) (*clientsuccess.ClientRequest, error) {
	fields, err := parseFieldFlags(f.Fields)
	if err != nil {
		return nil, err
	}

	return &clientsuccess.ClientRequest{
		Name:            stringFlag(f.Name, cmd.Flags().Changed("name")),
		ExternalID:      stringFlag(f.ExternalID, cmd.Flags().Changed("external-id")),
		StatusID:        stringFlag(f.StatusID, cmd.Flags().Changed("status-id")),
		SiteURL:         stringFlag(f.SiteURL, cmd.Flags().Changed("site-url")),
		TenureStartDate: stringFlag(f.TenureStartDate, cmd.Flags().Changed("tenure-start")),
		CustomFields:    fields,
	}, nil
}

func newClientsGetCommand() *cobra.Command {
	var externalID string

	cmd := &cobra.Command{
		Use:   "get [CLIENT_ID]",
		Short: "Get a client",
		Long:  "Get a client by ID, or by external ID with --external-id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var record *clientsuccess.Client

			if externalID != "" {
				record, err = api.Clients().GetByExternalID(ctx, externalID)
			} else {
				if len(args) == 0 {
					return ErrClientIDRequired
				}

				record, err = api.Clients().Get(ctx, args[0])
			}

			if err != nil {
				return err
			}

			return outputClient(record)
		},
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "look up by external system identifier")

	return cmd
}

func newClientsCreateCommand() *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			request, err := flags.request(cmd)
			if err != nil {
				return err
			}

			record, err := api.Clients().Create(context.Background(), request)
			if err != nil {
				return err
			}

			return outputClient(record)
		},
	}

	flags.register(cmd)

	return cmd
}

func newClientsUpdateCommand() *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "update CLIENT_ID",
		Short: "Update a client",
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

			record, err := api.Clients().Update(context.Background(), args[0], request)
			if err != nil {
				return err
			}

			return outputClient(record)
		},
	}

	flags.register(cmd)

	return cmd
}

func newClientsUpsertCommand() *cobra.Command {
	var (
		flags    clientFlags
		clientID string
	)

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update a client",
		Long:  "Update the client identified by --id or --external-id, creating it when no match exists. Writes that would not change the record are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			request, err := flags.request(cmd)
			if err != nil {
				return err
			}

			record, err := api.Clients().Upsert(context.Background(), &clientsuccess.ClientUpsertRequest{
				ClientID:      clientID,
				ClientRequest: *request,
			})
			if err != nil {
				return err
			}

			return outputClient(record)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&clientID, "id", "", "client ID (omit to match by --external-id)")

	return cmd
}

func newClientsCloseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close CLIENT_ID",
		Short: "Close a client",
		Long:  "Mark a client as terminated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			record, err := api.Clients().Close(context.Background(), args[0])
			if err != nil {
				return err
			}

			return outputClient(record)
		},
	}
}

func newClientsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete CLIENT_ID",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			if err := api.Clients().Delete(context.Background(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Client %s deleted\n", args[0])

			return nil
		},
	}
}

func newClientsTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List client types",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			types, err := api.Clients().ListTypes(context.Background())
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return renderJSON(types)
			case OutputFormatYAML:
				return renderYAML(types)
			default:
				if len(types) == 0 {
					fmt.Println("No client types found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Type")

				for _, clientType := range types {
					_ = table.Append(clientsuccess.FormatID(clientType.ID), clientType.Type)
				}

				_ = table.Render()

				return nil
			}
		},
	}
}

func outputClient(record *clientsuccess.Client) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return renderJSON(record)
	case OutputFormatYAML:
		return renderYAML(record)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")
		_ = table.Append("ID", clientsuccess.FormatID(record.ID))
		_ = table.Append("Name", record.Name)
		_ = table.Append("External ID", record.ExternalID)
		_ = table.Append("Status ID", record.StatusID)
		_ = table.Append("Site URL", record.SiteURL)
		_ = table.Append("Tenure Start", record.TenureStartDate)

		for _, field := range record.CustomFields {
			_ = table.Append(field.Label, fmt.Sprintf("%v", field.Value))
		}

		_ = table.Render()

		return nil
	}
}
