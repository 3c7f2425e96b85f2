package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
)

// NewSubscriptionsCommand creates the subscriptions command group.
func NewSubscriptionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subscription", "subs"},
		Short:   "Manage subscriptions",
		Long:    "Get, list, create, update, and delete subscriptions under a client",
	}

	cmd.AddCommand(newSubscriptionsGetCommand())
	cmd.AddCommand(newSubscriptionsListCommand())
	cmd.AddCommand(newSubscriptionsCreateCommand())
	cmd.AddCommand(newSubscriptionsUpdateCommand())
	cmd.AddCommand(newSubscriptionsDeleteCommand())

	return cmd
}

type subscriptionFlags struct {
	Name      string
	Product   string
	Amount    float64
	Quantity  int
	StartDate string
	EndDate   string
	AutoRenew bool
}

func (f *subscriptionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Name, "name", "", "subscription name")
	cmd.Flags().StringVar(&f.Product, "product", "", "product name")
	cmd.Flags().Float64Var(&f.Amount, "amount", 0, "subscription amount")
	cmd.Flags().IntVar(&f.Quantity, "quantity", 0, "subscription quantity")
	cmd.Flags().StringVar(&f.StartDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.EndDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.AutoRenew, "auto-renew", false, "auto-renew at term end")
}

// request resolves the flag set, translating a product name into its ID.
func (f *subscriptionFlags) request(ctx context.Context, cmd *cobra.Command, api clientsuccess.API) (*clientsuccess.SubscriptionRequest, error) {
	request := &clientsuccess.SubscriptionRequest{
		Name:      stringFlag(f.Name, cmd.Flags().Changed("name")),
		StartDate: stringFlag(f.StartDate, cmd.Flags().Changed("start")),
		EndDate:   stringFlag(f.EndDate, cmd.Flags().Changed("end")),
	}

	if cmd.Flags().Changed("amount") {
		request.Amount = &f.Amount
	}

	if cmd.Flags().Changed("quantity") {
		request.Quantity = &f.Quantity
	}

	if cmd.Flags().Changed("auto-renew") {
		request.AutoRenew = &f.AutoRenew
	}

	if cmd.Flags().Changed("product") {
		productID, err := api.Products().IDByName(ctx, f.Product)
		if err != nil {
			return nil, err
		}

		request.ProductID = &productID
	}

	return request, nil
}

func newSubscriptionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CLIENT_ID SUBSCRIPTION_ID",
		Short: "Get a subscription",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			record, err := api.Subscriptions().Get(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}

			return outputSubscription(record)
		},
	}
}

func newSubscriptionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list CLIENT_ID",
		Short: "List active subscriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			records, err := api.Subscriptions().ListActive(context.Background(), args[0])
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return renderJSON(records)
			case OutputFormatYAML:
				return renderYAML(records)
			default:
				if len(records) == 0 {
					fmt.Println("No active subscriptions found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Amount", "Quantity", "Start", "End")

				for _, record := range records {
					_ = table.Append(
						clientsuccess.FormatID(record.ID),
						record.Name,
						strconv.FormatFloat(record.Amount, 'f', 2, 64),
						strconv.Itoa(record.Quantity),
						record.StartDate,
						record.EndDate,
					)
				}

				_ = table.Render()

				return nil
			}
		},
	}
}

func newSubscriptionsCreateCommand() *cobra.Command {
	var flags subscriptionFlags

	cmd := &cobra.Command{
		Use:   "create CLIENT_ID",
		Short: "Create a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			request, err := flags.request(ctx, cmd, api)
			if err != nil {
				return err
			}

			record, err := api.Subscriptions().Create(ctx, args[0], request)
			if err != nil {
				return err
			}

			return outputSubscription(record)
		},
	}

	flags.register(cmd)

	return cmd
}

func newSubscriptionsUpdateCommand() *cobra.Command {
	var flags subscriptionFlags

	cmd := &cobra.Command{
		Use:   "update CLIENT_ID SUBSCRIPTION_ID",
		Short: "Update a subscription",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			request, err := flags.request(ctx, cmd, api)
			if err != nil {
				return err
			}

			record, err := api.Subscriptions().Update(ctx, args[0], args[1], request)
			if err != nil {
				return err
			}

			return outputSubscription(record)
		},
	}

	flags.register(cmd)

	return cmd
}

func newSubscriptionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete CLIENT_ID SUBSCRIPTION_ID",
		Short: "Delete a subscription",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			if err := api.Subscriptions().Delete(context.Background(), args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("Subscription %s deleted\n", args[1])

			return nil
		},
	}
}

func outputSubscription(record *clientsuccess.Subscription) error {
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
		_ = table.Append("Product ID", clientsuccess.FormatID(record.ProductID))
		_ = table.Append("Name", record.Name)
		_ = table.Append("Amount", strconv.FormatFloat(record.Amount, 'f', 2, 64))
		_ = table.Append("Quantity", strconv.Itoa(record.Quantity))
		_ = table.Append("Start", record.StartDate)
		_ = table.Append("End", record.EndDate)
		_ = table.Append("Auto-Renew", strconv.FormatBool(record.AutoRenew))
		_ = table.Render()

		return nil
	}
}
