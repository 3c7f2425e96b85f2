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

// NewProductsCommand creates the products command group.
func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products",
		Long:    "List, create, and delete product types",
	}

	cmd.AddCommand(newProductsListCommand())
	cmd.AddCommand(newProductsCreateCommand())
	cmd.AddCommand(newProductsDeleteCommand())

	return cmd
}

func newProductsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			records, err := api.Products().List(context.Background())
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
					fmt.Println("No products found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Recurring")

				for _, record := range records {
					_ = table.Append(
						clientsuccess.FormatID(record.ID),
						record.Name,
						strconv.FormatBool(record.Recurring),
					)
				}

				_ = table.Render()

				return nil
			}
		},
	}
}

func newProductsCreateCommand() *cobra.Command {
	var recurring bool

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a product type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			record, err := api.Products().CreateType(context.Background(), args[0], &clientsuccess.ProductTypeOptions{
				Recurring: recurring,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Product %s created with ID %s\n", record.Name, clientsuccess.FormatID(record.ID))

			return nil
		},
	}

	cmd.Flags().BoolVar(&recurring, "recurring", false, "product recurs each billing period")

	return cmd
}

func newProductsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PRODUCT_ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := CreateClient()
			if err != nil {
				return err
			}

			if err := api.Products().Delete(context.Background(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Product %s deleted\n", args[0])

			return nil
		},
	}
}
