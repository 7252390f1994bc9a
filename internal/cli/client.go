package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/crm"
	"github.com/realpulse/realpulse/internal/store"
)

func init() {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Manage analytics clients",
	}
	clientCmd.AddCommand(newClientAddCmd(), newClientListCmd())
	rootCmd.AddCommand(clientCmd)

	requestCmd := &cobra.Command{
		Use:   "request",
		Short: "Manage service requests",
	}
	requestCmd.AddCommand(newRequestAddCmd(), newRequestListCmd())
	rootCmd.AddCommand(requestCmd)
}

func newClientAddCmd() *cobra.Command {
	var location, company, email, experience string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := crm.NewClient(args[0], location)
			client.Company = company
			client.ContactEmail = email
			if experience != "" {
				if err := client.SetExperience(experience); err != nil {
					return err
				}
			}

			return withStore(func(p *store.Platform) error {
				id, err := p.InsertClient(context.Background(), store.Client{
					Name:         client.Name,
					Location:     client.Location,
					Company:      client.Company,
					ContactEmail: client.ContactEmail,
					BusinessType: client.BusinessType,
					Experience:   client.Experience,
					CreatedAt:    client.CreatedAt,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Client '%s' registered (#%d)\n", client.Name, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "client location")
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&experience, "experience", "", "analytics experience: Beginner, Intermediate or Advanced")
	return cmd
}

func newClientListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				clients, err := p.ListClients(context.Background())
				if err != nil {
					return err
				}
				if len(clients) == 0 {
					fmt.Println("No clients registered. Use 'client add' to create one.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tLOCATION\tCOMPANY\tEXPERIENCE\tCREATED")
				for _, c := range clients {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
						c.ID, c.Name, c.Location, c.Company, c.Experience,
						c.CreatedAt.Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}
}

func newRequestAddCmd() *cobra.Command {
	var serviceType, priority, title string

	cmd := &cobra.Command{
		Use:   "add <client-name>",
		Short: "Open a service request for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				ctx := context.Background()

				clients, err := p.ListClients(ctx)
				if err != nil {
					return err
				}
				var client *crm.Client
				for _, c := range clients {
					if c.Name == args[0] {
						client = crm.NewClient(c.Name, c.Location)
						break
					}
				}
				if client == nil {
					return fmt.Errorf("client %q: %w", args[0], store.ErrNotFound)
				}

				request := crm.NewServiceRequest(client, serviceType)
				if title != "" {
					request.Title = title
				}
				if priority != "" {
					if err := request.SetPriority(priority); err != nil {
						return err
					}
				}

				err = p.InsertServiceRequest(ctx, store.ServiceRequest{
					ID:          request.ID,
					ClientName:  client.Name,
					ServiceType: request.ServiceType,
					ProjectType: request.ProjectType,
					Title:       request.Title,
					Status:      string(request.Status),
					Priority:    request.Priority,
					Deadline:    request.Deadline,
					CreatedAt:   request.CreatedAt,
				})
				if err != nil {
					return err
				}

				fmt.Printf("Request %s opened for '%s' (%s, due %s)\n",
					request.ID[:8], client.Name, request.ServiceType,
					request.Deadline.Format("2006-01-02"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&serviceType, "service", crm.ServiceBusinessAnalytics, "requested service type")
	cmd.Flags().StringVar(&priority, "priority", "", "priority: Low, Medium, High or Urgent")
	cmd.Flags().StringVar(&title, "title", "", "request title")
	return cmd
}

func newRequestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List service requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				requests, err := p.ListServiceRequests(context.Background())
				if err != nil {
					return err
				}
				if len(requests) == 0 {
					fmt.Println("No service requests.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCLIENT\tSERVICE\tSTATUS\tPRIORITY\tDEADLINE")
				for _, r := range requests {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						shortID(r.ID), r.ClientName, r.ServiceType, r.Status,
						r.Priority, r.Deadline.Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}
}
