package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/format"
	"github.com/xavierca1/seller-console/internal/infra/fileio"
	"github.com/xavierca1/seller-console/internal/infra/seed"
	"github.com/xavierca1/seller-console/internal/usecase"
)

// withSession opens the console for the duration of fn.
func withSession(cmd *cobra.Command, open opener, fn func(s *session) error) error {
	s, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	err = fn(s)
	s.report(cmd.ErrOrStderr())
	return err
}

func newSeedCmd(open opener) *cobra.Command {
	var (
		count int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo leads into an empty console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, open, func(s *session) error {
				if count <= 0 {
					count = s.cfg.SampleLeads
				}
				n, err := seed.NewSeeder(s.state.Ctrl, s.state.Repo, s.logger).Run(cmd.Context(), count, force)
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Sample data already loaded; use --force to add more.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d leads.\n", n)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "number of leads (default SAMPLE_LEADS)")
	cmd.Flags().BoolVar(&force, "force", false, "seed even if data exists")
	return cmd
}

func newListCmd(open opener) *cobra.Command {
	var (
		kind, status, stage, search string
		page                        int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print a page of leads or opportunities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, open, func(s *session) error {
				// filters given here apply to this listing only
				st := s.state.Ctrl.Get()
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				defer tw.Flush()

				switch kind {
				case usecase.CollectionLeads:
					f, err := entity.NormalizeStatusFilter(status)
					if err != nil {
						return err
					}
					st.LeadFilters = entity.LeadFilters{Status: f, Search: search}
					st.LeadPage = page
					list := usecase.ViewLeads(st, s.state.Ctrl.PerPage())
					fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tSTATUS\tSCORE\tSOURCE")
					for _, l := range list.Items {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d (%s)\t%s\n",
							l.ID, l.Name, l.Company, format.StatusLabel(l.Status),
							l.Score, format.ScoreLabel(l.Score), format.SourceLabel(l.Source))
					}
					fmt.Fprintf(tw, "\npage %d of %d, %d leads\n", list.Page.Page, list.TotalPages, list.TotalItems)
				case usecase.CollectionOpportunities:
					f, err := entity.NormalizeStageFilter(stage)
					if err != nil {
						return err
					}
					st.OpportunityFilters = entity.OpportunityFilters{Stage: f, Search: search}
					st.OpportunityPage = page
					list := usecase.ViewOpportunities(st, s.state.Ctrl.PerPage())
					fmt.Fprintln(tw, "ID\tNAME\tACCOUNT\tSTAGE\tAMOUNT\tCREATED")
					for _, o := range list.Items {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
							o.ID, o.Name, o.AccountName, format.StageLabel(o.Stage),
							format.FormatAmount(o.Amount), format.FormatDate(o.CreatedAt))
					}
					fmt.Fprintf(tw, "\npage %d of %d, %d opportunities\n", list.Page.Page, list.TotalPages, list.TotalItems)
				default:
					return fmt.Errorf("unknown kind %q (use leads or opportunities)", kind)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", usecase.CollectionLeads, "leads or opportunities")
	cmd.Flags().StringVar(&status, "status", entity.AllValues, "lead status filter")
	cmd.Flags().StringVar(&stage, "stage", entity.AllValues, "opportunity stage filter")
	cmd.Flags().StringVar(&search, "search", "", "search text")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newImportCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import leads from a CSV or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, open, func(s *session) error {
				res, err := s.coord.ImportLeads(cmd.Context(), args[0], content)
				for _, e := range res.Errors {
					fmt.Fprintln(cmd.ErrOrStderr(), e)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d leads.\n", res.ImportedCount)
				return nil
			})
		},
	}
}

func newExportCmd(open opener) *cobra.Command {
	var kind, formatFlag, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a whole collection as json, csv or xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fileio.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			return withSession(cmd, open, func(s *session) error {
				var buf bytes.Buffer
				if err := s.coord.Export(cmd.Context(), &buf, kind, f); err != nil {
					return err
				}
				if out == "-" {
					_, err := io.Copy(cmd.OutOrStdout(), &buf)
					return err
				}
				if out == "" {
					out = f.FileName(kind)
				}
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", usecase.CollectionLeads, "leads or opportunities")
	cmd.Flags().StringVar(&formatFlag, "format", string(fileio.FormatJSON), "json, csv or xlsx")
	cmd.Flags().StringVar(&out, "out", "", `output file ("-" for stdout, default <kind>.<format>)`)
	return cmd
}

func newConvertCmd(open opener) *cobra.Command {
	var (
		name, account, stage string
		amount               float64
	)
	cmd := &cobra.Command{
		Use:   "convert <leadId>",
		Short: "Convert a lead into an opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := usecase.OpportunityInput{Name: name, Stage: stage, AccountName: account}
			if cmd.Flags().Changed("amount") {
				form.Amount = &amount
			}
			return withSession(cmd, open, func(s *session) error {
				opp, err := s.coord.ConvertLead(cmd.Context(), args[0], form)
				if err != nil {
					var vf *usecase.ValidationFailedError
					if errors.As(err, &vf) {
						for _, ve := range vf.Errors {
							fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", ve.Field, ve.Message)
						}
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created opportunity %s (%s, %s)\n",
					opp.ID, format.StageLabel(opp.Stage), format.FormatAmount(opp.Amount))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "opportunity name")
	cmd.Flags().StringVar(&account, "account", "", "account name")
	cmd.Flags().Float64Var(&amount, "amount", 0, "deal amount")
	cmd.Flags().StringVar(&stage, "stage", "", "initial stage (default prospecting)")
	return cmd
}

func newClearCmd(open opener) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every lead, opportunity and saved view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "This removes all console data. Type 'yes' to continue: ")
				var answer string
				fmt.Fscanln(cmd.InOrStdin(), &answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "yes") {
					return fmt.Errorf("aborted")
				}
			}
			return withSession(cmd, open, func(s *session) error {
				if err := s.state.Repo.Clear(cmd.Context()); err != nil {
					return err
				}
				if err := s.state.Ctrl.Dispatch(cmd.Context(), usecase.ResetState{}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
