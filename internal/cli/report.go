package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewReportCmd создаёт группу команд для работы с отчётами.
func NewReportCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate, preview and download reports",
	}

	cmd.AddCommand(
		newReportGenerateCmd(clientFn, outputFn),
		newReportPreviewCmd(clientFn, outputFn),
		newReportDownloadCmd(clientFn, outputFn),
		newReportExecutionsCmd(clientFn, outputFn),
	)

	return cmd
}

func newReportGenerateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var email string
	var format string
	var useFixed bool
	var status string
	var limit int
	var startDate string
	var endDate string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report and send it by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if email == "" && !useFixed {
				return fmt.Errorf("either --email or --fixed is required")
			}

			result, err := client.GenerateReport(GenerateReportRequest{
				DestinationEmail: email,
				Format:           format,
				UseFixedEmails:   useFixed,
				Status:           status,
				Limit:            limit,
				StartDate:        startDate,
				EndDate:          endDate,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Report sent to %s (%d records)",
				strings.Join(result.SentTo, ", "), result.TotalRecords))
			out.Print(
				[]string{"EXECUTION_ID", "RECORDS", "SENT_TO", "DURATION_MS"},
				[][]string{{
					result.ExecutionID,
					strconv.Itoa(result.TotalRecords),
					strings.Join(result.SentTo, ","),
					strconv.FormatInt(result.DurationMs, 10),
				}},
				result,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Destination email address")
	cmd.Flags().StringVar(&format, "format", "excel", "Report format: excel or csv")
	cmd.Flags().BoolVar(&useFixed, "fixed", false, "Send to the fixed recipient list")
	cmd.Flags().StringVar(&status, "status", "", "Occurrence status filter (comma-separated)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max records in the report (0 = no limit)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Lower createdDate bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Upper createdDate bound (YYYY-MM-DD)")

	return cmd
}

func newReportPreviewCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var page int
	var size int
	var status string
	var startDate string
	var endDate string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview report data without sending",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.PreviewReport(PreviewOpts{
				Page:      page,
				Size:      size,
				Status:    status,
				StartDate: startDate,
				EndDate:   endDate,
			})
			if err != nil {
				return err
			}

			headers := []string{"NUMBER", "TITLE", "STATUS", "RESPONSIBLE", "CREATED", "TYPE"}
			rows := make([][]string, len(result.Data))
			for i, r := range result.Data {
				rows[i] = []string{
					strconv.FormatInt(r.Number, 10),
					truncate(r.Title, 40),
					r.Status,
					r.ResponsibleName,
					r.CreatedDate,
					r.OccurrenceTypeName,
				}
			}

			out.Print(headers, rows, result)
			if !out.jsonMode {
				out.Success(fmt.Sprintf("Page %d/%d, %d records total",
					result.Pagination.Page+1, result.Pagination.TotalPages, result.Pagination.Total))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number (0-based)")
	cmd.Flags().IntVar(&size, "size", 10, "Page size")
	cmd.Flags().StringVar(&status, "status", "", "Occurrence status filter (comma-separated)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Lower createdDate bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Upper createdDate bound (YYYY-MM-DD)")

	return cmd
}

func newReportDownloadCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var format string
	var outFile string
	var status string
	var startDate string
	var endDate string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a report file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, filename, err := client.DownloadReport(format, PreviewOpts{
				Status:    status,
				StartDate: startDate,
				EndDate:   endDate,
			})
			if err != nil {
				return err
			}

			if outFile != "" {
				filename = outFile
			}

			if err := os.WriteFile(filename, data, 0o644); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}

			out.Success(fmt.Sprintf("Saved %s (%d bytes)", filename, len(data)))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "excel", "Report format: excel or csv")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file name (default: server-provided)")
	cmd.Flags().StringVar(&status, "status", "", "Occurrence status filter (comma-separated)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Lower createdDate bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Upper createdDate bound (YYYY-MM-DD)")

	return cmd
}

func newReportExecutionsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var reportID string
	var limit int

	cmd := &cobra.Command{
		Use:   "executions [ID]",
		Short: "Show execution history, or one execution by ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if len(args) == 1 {
				execution, err := client.GetExecution(args[0])
				if err != nil {
					return err
				}
				out.Print(executionHeaders, [][]string{executionRow(execution)}, execution)
				return nil
			}

			executions, err := client.ListExecutions(ListExecutionsOpts{ReportID: reportID, Limit: limit})
			if err != nil {
				return err
			}

			rows := make([][]string, len(executions))
			for i := range executions {
				rows[i] = executionRow(&executions[i])
			}

			out.Print(executionHeaders, rows, executions)
			return nil
		},
	}

	cmd.Flags().StringVar(&reportID, "report-id", "", "Filter by scheduled job ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max executions to return")

	return cmd
}

var executionHeaders = []string{"ID", "STATUS", "RECORDS", "SENT_TO", "EXECUTED_AT", "DURATION_MS", "ERROR"}

func executionRow(e *ExecutionResponse) []string {
	duration := ""
	if e.DurationMs != nil {
		duration = strconv.FormatInt(*e.DurationMs, 10)
	}
	return []string{
		e.ID,
		e.Status,
		strconv.Itoa(e.RecordsProcessed),
		strings.Join(e.EmailsSentTo, ","),
		e.ExecutedAt,
		duration,
		truncate(e.ErrorMessage, 60),
	}
}
