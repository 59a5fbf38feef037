package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewJobCmd создаёт группу команд для управления scheduled jobs.
func NewJobCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage scheduled report jobs",
	}

	cmd.AddCommand(
		newJobListCmd(clientFn, outputFn),
		newJobCreateCmd(clientFn, outputFn),
		newJobShowCmd(clientFn, outputFn),
		newJobUpdateCmd(clientFn, outputFn),
		newJobDeleteCmd(clientFn, outputFn),
		newJobEnableCmd(clientFn, outputFn),
		newJobDisableCmd(clientFn, outputFn),
	)

	return cmd
}

var jobHeaders = []string{"ID", "NAME", "FREQUENCY", "TIME", "FORMAT", "ACTIVE", "NEXT_RUN"}

func jobRow(j *JobResponse) []string {
	schedule := j.Frequency
	switch {
	case j.DayOfWeek != nil:
		schedule += "/dow=" + strconv.Itoa(*j.DayOfWeek)
	case j.DayOfMonth != nil:
		schedule += "/dom=" + strconv.Itoa(*j.DayOfMonth)
	}
	return []string{
		j.ID, j.Name, schedule, j.TimeOfDay, j.Format,
		strconv.FormatBool(j.IsActive), j.NextRun,
	}
}

func newJobListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			jobs, err := client.ListJobs()
			if err != nil {
				return err
			}

			rows := make([][]string, len(jobs))
			for i := range jobs {
				rows[i] = jobRow(&jobs[i])
			}

			out.Print(jobHeaders, rows, jobs)
			return nil
		},
	}
}

func newJobCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var frequency string
	var timeOfDay string
	var dayOfWeek int
	var dayOfMonth int
	var format string
	var limit int
	var startDate string
	var endDate string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a scheduled job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateJobRequest{
				Name:      args[0],
				Frequency: frequency,
				TimeOfDay: timeOfDay,
				Format:    format,
			}
			if cmd.Flags().Changed("day-of-week") {
				req.DayOfWeek = &dayOfWeek
			}
			if cmd.Flags().Changed("day-of-month") {
				req.DayOfMonth = &dayOfMonth
			}
			if limit > 0 || startDate != "" || endDate != "" {
				req.Filters = &JobFilters{
					Limit:     limit,
					StartDate: startDate,
					EndDate:   endDate,
				}
			}
			job, err := client.CreateJob(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Job created: %s", job.ID))
			out.Print(jobHeaders, [][]string{jobRow(job)}, job)
			return nil
		},
	}

	cmd.Flags().StringVar(&frequency, "frequency", "", "daily, weekly or monthly (required)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "Time of day HH:mm (required)")
	cmd.Flags().IntVar(&dayOfWeek, "day-of-week", 0, "Day of week for weekly jobs (0=Sunday)")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 1, "Day of month for monthly jobs (1-31)")
	cmd.Flags().StringVar(&format, "format", "excel", "Report format: excel or csv")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max records in the report")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Lower createdDate bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Upper createdDate bound (YYYY-MM-DD)")
	cmd.MarkFlagRequired("frequency")
	cmd.MarkFlagRequired("time")

	return cmd
}

func newJobShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show job details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			job, err := client.GetJob(args[0])
			if err != nil {
				return err
			}

			out.Print(jobHeaders, [][]string{jobRow(job)}, job)
			return nil
		},
	}
}

func newJobUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var frequency string
	var timeOfDay string
	var dayOfWeek int
	var dayOfMonth int
	var format string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a job (only the given flags change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var req UpdateJobRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("frequency") {
				req.Frequency = &frequency
			}
			if cmd.Flags().Changed("time") {
				req.TimeOfDay = &timeOfDay
			}
			if cmd.Flags().Changed("day-of-week") {
				req.DayOfWeek = &dayOfWeek
			}
			if cmd.Flags().Changed("day-of-month") {
				req.DayOfMonth = &dayOfMonth
			}
			if cmd.Flags().Changed("format") {
				req.Format = &format
			}

			job, err := client.UpdateJob(args[0], req)
			if err != nil {
				return err
			}

			out.Success("Job updated")
			out.Print(jobHeaders, [][]string{jobRow(job)}, job)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Job name")
	cmd.Flags().StringVar(&frequency, "frequency", "", "daily, weekly or monthly")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "Time of day HH:mm")
	cmd.Flags().IntVar(&dayOfWeek, "day-of-week", 0, "Day of week for weekly jobs (0=Sunday)")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 1, "Day of month for monthly jobs (1-31)")
	cmd.Flags().StringVar(&format, "format", "", "Report format: excel or csv")

	return cmd
}

func newJobDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteJob(args[0]); err != nil {
				return err
			}

			out.Success("Job deleted")
			return nil
		},
	}
}

func newJobEnableCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "enable ID",
		Short: "Enable a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			job, err := client.SetJobActive(args[0], true)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Job enabled, next run: %s", job.NextRun))
			out.Print(jobHeaders, [][]string{jobRow(job)}, job)
			return nil
		},
	}
}

func newJobDisableCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "disable ID",
		Short: "Disable a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			job, err := client.SetJobActive(args[0], false)
			if err != nil {
				return err
			}

			out.Success("Job disabled")
			out.Print(jobHeaders, [][]string{jobRow(job)}, job)
			return nil
		},
	}
}
