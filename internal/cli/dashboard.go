package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewDashboardCmd создаёт группу команд для просмотра дашборда.
func NewDashboardCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show metrics and service health",
	}

	cmd.AddCommand(
		newDashboardStatsCmd(clientFn, outputFn),
		newDashboardStatusCmd(clientFn, outputFn),
	)

	return cmd
}

func newDashboardStatsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show metrics for the current period",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			stats, err := client.GetDashboardStats()
			if err != nil {
				return err
			}

			headers := []string{"METRIC", "VALUE", "PREVIOUS", "TREND_%"}
			rows := [][]string{
				metricRow("reports_generated", stats.ReportsGenerated),
				metricRow("emails_sent", stats.EmailsSent),
				metricRow("occurrences_fetched", stats.OccurrencesFetched),
			}

			if !out.jsonMode {
				out.Success("Period: " + stats.Period)
			}
			out.Print(headers, rows, stats)
			return nil
		},
	}
}

func metricRow(name string, m MetricStat) []string {
	return []string{
		name,
		strconv.FormatInt(m.Value, 10),
		strconv.FormatInt(m.PreviousValue, 10),
		strconv.Itoa(m.TrendPercent),
	}
}

func newDashboardStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service health from the latest checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			status, err := client.GetSystemStatus()
			if err != nil {
				return err
			}

			headers := []string{"SERVICE", "STATUS", "LATENCY_MS", "CHECKED_AT", "MESSAGE"}
			rows := make([][]string, len(status.Services))
			for i, s := range status.Services {
				latency := ""
				if s.LatencyMs != nil {
					latency = strconv.FormatInt(*s.LatencyMs, 10)
				}
				rows[i] = []string{s.Service, s.Status, latency, s.CheckedAt, s.Message}
			}

			out.Print(headers, rows, status)
			return nil
		},
	}
}
