// Reporta CLI — инструмент командной строки для генерации отчётов
// и управления расписаниями и получателями через HTTP API.
//
// Использование:
//
//	reporta [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	report     Генерация, preview и скачивание отчётов
//	job        Управление scheduled jobs
//	email      Управление фиксированными получателями
//	dashboard  Метрики и состояние сервисов
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Reporta/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "reporta",
		Short:         "Reporta CLI — report scheduling and delivery tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewReportCmd(clientFn, outputFn),
		cli.NewJobCmd(clientFn, outputFn),
		cli.NewEmailCmd(clientFn, outputFn),
		cli.NewDashboardCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
