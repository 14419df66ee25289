// ABOUTME: Doctor command: environment, store and integrity health checks
// ABOUTME: Prints one line per check with a pass/fail marker

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type checkResult struct {
	Name   string
	OK     bool
	Detail string
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and store health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []checkResult

			cfg, err := loadConfig()
			if err != nil {
				results = append(results, checkResult{"config", false, err.Error()})
				printChecks(results)
				return fmt.Errorf("doctor found problems")
			}
			results = append(results, checkResult{"config", true, getConfigPath()})

			if _, err := loadPrefs(); err != nil {
				results = append(results, checkResult{"prefs", false, err.Error()})
			} else {
				results = append(results, checkResult{"prefs", true, prefsPath()})
			}

			if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
				results = append(results, checkResult{"store file", true, "not created yet (first command will create it)"})
			} else if err != nil {
				results = append(results, checkResult{"store file", false, err.Error()})
			} else {
				results = append(results, checkResult{"store file", true, cfg.Database.Path})
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				results = append(results, checkResult{"engine", false, err.Error()})
				printChecks(results)
				return fmt.Errorf("doctor found problems")
			}
			defer sess.shutdown()
			results = append(results, checkResult{"engine", true, cfg.Bridge.Transport + " transport"})

			integrity, err := sess.client.CheckIntegrity(cmd.Context())
			switch {
			case err != nil:
				results = append(results, checkResult{"integrity", false, err.Error()})
			case !integrity.OK:
				results = append(results, checkResult{"integrity", false, integrity.Detail})
			default:
				results = append(results, checkResult{"integrity", true, "ok"})
			}

			diag, err := sess.client.Diagnostics(cmd.Context())
			if err != nil {
				results = append(results, checkResult{"schema", false, err.Error()})
			} else {
				detail := fmt.Sprintf("version %d, %d tables, %d indexes",
					diag.SchemaVersion, len(diag.Tables), len(diag.Indexes))
				results = append(results, checkResult{"schema", true, detail})
			}

			printChecks(results)
			for _, r := range results {
				if !r.OK {
					return fmt.Errorf("doctor found problems")
				}
			}
			return nil
		},
	}
}

func printChecks(results []checkResult) {
	for _, r := range results {
		marker := color.GreenString("✓")
		if !r.OK {
			marker = color.RedString("✗")
		}
		fmt.Printf("%s %-12s %s\n", marker, r.Name, r.Detail)
	}
}
