package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// NewHealthcheckCmd builds the healthcheck command for container probes.
// It exits non-zero unless the local server answers /healthz with 200.
func NewHealthcheckCmd(app *App) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = "http://localhost:" + app.Config.Port
			}
			if err := runHealthcheck(baseURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "server base URL (default http://localhost:$PORT)")
	return cmd
}

func runHealthcheck(baseURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
