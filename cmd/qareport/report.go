package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"qareport/internal/azdo"
	"qareport/internal/config"
	"qareport/internal/confluence"
	"qareport/internal/notify"
	"qareport/internal/report"
	"qareport/internal/sprint"
	"qareport/internal/stringutils"
	"qareport/internal/telemetry"
	"qareport/internal/testplan"
	"qareport/internal/ui"
)

var sprintName string

// now is swapped out in tests.
var now = time.Now

func runReport(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn("ignoring unknown argument: "+arg))
	}

	if err := config.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	orgURL := viper.GetString("azdo.org_url")
	project := viper.GetString("azdo.project")
	tracker := azdo.NewClient(orgURL, project, viper.GetString("azdo.team"), viper.GetString("azdo.pat"))
	wiki := confluence.NewClient(
		viper.GetString("confluence.base_url"),
		viper.GetString("confluence.email"),
		viper.GetString("confluence.api_token"),
	)

	// A named sprint needs the full iteration list; otherwise the current
	// timeframe is enough (with an unscoped fallback inside the client).
	timeframe := ""
	if sprintName == "" {
		timeframe = "current"
	}
	iterations, err := tracker.Iterations(ctx, timeframe)
	if err != nil {
		return fmt.Errorf("failed to list iterations: %w", err)
	}

	selection, err := sprint.Select(toWindows(iterations), now(), sprintName)
	if err != nil {
		return err
	}
	if len(selection.Windows) == 0 {
		fmt.Fprintln(out, ui.Info("No iterations found; nothing to report."))
		return nil
	}
	slog.Info("selected sprint", "label", selection.Label)

	suiteIndex := testplan.NewSuiteIndex(tracker, orgURL, project)
	rows, err := report.GatherRows(ctx, selection.Windows, tracker, suiteIndex)
	if err != nil {
		return err
	}
	telemetry.SetReportRows(len(rows))
	slog.Info("gathered report rows", "count", len(rows))

	template, err := wiki.GetPage(ctx, viper.GetString("confluence.page_id"))
	if err != nil {
		return fmt.Errorf("failed to fetch template page: %w", err)
	}
	if _, err := report.WriteFileIfChanged(config.TemplateCachePath(), []byte(template.StorageValue())); err != nil {
		return err
	}

	rowValues := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		rowValues[i] = row.Values()
	}
	html, err := report.Render(template.StorageValue(), selection.Label, rowValues)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	outPath := filepath.Join(viper.GetString("output.dir"), stringutils.Slugify(selection.Label)+".html")
	wrote, err := report.WriteFileIfChanged(outPath, []byte(html))
	if err != nil {
		return err
	}
	if !wrote {
		slog.Info("report file unchanged", "path", outPath)
	}

	publisher := &report.Publisher{
		Wiki:         wiki,
		SpaceKey:     viper.GetString("confluence.space_key"),
		ParentPageID: viper.GetString("confluence.parent_page_id"),
	}
	result, err := publisher.Publish(ctx, html, selection.Label, template)
	if err != nil {
		return err
	}

	message := notify.ReportPublished(selection.Label, result.Title, result.Version, len(rows))
	if err := notify.NewSlackNotifier().Notify(ctx, message); err != nil {
		slog.Warn("slack notification failed", "error", err)
	}

	if gateway := viper.GetString("metrics.pushgateway_url"); gateway != "" {
		if err := telemetry.PushMetrics(gateway); err != nil {
			slog.Warn("metrics push failed", "error", err)
		}
	}

	fmt.Fprintln(out, ui.Title("QA report published"))
	fmt.Fprintln(out, ui.KV("Sprint", selection.Label))
	fmt.Fprintln(out, ui.KV("Rows", len(rows)))
	fmt.Fprintln(out, ui.KV("Page", fmt.Sprintf("%s (version %d)", result.Title, result.Version)))
	fmt.Fprintln(out, ui.KV("File", outPath))
	fmt.Fprintln(out, ui.Success("Done"))
	return nil
}

// toWindows converts tracker iterations to selector windows. Iterations
// without dates keep zero times; they never match a date containment check
// but stay addressable by name, path or id.
func toWindows(iterations []azdo.Iteration) []sprint.Window {
	windows := make([]sprint.Window, 0, len(iterations))
	for _, it := range iterations {
		w := sprint.Window{Name: it.Name, Path: it.Path, ID: it.ID}
		if it.Attributes.StartDate != nil {
			w.Start = *it.Attributes.StartDate
		}
		if it.Attributes.FinishDate != nil {
			w.Finish = *it.Attributes.FinishDate
		}
		windows = append(windows, w)
	}
	return windows
}
