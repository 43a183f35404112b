package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/tattva/internal/config"
	"github.com/papapumpkin/tattva/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "View the daemon's JSONL telemetry events",
	Long: `Reads and formats the JSONL telemetry written by "tattva watch" when
telemetry_path is set. With --follow (-f), watches the file for new events
(like tail -f).`,
	Args: cobra.NoArgs,
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().String("file", "", "telemetry file (default: telemetry_path)")
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, _ []string) error {
	follow, _ := cmd.Flags().GetBool("follow")
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path = cfg.TelemetryPath
	}
	if path == "" {
		return errors.New("telemetry: no file; set telemetry_path or pass --file")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	printLines(cmd.OutOrStdout(), reader)
	if !follow {
		return nil
	}
	return tailFollow(cmd, reader, path)
}

// printLines prints every complete event available from r.
func printLines(w io.Writer, r *bufio.Reader) {
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			fmt.Fprintln(w, telemetry.FormatLine(line))
		}
		if err != nil {
			return
		}
	}
}

// tailFollow watches the file with fsnotify and prints new events until the
// command's context is cancelled.
func tailFollow(cmd *cobra.Command, r *bufio.Reader, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				printLines(cmd.OutOrStdout(), r)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("telemetry watcher", zap.Error(err))
		}
	}
}
