package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/stsysd/niwa/catalog"
	"github.com/stsysd/niwa/config"
	"github.com/stsysd/niwa/db"
	"github.com/stsysd/niwa/frost"
	"github.com/stsysd/niwa/model"
	"github.com/stsysd/niwa/schedule"
	"github.com/stsysd/niwa/state"
	"github.com/stsysd/niwa/store"
	"go.uber.org/zap"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the catalog localized to a frost anchor",
	Long: `Print the planting catalog localized to a frost anchor.

The anchor is taken from --frost-day, else looked up for --zip, else read
from the stored location, else the configured default.`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().Int("frost-day", 0, "frost anchor as a day of the year (1-365)")
	catalogCmd.Flags().String("zip", "", "US ZIP code to look up")
	catalogCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(catalogCmd)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
)

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var frostDay *int
	if cmd.Flags().Changed("frost-day") {
		v, _ := cmd.Flags().GetInt("frost-day")
		if v < 1 || v > 365 {
			return fmt.Errorf("--frost-day must be between 1 and 365, got %d", v)
		}
		frostDay = &v
	}
	zip, _ := cmd.Flags().GetString("zip")

	c, err := catalog.New(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	var st store.SnapshotStore
	if _, err := os.Stat(filepath.Join(cfg.DataDir, store.DBFile)); err == nil {
		sqliteStore, err := store.NewSQLiteStore(cfg.DataDir, db.Migrate)
		if err != nil {
			return fmt.Errorf("failed to open SQLite store: %w", err)
		}
		defer sqliteStore.Close()
		st = sqliteStore
	}

	day, source, err := resolveAnchor(cmd.Context(), cfg, st, newResolver(cfg), frostDay, zip)
	if err != nil {
		return err
	}
	plants := c.Localized(day)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			FrostDay int           `json:"frostDay"`
			Source   string        `json:"source"`
			Plants   []model.Plant `json:"plants"`
		}{day, source, plants})
	}
	return renderCatalog(cmd.OutOrStdout(), plants, day, source)
}

// resolveAnchor picks the frost anchor for the catalog command. A failed
// ZIP lookup falls back to the configured default like the server does.
func resolveAnchor(ctx context.Context, cfg *config.Config, st store.SnapshotStore, resolver frost.Resolver, frostDay *int, zip string) (int, string, error) {
	if frostDay != nil {
		return *frostDay, "manual", nil
	}
	if zip != "" {
		z, err := model.NewZIPCode(zip)
		if err != nil {
			return 0, "", err
		}
		anchor, err := resolver.Resolve(ctx, z.String())
		if err != nil {
			logger.Warn("frost lookup failed; using default anchor", zap.String("zip", z.String()), zap.Error(err))
			return cfg.DefaultFrostDay, frost.SourceDefault, nil
		}
		return anchor.FrostDay, anchor.Source + " " + z.String(), nil
	}
	if st != nil {
		raw, err := st.LoadKey(ctx, state.KeyLocation)
		if err != nil && !errors.Is(err, model.ErrSnapshotNotFound) {
			return 0, "", err
		}
		if loc := state.Hydrate(map[string][]byte{state.KeyLocation: raw}).Location; loc != nil && loc.FrostDay != nil {
			return schedule.AnchorFromLocation(loc), "stored " + loc.ZIP, nil
		}
	}
	return cfg.DefaultFrostDay, frost.SourceDefault, nil
}

// renderCatalog writes the localized catalog as a table.
func renderCatalog(w io.Writer, plants []model.Plant, frostDay int, source string) error {
	rows := make([][]string, 0, len(plants))
	for _, p := range plants {
		if p.IsDisplayOnly() {
			bloom := p.BloomSeasonText()
			if bloom == "" {
				bloom = "-"
			}
			rows = append(rows, []string{p.Image + " " + p.Name, p.Category, "-", "-", "-", "Blooms: " + bloom})
			continue
		}
		rows = append(rows, []string{
			p.Image + " " + p.Name,
			p.Category,
			p.StartSeedIndoor,
			p.TransplantOutdoor,
			p.StartSeedOutdoor,
			p.HarvestDate,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Plant", "Category", "Start indoors", "Transplant", "Sow outdoors", "Harvest").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && rows[row][col] == model.NotApplicable {
				return mutedStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(w, "Last frost %s (day %d, %s)\n%s\n",
		schedule.FormatDay(frostDay), frostDay, strings.TrimSpace(source), t.String())
	return err
}
