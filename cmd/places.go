package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tattva/internal/config"
	"github.com/papapumpkin/tattva/internal/places"
	"github.com/papapumpkin/tattva/internal/ui"
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "List the known places",
	Args:  cobra.NoArgs,
	RunE:  runPlacesList,
}

var placesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find places whose name or alias contains the query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlacesSearch,
}

var placesAddCmd = &cobra.Command{
	Use:   "add <name> <latitude> <longitude>",
	Short: "Add a place to the user catalog",
	Long: `Adds a place to the TOML catalog named by places_file. A place with the
same name replaces the existing entry. Give --zone for a DST-aware zone;
--offset is only used when no zone can be resolved.`,
	Args: cobra.ExactArgs(3),
	RunE: runPlacesAdd,
}

var placesUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a catalog place the configured location",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlacesUse,
}

func init() {
	placesAddCmd.Flags().String("zone", "", "IANA time zone of the place")
	placesAddCmd.Flags().Float64("offset", 0, "fixed UTC offset in hours")
	placesAddCmd.Flags().StringSlice("alias", nil, "alternative names")

	placesCmd.AddCommand(placesSearchCmd, placesAddCmd, placesUseCmd)
	rootCmd.AddCommand(placesCmd)
}

func loadCatalog() (config.Config, *places.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	cat, err := places.Load(cfg.PlacesFile)
	return cfg, cat, err
}

func runPlacesList(cmd *cobra.Command, _ []string) error {
	_, cat, err := loadCatalog()
	if err != nil {
		return err
	}
	ui.NewTo(cmd.ErrOrStderr()).Places(cat, cat.All(), time.Now())
	return nil
}

func runPlacesSearch(cmd *cobra.Command, args []string) error {
	_, cat, err := loadCatalog()
	if err != nil {
		return err
	}
	q := strings.Join(args, " ")
	ui.NewTo(cmd.ErrOrStderr()).Places(cat, cat.Search(q), time.Now())
	return nil
}

func runPlacesAdd(cmd *cobra.Command, args []string) error {
	cfg, cat, err := loadCatalog()
	if err != nil {
		return err
	}
	lat, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("latitude %q: %w", args[1], err)
	}
	lon, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("longitude %q: %w", args[2], err)
	}
	p := places.Place{Name: args[0], Latitude: lat, Longitude: lon}
	p.Zone, _ = cmd.Flags().GetString("zone")
	p.Offset, _ = cmd.Flags().GetFloat64("offset")
	p.Aliases, _ = cmd.Flags().GetStringSlice("alias")
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := cat.Location(p); err != nil {
		return err
	}

	cat.Add(p)
	if err := cat.Save(cfg.PlacesFile); err != nil {
		return err
	}
	ui.NewTo(cmd.ErrOrStderr()).Success(fmt.Sprintf("added %s to %s", p.Name, cfg.PlacesFile))
	return nil
}

func runPlacesUse(cmd *cobra.Command, args []string) error {
	_, cat, err := loadCatalog()
	if err != nil {
		return err
	}
	p, err := cat.Find(strings.Join(args, " "))
	if err != nil {
		return err
	}
	values := [][2]string{
		{"location.name", p.Name},
		{"location.latitude", strconv.FormatFloat(p.Latitude, 'f', -1, 64)},
		{"location.longitude", strconv.FormatFloat(p.Longitude, 'f', -1, 64)},
		{"location.zone", p.Zone},
		{"location.offset", strconv.FormatFloat(p.Offset, 'f', -1, 64)},
	}
	path := configPath()
	for _, kv := range values {
		if err := config.Save(path, kv[0], kv[1]); err != nil {
			return err
		}
	}
	ui.NewTo(cmd.ErrOrStderr()).Success(fmt.Sprintf("location set to %s in %s", p.Name, path))
	return nil
}
