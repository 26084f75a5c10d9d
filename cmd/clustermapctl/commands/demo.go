package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cluster "github.com/markerforest/clustermap"
)

// geoJSONPoint mirrors the subset of a GeoJSON Feature this command needs:
// a Point geometry plus a name property.
type geoJSONPoint struct {
	Type       string `json:"type"`
	Properties struct {
		Name string `json:"Name"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

type geoJSONFeatureCollection struct {
	Type     string         `json:"type"`
	Features []geoJSONPoint `json:"features"`
}

func (p geoJSONPoint) coordinates() cluster.GeoCoordinates {
	return cluster.GeoCoordinates{
		Lon: p.Geometry.Coordinates[0],
		Lat: p.Geometry.Coordinates[1],
	}
}

func importGeoJSON(filename string) ([]geoJSONPoint, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var fc geoJSONFeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, err
	}
	return fc.Features, nil
}

// NewDemoCommand builds the "demo" subcommand: load a GeoJSON point set,
// run it through the engine, and print the resulting render frontier.
func NewDemoCommand() *cobra.Command {
	var (
		file       string
		scale      float64
		clustering bool
		depth      int
		distance   float64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Load a GeoJSON point set and print the render frontier",
		RunE: func(_ *cobra.Command, _ []string) error {
			points, err := importGeoJSON(file)
			if err != nil {
				return fmt.Errorf("import geojson: %w", err)
			}

			engine := cluster.NewEngine(
				cluster.NewFixedScaleProjector(scale),
				cluster.WithDepth(depth),
				cluster.WithClusterDistance(distance),
			)
			engine.SetClustering(clustering)

			for _, p := range points {
				engine.Add(p.coordinates())
			}

			frontier := engine.Frontier(scale)
			out, err := json.MarshalIndent(frontier, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal frontier: %w", err)
			}
			fmt.Println(string(out))
			fmt.Printf("%d markers, %d points, %d clusters\n",
				len(points), len(frontier.Points), len(frontier.Clusters))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "testdata/places.geojson", "GeoJSON FeatureCollection of Point features")
	cmd.Flags().Float64Var(&scale, "scale", 1, "camera scale passed to Frontier")
	cmd.Flags().BoolVar(&clustering, "clustering", true, "enable clustering")
	cmd.Flags().IntVar(&depth, "depth", 14, "clustering tree depth")
	cmd.Flags().Float64Var(&distance, "distance", 40, "cluster distance in pixels")

	return cmd
}
