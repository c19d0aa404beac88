package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kuanb/gosm-planner/config"
	"kuanb/gosm-planner/logger"
	"kuanb/gosm-planner/render"
	"kuanb/gosm-planner/routing"
	"kuanb/gosm-planner/server"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("file is empty")
	}
	return data, nil
}

func writeGeoJSON(path string, g *routing.Graph, res routing.PathResult) error {
	body, err := render.RouteCollection(g, res).MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func main() {
	mapFile := flag.String("f", "", "OpenStreetMap data file (.osm, .osm.pbf, .osm.bz2)")
	configFile := flag.String("config", "", "config file (defaults to ./data/config.*)")
	serve := flag.Bool("serve", false, "serve routes over HTTP instead of prompting")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogDevelopment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	osmDataFile := *mapFile
	if osmDataFile == "" {
		fmt.Println("To specify a map file use the following format: ")
		fmt.Println("Usage: [executable] [-f filename.osm]")
		osmDataFile = cfg.MapFile
	}

	var osmData []byte
	fmt.Println("Reading OpenStreetMap data from the following file: ", osmDataFile)
	if data, err := readFile(osmDataFile); err != nil {
		fmt.Println("Failed to read.")
		log.Warn("read map file", zap.String("file", osmDataFile), zap.Error(err))
	} else {
		osmData = data
	}

	graph, err := routing.BuildGraph(osmData,
		routing.WithLogger(log),
		routing.WithFootways(cfg.IncludeFootways),
		routing.WithDecoderWorkers(cfg.Workers))
	if err != nil {
		log.Warn("map data unusable, continuing with empty graph", zap.Error(err))
	}

	router, err := routing.NewRouter(graph, routing.RouterConfig{
		SearchTimeout: cfg.SearchTimeout,
		CacheSize:     cfg.CacheSize,
		Workers:       cfg.Workers,
	}, log)
	if err != nil {
		log.Fatal("create router", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *serve {
		if err := server.New(router, log).Run(ctx, cfg.HTTPAddr); err != nil {
			log.Fatal("http server", zap.Error(err))
		}
		return
	}

	in, err := newCoordinatePrompt(os.Stdin, os.Stdout).readRoute()
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}

	start := orb.Point{in.StartX * percentToPlane, in.StartY * percentToPlane}
	end := orb.Point{in.EndX * percentToPlane, in.EndY * percentToPlane}
	fmt.Printf("Start(%g, %g) End(%g, %g)\n", in.StartX, in.StartY, in.EndX, in.EndY)

	res, err := router.Route(ctx, start, end)
	if err != nil {
		fmt.Println("Route search failed:", err)
		os.Exit(1)
	}
	if !res.Found {
		fmt.Println("No path found.")
	}
	fmt.Printf("Distance: %g meters. \n", res.GeodesicMeters())

	if cfg.GeoJSONOut != "" {
		if err := writeGeoJSON(cfg.GeoJSONOut, graph, res); err != nil {
			log.Error("write geojson", zap.String("file", cfg.GeoJSONOut), zap.Error(err))
			return
		}
		log.Info("wrote route geojson", zap.String("file", cfg.GeoJSONOut))
	}
}
