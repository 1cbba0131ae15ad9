// Command furnishd serves a furniture placement engine over HTTP. The view
// subcommand opens the same engine in a window instead, and script replays
// an interaction script headlessly.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phanxgames/furnish"
	"github.com/phanxgames/furnish/config"
	"github.com/phanxgames/furnish/server"
	"github.com/phanxgames/furnish/view"
)

func main() {
	var configFile, listen string
	var accessLog, planView bool
	var file *config.File

	rootCmd := &cobra.Command{
		Use:   "furnishd",
		Short: "Interactive furniture placement server",
		Run: func(c *cobra.Command, args []string) {
			eng := newEngine(file)
			srv := server.New(eng, server.Options{ServerName: file.HTTP.ServerName, AccessLog: accessLog})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go srv.Run(ctx, file.HTTP.TickRate)
			go func() {
				<-ctx.Done()
				if err := srv.Shutdown(); err != nil {
					log.Printf("shutdown: %v", err)
				}
			}()

			addr := file.HTTP.Listen
			if listen != "" {
				addr = listen
			}
			log.Printf("furnishd listening on %s", addr)
			if err := srv.Listen(addr); err != nil {
				log.Fatalf("Failed on start: %v", err)
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration (json or yaml)")
	rootCmd.Flags().StringVar(&listen, "addr", "", "Listen address, overrides http.listen")
	rootCmd.Flags().BoolVar(&accessLog, "access-log", true, "Log every request")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Open the room in a window",
		Run: func(c *cobra.Command, args []string) {
			eng := newEngine(file)
			if err := view.Run(eng, view.Options{Title: "furnish", PlanView: planView, ShowFPS: file.Debug}); err != nil {
				log.Fatal(err)
			}
		},
	}
	viewCmd.Flags().BoolVar(&planView, "plan", false, "Start in the top-down plan view")

	scriptCmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Replay an interaction script and print the final scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runScript(newEngine(file), args[0], c.OutOrStdout())
		},
	}

	rootCmd.AddCommand(viewCmd, scriptCmd)

	cobra.OnInitialize(func() {
		if configFile == "" {
			configFile = os.Getenv("CONFIG_FILE")
		}
		var err error
		file, err = config.Load(configFile)
		if err != nil {
			log.Fatalf("Failed to read config: %v", err)
		}
		if configFile != "" {
			log.Printf("Loaded config file: %s", configFile)
		}
	})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newEngine(file *config.File) *furnish.Engine {
	eng, err := furnish.New(file.EngineConfig())
	if err != nil {
		log.Fatalf("Failed on init: %v", err)
	}
	if file.Assets.Dir != "" {
		eng.SetAssetProvider(furnish.NewGLTFAssets(file.Assets.Dir))
	}
	return eng
}

// maxScriptFrames bounds a replay so a stuck script cannot spin forever.
const maxScriptFrames = 100000

func runScript(eng *furnish.Engine, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	runner, err := furnish.LoadScript(data)
	if err != nil {
		return err
	}
	eng.SetCamera(furnish.NewTopDownCamera(furnish.Rect{Width: 800, Height: 600}, 50))
	eng.SetScriptRunner(runner)
	frames := 0
	for !runner.Done() {
		if frames++; frames > maxScriptFrames {
			return fmt.Errorf("script %s did not finish after %d frames", path, maxScriptFrames)
		}
		eng.Update(1.0 / 60)
	}
	for _, e := range runner.Errors() {
		log.Printf("script: %v", e)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(eng.Snapshot())
}
