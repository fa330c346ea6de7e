// Command genconfig writes the configuration resolved from the environment to
// config.<environment>.yaml, or to the path given as the first argument.
package main

import (
	"fmt"
	"os"

	"github.com/NomadCrew/feedback-board/config"
	"github.com/NomadCrew/feedback-board/logger"
)

func main() {
	logger.InitLogger()
	defer logger.Close()
	log := logger.GetLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := fmt.Sprintf("config.%s.yaml", cfg.Server.Environment)
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := config.WriteFile(cfg, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Infow("Generated configuration file", "path", path, "environment", cfg.Server.Environment)
}
